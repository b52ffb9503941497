package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-ai/internal/models"
)

type stubFetcher struct {
	images map[string][]byte
	calls  []string
}

func (s *stubFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	s.calls = append(s.calls, url)
	data, ok := s.images[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pdfText(t *testing.T, data []byte) (string, int) {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	plain, err := r.GetPlainText()
	require.NoError(t, err)
	text, err := io.ReadAll(plain)
	require.NoError(t, err)
	return string(text), r.NumPage()
}

func TestPDFCourse(t *testing.T) {
	course := sampleCourse()
	course.MainTopics[0].Videos[0].ThumbnailURL = "https://img/good.png"
	course.MainTopics[0].Videos[1].ThumbnailURL = "https://img/broken.png"
	course.MainTopics[0].Videos[2].ThumbnailURL = "https://img/third.png"
	fetcher := &stubFetcher{images: map[string][]byte{
		"https://img/good.png":   pngBytes(t, 480, 360),
		"https://img/broken.png": []byte("not an image"),
		"https://img/third.png":  pngBytes(t, 10, 10),
	}}

	data, err := NewPDFRenderer(fetcher, nil).Course(context.Background(), course)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	// Only the first two topic videos are considered.
	assert.Equal(t, []string{"https://img/good.png", "https://img/broken.png"}, fetcher.calls)
	assert.Equal(t, 1, bytes.Count(data, []byte("/Subtype /Image")))

	text, pages := pdfText(t, data)
	assert.GreaterOrEqual(t, pages, 1)
	assert.Contains(t, text, "Description")
	assert.Contains(t, text, "Introduction")
	assert.Contains(t, text, "Summary")
}

func TestPDFCourseMissingFields(t *testing.T) {
	r := NewPDFRenderer(nil, nil)

	data, err := r.Course(context.Background(), &models.CourseDocument{
		MainTopics: []models.Topic{{Subtopics: []models.Subtopic{{}}}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	data, err = r.Course(context.Background(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPDFCourseKeepsNonLatinText(t *testing.T) {
	data, err := NewPDFRenderer(nil, nil).Course(context.Background(), &models.CourseDocument{
		Title:       "Über Ελληνικά Русский",
		Description: "Γράφοι και деревья",
	})
	require.NoError(t, err)

	text, _ := pdfText(t, data)
	assert.Contains(t, text, "Über Ελληνικά Русский")
	assert.Contains(t, text, "Γράφοι και деревья")
	assert.NotContains(t, text, "....")
}

func TestPDFCourseWithoutFetcherHasNoImages(t *testing.T) {
	data, err := NewPDFRenderer(nil, nil).Course(context.Background(), sampleCourse())
	require.NoError(t, err)
	assert.Zero(t, bytes.Count(data, []byte("/Subtype /Image")))
}

func TestPDFQuiz(t *testing.T) {
	quiz := &models.QuizDocument{
		Title:       "Graph Quiz",
		Description: "Check yourself",
		Questions: []models.QuizQuestion{
			{Prompt: "What is an edge?", Options: []string{"A point", "A pair"}, CorrectAnswerIndex: 1, Explanation: "Edges join vertices."},
			{Prompt: "Unknown key", Options: []string{"x"}, CorrectAnswerIndex: -1},
			{},
		},
	}

	data, err := NewPDFRenderer(nil, nil).Quiz(quiz)
	require.NoError(t, err)

	text, _ := pdfText(t, data)
	assert.Contains(t, text, "Question")
	assert.Contains(t, text, "CORRECT")
	assert.Contains(t, text, "Explanation")
}

func TestPDFQuizNil(t *testing.T) {
	data, err := NewPDFRenderer(nil, nil).Quiz(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-ai/internal/models"
	"course-ai/internal/services"
)

const (
	cliCourseReply = `{"course_title": "Graph Theory", "description": "Vertices and edges.",
"main_topics": [{"title": "Basics", "content": "A graph is a set of vertices.",
  "subtopics": [{"title": "Edges", "content": "Edges join vertices."}]}]}`

	cliQuizReply = `{"quiz_title": "Graph Quiz", "questions": [
  {"question": "What joins vertices?", "options": ["Edges", "Faces", "Rings", "Paths"], "correct_answer": 0, "explanation": "Edges join vertices."},
  {"question": "A graph is a set of?", "options": ["Lines", "Vertices", "Planes", "Cubes"], "correct_answer": 1}
]}`
)

type stubCompleter struct {
	course string
	quiz   string
	calls  []services.CompletionRequest
}

func (s *stubCompleter) Complete(_ context.Context, req services.CompletionRequest) (string, error) {
	s.calls = append(s.calls, req)
	if strings.Contains(req.System, "assessment") {
		return s.quiz, nil
	}
	return s.course, nil
}

func setupTestServices(t *testing.T) (*stubCompleter, string) {
	t.Helper()
	dir := t.TempDir()
	completer := &stubCompleter{course: cliCourseReply, quiz: cliQuizReply}
	prev := svc
	Configure(Services{
		Generator: services.NewGenerator(completer, nil, nil, "test-model", nil),
		Store:     services.NewArtifactStore(dir),
	})
	t.Cleanup(func() { svc = prev })
	return completer, dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		genSearch, genVideos, genQuiz = false, false, false
		genSearchResults = services.DefaultSearchResults
		genVideosPerTopic = services.DefaultVideosPerNode
		genTemperature = services.DefaultTemperature
		genMaxTokens = services.DefaultCourseMaxTokens
		genQuizCount = services.DefaultQuizCount
		genReference, genPDF = "", ""
		quizCount, quizPDF = services.DefaultQuizCount, ""
		renderPDF, renderAnswers = "", ""
	})
}

func TestGenerateCmd_Flags(t *testing.T) {
	assert.Equal(t, "generate [topic]", generateCmd.Use)
	flag := generateCmd.Flags().Lookup("quiz-count")
	require.NotNil(t, flag)
	assert.Equal(t, "7", flag.DefValue)
	flag = generateCmd.Flags().Lookup("temperature")
	require.NotNil(t, flag)
	assert.Equal(t, "0.7", flag.DefValue)
}

func TestGenerateCmd_RequiresTopic(t *testing.T) {
	setupTestServices(t)
	_, _, err := execute(t, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestGenerateCmd_WritesCourseAndQuiz(t *testing.T) {
	completer, dir := setupTestServices(t)
	resetFlags(t)
	pdfPath := filepath.Join(t.TempDir(), "course.pdf")

	out, _, err := execute(t, "generate", "Graph", "Theory", "--quiz", "--quiz-count", "4", "--max-tokens", "2000", "--pdf", pdfPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Graph Theory")
	assert.Contains(t, out, "What joins vertices?")
	assert.FileExists(t, filepath.Join(dir, "graph_theory_course.json"))
	assert.FileExists(t, filepath.Join(dir, "graph_theory_quiz.json"))

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	require.Len(t, completer.calls, 2)
	assert.Equal(t, 2000, completer.calls[0].MaxTokens)
	assert.Contains(t, completer.calls[0].User, "on the topic: Graph Theory.")
	assert.Contains(t, completer.calls[1].User, "with 4 multiple-choice questions")
}

func TestGenerateCmd_PrintsRawOnBadJSON(t *testing.T) {
	completer, _ := setupTestServices(t)
	resetFlags(t)
	completer.course = "sorry, no JSON"

	_, stderr, err := execute(t, "generate", "graphs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course generation failed")
	assert.Contains(t, stderr, "sorry, no JSON")
}

func TestQuizCmd_FromSavedCourse(t *testing.T) {
	_, dir := setupTestServices(t)
	resetFlags(t)
	path, err := svc.Store.SaveCourse("graph theory", &models.CourseDocument{Title: "Graph Theory"})
	require.NoError(t, err)

	out, _, err := execute(t, "quiz", path, "-n", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Graph Quiz")
	assert.FileExists(t, filepath.Join(dir, "graph_theory_quiz.json"))
}

func TestRenderCmd_GradesQuiz(t *testing.T) {
	setupTestServices(t)
	resetFlags(t)
	path, err := svc.Store.SaveQuiz("graphs", &models.QuizDocument{
		Title: "Graph Quiz",
		Questions: []models.QuizQuestion{
			{Prompt: "What joins vertices?", Options: []string{"Edges", "Faces"}, CorrectAnswerIndex: 0},
			{Prompt: "A graph is a set of?", Options: []string{"Lines", "Vertices"}, CorrectAnswerIndex: 1},
		},
	})
	require.NoError(t, err)

	out, _, err := execute(t, "render", path, "--answers", "a, a")
	require.NoError(t, err)
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Correct answer: Vertices.")
	assert.Contains(t, out, "Score: 1/2 (50.0%)")
}

func TestRenderCmd_CoursePDF(t *testing.T) {
	setupTestServices(t)
	resetFlags(t)
	path, err := svc.Store.SaveCourse("graphs", &models.CourseDocument{Title: "Graph Theory"})
	require.NoError(t, err)
	pdfPath := filepath.Join(t.TempDir(), "out.pdf")

	out, _, err := execute(t, "render", path, "--pdf", pdfPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Graph Theory")
	assert.FileExists(t, pdfPath)
}

func TestParseAnswers(t *testing.T) {
	assert.Equal(t, []int{0, 2, -1, -1}, parseAnswers("A,c,?", 4))
	assert.Equal(t, []int{1}, parseAnswers("B,C", 1))
}

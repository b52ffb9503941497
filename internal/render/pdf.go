package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"course-ai/internal/logger"
	"course-ai/internal/models"
)

const (
	pdfFont           = "GoFont"
	pdfMargin         = 72.0
	bodyLineHeight    = 14.0
	thumbWidthPt      = 144.0
	thumbHeightPt     = 108.0
	maxTopicVideos    = 2
	maxSubtopicVideos = 1
)

// PDFRenderer lays out courses and quizzes as A4 documents.
type PDFRenderer struct {
	thumbs ThumbnailFetcher
	log    *logger.Logger
}

// NewPDFRenderer returns a renderer. With a nil fetcher no thumbnails are drawn.
func NewPDFRenderer(thumbs ThumbnailFetcher, log *logger.Logger) *PDFRenderer {
	if log == nil {
		log = logger.Nop()
	}
	return &PDFRenderer{thumbs: thumbs, log: log}
}

// Course renders course. Missing fields render as empty sections; a thumbnail
// that cannot be fetched or decoded is skipped.
func (r *PDFRenderer) Course(ctx context.Context, course *models.CourseDocument) ([]byte, error) {
	if course == nil {
		course = &models.CourseDocument{}
	}
	d := newPDFDoc(orDefault(course.Title, untitledCourse))
	d.title(orDefault(course.Title, untitledCourse))

	d.heading1("Description")
	d.paragraph(course.Description)

	d.heading1("Learning Objectives")
	d.bullets(course.LearningObjectives)

	d.heading1("Introduction")
	d.paragraph(course.Introduction)

	d.heading1("Main Topics")
	for i, topic := range course.MainTopics {
		d.heading2(fmt.Sprintf("%d. %s", i+1, orDefault(topic.Title, untitledTopic)))
		d.paragraph(topic.Content)

		if len(topic.Videos) > 0 {
			d.heading3("Topic Videos:")
			for _, video := range firstVideos(topic.Videos, maxTopicVideos) {
				d.paragraph("- " + video.Title)
				d.link("  Link: "+video.WatchURL, video.WatchURL)
				r.thumbnail(ctx, d, video.ThumbnailURL)
			}
		}

		for j, sub := range topic.Subtopics {
			d.heading3(fmt.Sprintf("%d.%d %s", i+1, j+1, orDefault(sub.Title, untitledSubtopic)))
			d.paragraph(sub.Content)

			if len(sub.Examples) > 0 {
				d.heading3("Examples:")
				d.bullets(sub.Examples)
			}
			if len(sub.Videos) > 0 {
				d.heading3("Related Videos:")
				for _, video := range firstVideos(sub.Videos, maxSubtopicVideos) {
					d.link(fmt.Sprintf("- %s: %s", video.Title, video.WatchURL), video.WatchURL)
				}
			}
		}
	}

	d.heading1("Summary")
	d.paragraph(course.Summary)

	d.heading1("Key Takeaways")
	d.bullets(course.KeyTakeaways)

	return d.output()
}

// Quiz renders quiz as an answer sheet with the correct option marked.
func (r *PDFRenderer) Quiz(quiz *models.QuizDocument) ([]byte, error) {
	if quiz == nil {
		quiz = &models.QuizDocument{}
	}
	d := newPDFDoc(orDefault(quiz.Title, untitledQuiz))
	d.title(orDefault(quiz.Title, untitledQuiz))
	d.paragraph(quiz.Description)

	for i, q := range quiz.Questions {
		d.heading1(fmt.Sprintf("Question %d", i+1))
		d.paragraph(q.Prompt)

		d.heading2("Options:")
		for j, opt := range q.Options {
			line := fmt.Sprintf("%s. %s", OptionLetter(j), opt)
			if j == q.CorrectAnswerIndex {
				d.correct(line + " (CORRECT)")
				continue
			}
			d.paragraph(line)
		}

		d.heading2("Explanation:")
		d.paragraph(q.Explanation)
	}

	return d.output()
}

func (r *PDFRenderer) thumbnail(ctx context.Context, d *pdfDoc, url string) {
	if r.thumbs == nil || url == "" {
		return
	}
	data, err := r.thumbs.Fetch(ctx, url)
	if err != nil {
		r.log.Debug("skipping thumbnail", "url", url, "error", err)
		return
	}
	jpg, err := normalizeThumbnail(data)
	if err != nil {
		r.log.Debug("skipping thumbnail", "url", url, "error", err)
		return
	}
	d.image(jpg)
	if !d.f.Ok() {
		r.log.Debug("skipping thumbnail", "url", url, "error", d.f.Error())
		d.f.ClearError()
	}
}

func firstVideos(videos []models.VideoRef, n int) []models.VideoRef {
	if len(videos) > n {
		return videos[:n]
	}
	return videos
}

// pdfDoc wraps fpdf with the handful of block styles the documents use.
type pdfDoc struct {
	f      *fpdf.Fpdf
	images int
}

func newPDFDoc(title string) *pdfDoc {
	f := fpdf.New("P", "pt", "A4", "")
	f.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	f.SetAutoPageBreak(true, pdfMargin)
	f.SetTitle(title, true)
	f.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	f.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	f.AddPage()
	return &pdfDoc{f: f}
}

func (d *pdfDoc) title(s string) {
	d.f.SetFont(pdfFont, "B", 20)
	d.f.MultiCell(0, 26, s, "", "C", false)
	d.f.Ln(18)
}

func (d *pdfDoc) heading1(s string) { d.heading(s, 16, 20, 8) }
func (d *pdfDoc) heading2(s string) { d.heading(s, 14, 18, 4) }
func (d *pdfDoc) heading3(s string) { d.heading(s, 12, 16, 2) }

func (d *pdfDoc) heading(s string, size, lineHeight, gap float64) {
	d.f.Ln(gap)
	d.f.SetFont(pdfFont, "B", size)
	d.f.MultiCell(0, lineHeight, s, "", "L", false)
	d.f.Ln(2)
}

func (d *pdfDoc) paragraph(s string) {
	d.f.SetFont(pdfFont, "", 11)
	d.f.MultiCell(0, bodyLineHeight, s, "", "L", false)
	d.f.Ln(4)
}

func (d *pdfDoc) correct(s string) {
	d.f.SetFont(pdfFont, "B", 11)
	d.f.SetTextColor(29, 122, 53)
	d.f.MultiCell(0, bodyLineHeight, s, "", "L", false)
	d.f.SetTextColor(0, 0, 0)
	d.f.Ln(4)
}

func (d *pdfDoc) bullets(items []string) {
	d.f.SetFont(pdfFont, "", 11)
	for _, item := range items {
		d.f.SetX(pdfMargin + 12)
		d.f.MultiCell(0, bodyLineHeight, "• "+item, "", "L", false)
	}
	d.f.Ln(4)
}

func (d *pdfDoc) link(display, target string) {
	d.f.SetFont(pdfFont, "", 11)
	if target == "" {
		d.paragraph(display)
		return
	}
	d.f.SetTextColor(0, 0, 238)
	d.f.WriteLinkString(bodyLineHeight, display, target)
	d.f.SetTextColor(0, 0, 0)
	d.f.Ln(bodyLineHeight + 4)
}

func (d *pdfDoc) image(jpg []byte) {
	d.images++
	name := fmt.Sprintf("thumb-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: "JPG"}
	d.f.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpg))
	if !d.f.Ok() {
		return
	}
	d.f.ImageOptions(name, -1, 0, thumbWidthPt, thumbHeightPt, true, opts, 0, "")
	d.f.Ln(6)
}

func (d *pdfDoc) output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"course-ai/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

// Flash is a one-shot notice shown at the top of the next page.
type Flash struct {
	Kind string // error, warning, info, success
	Text string
	// Raw is the unparsed model response, shown verbatim when extraction fails.
	Raw string
}

// Page carries what every page shares.
type Page struct {
	Title string
	Flash []Flash
}

// GeneratorForm holds the generator controls and their current values.
type GeneratorForm struct {
	Topic          string
	UseSearch      bool
	SearchResults  int
	IncludeVideos  bool
	VideosPerTopic int
	Temperature    float32
	MaxTokens      int
	GenerateQuiz   bool
	QuizCount      int
}

type GeneratorPage struct {
	Page
	Form          GeneratorForm
	SearchEnabled bool
	VideosEnabled bool
	HasCourse     bool
}

type CoursePage struct {
	Page
	Course    *CourseView
	QuizCount int
}

type QuizPage struct {
	Page
	Quiz *QuizView
}

// HTMLRenderer renders the interactive pages.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("pages").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

func (r *HTMLRenderer) Generator(w io.Writer, page GeneratorPage) error {
	if page.Title == "" {
		page.Title = "Course Generator"
	}
	return r.execute(w, "generator.html", page)
}

// Course renders course, or an empty state when it is nil.
func (r *HTMLRenderer) Course(w io.Writer, course *models.CourseDocument, quizCount int, flash []Flash) error {
	view := NewCourseView(course)
	title := "Course"
	if view != nil {
		title = view.Title
	}
	return r.execute(w, "course.html", CoursePage{
		Page:      Page{Title: title, Flash: flash},
		Course:    view,
		QuizCount: quizCount,
	})
}

// Quiz renders quiz with the attempt state, or an empty state when it is nil.
func (r *HTMLRenderer) Quiz(w io.Writer, quiz *models.QuizDocument, attempt models.QuizAttempt, flash []Flash) error {
	view := NewQuizView(quiz, attempt)
	title := "Quiz"
	if view != nil {
		title = view.Title
	}
	return r.execute(w, "quiz.html", QuizPage{
		Page: Page{Title: title, Flash: flash},
		Quiz: view,
	})
}

func (r *HTMLRenderer) execute(w io.Writer, name string, data any) error {
	if err := r.tmpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

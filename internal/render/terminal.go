package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"course-ai/internal/models"
	"course-ai/internal/services"
)

// terminalStyles is the palette for plain terminal output. Colours are
// dropped automatically when stdout is not a terminal.
type terminalStyles struct {
	Title    lipgloss.Style
	Heading  lipgloss.Style
	Subtitle lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Box      lipgloss.Style
}

func defaultTerminalStyles() terminalStyles {
	return terminalStyles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4")),
		Subtitle: lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#45475A")).
			Padding(0, 1),
	}
}

// Terminal renders a course as styled text for the command line.
func Terminal(course *models.CourseDocument) string {
	view := NewCourseView(course)
	if view == nil {
		return ""
	}
	s := defaultTerminalStyles()
	var b strings.Builder

	b.WriteString(s.Box.Render(s.Title.Render(view.Title)))
	b.WriteString("\n\n")
	section(&b, s, "Description", view.Description)
	list(&b, s, "Learning Objectives", view.LearningObjectives)
	section(&b, s, "Introduction", view.Introduction)

	b.WriteString(s.Heading.Render("Main Topics"))
	b.WriteString("\n")
	for _, topic := range view.Topics {
		fmt.Fprintf(&b, "\n%s\n%s\n", s.Subtitle.Render(topic.Number+". "+topic.Title), topic.Content)
		videoLines(&b, s, topic.VideoRows, "  ")
		for _, sub := range topic.Subtopics {
			fmt.Fprintf(&b, "\n  %s\n  %s\n", s.Subtitle.Render(sub.Number+" "+sub.Title), sub.Content)
			for _, ex := range sub.Examples {
				fmt.Fprintf(&b, "    - %s\n", ex)
			}
			videoLines(&b, s, sub.VideoRows, "    ")
		}
	}
	b.WriteString("\n")
	section(&b, s, "Summary", view.Summary)
	list(&b, s, "Key Takeaways", view.KeyTakeaways)
	return b.String()
}

// TerminalQuiz renders a quiz with lettered options. When grade is non-nil
// the verdicts and the score banner are included.
func TerminalQuiz(quiz *models.QuizDocument, grade *services.GradeResult) string {
	if quiz == nil {
		return ""
	}
	s := defaultTerminalStyles()
	var b strings.Builder

	b.WriteString(s.Box.Render(s.Title.Render(orDefault(quiz.Title, untitledQuiz))))
	b.WriteString("\n")
	if quiz.Description != "" {
		b.WriteString(quiz.Description + "\n")
	}

	for i, q := range quiz.Questions {
		fmt.Fprintf(&b, "\n%s\n%s\n", s.Subtitle.Render(fmt.Sprintf("Question %d", i+1)), q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(&b, "  %s. %s\n", OptionLetter(j), opt)
		}
		if grade == nil || i >= len(grade.PerQuestion) {
			continue
		}
		res := grade.PerQuestion[i]
		if res.IsCorrect {
			b.WriteString(s.Success.Render("Correct!") + "\n")
		} else {
			b.WriteString(s.Error.Render(fmt.Sprintf("Incorrect. Your answer: %s. Correct answer: %s.", res.SelectedOptionText, res.CorrectOptionText)) + "\n")
		}
		if q.Explanation != "" {
			b.WriteString(s.Muted.Render("Explanation: "+q.Explanation) + "\n")
		}
	}

	if grade != nil {
		banner := fmt.Sprintf("Score: %d/%d (%.1f%%)", grade.CorrectCount, grade.QuestionCount, grade.ScorePercent)
		style := s.Error
		switch grade.Band() {
		case "good":
			style = s.Success
		case "fair":
			style = s.Warning
		}
		b.WriteString("\n" + style.Bold(true).Render(banner) + "\n")
	}
	return b.String()
}

func section(b *strings.Builder, s terminalStyles, heading, body string) {
	b.WriteString(s.Heading.Render(heading))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
}

func list(b *strings.Builder, s terminalStyles, heading string, items []string) {
	b.WriteString(s.Heading.Render(heading))
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "  • %s\n", item)
	}
	b.WriteString("\n")
}

func videoLines(b *strings.Builder, s terminalStyles, rows [][]models.VideoRef, indent string) {
	if len(rows) == 0 {
		return
	}
	for _, row := range rows {
		for _, v := range row {
			fmt.Fprintf(b, "%s▶ %s %s\n", indent, v.Title, s.Muted.Render("("+v.Channel+") "+v.WatchURL))
		}
	}
}

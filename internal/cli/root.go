// Package cli implements the coursegen command line.
package cli

import (
	"github.com/spf13/cobra"

	"course-ai/internal/logger"
	"course-ai/internal/render"
	"course-ai/internal/services"
)

// Services are the collaborators the commands run against.
type Services struct {
	Generator *services.Generator
	Store     *services.ArtifactStore
	PDFText   *services.PDFService
	PDF       *render.PDFRenderer
	Log       *logger.Logger
}

var svc Services

var rootCmd = &cobra.Command{
	Use:   "coursegen",
	Short: "Generate courses and quizzes with an LLM",
	Long: `coursegen turns a topic into a structured course, derives multiple-choice
quizzes from it, and renders both to the terminal, JSON and PDF.`,
	SilenceUsage: true,
}

// Configure installs the services used by every command.
func Configure(s Services) {
	if s.Log == nil {
		s.Log = logger.Nop()
	}
	if s.PDFText == nil {
		s.PDFText = services.NewPDFService()
	}
	if s.PDF == nil {
		s.PDF = render.NewPDFRenderer(nil, s.Log)
	}
	svc = s
}

func Execute() error {
	return rootCmd.Execute()
}

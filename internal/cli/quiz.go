package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"course-ai/internal/models"
	"course-ai/internal/render"
	"course-ai/internal/services"
)

var (
	quizCount int
	quizPDF   string
)

var quizCmd = &cobra.Command{
	Use:   "quiz [course.json]",
	Short: "Generate a quiz from a saved course",
	Long: `Reads a course JSON file written by "generate" and derives a
multiple-choice quiz from its outline. The quiz is printed with its answer key
and saved as JSON next to the other artifacts.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuiz,
}

func init() {
	quizCmd.Flags().IntVarP(&quizCount, "count", "n", services.DefaultQuizCount, "number of questions (3-10)")
	quizCmd.Flags().StringVar(&quizPDF, "pdf", "", "write the quiz PDF to this path")
	rootCmd.AddCommand(quizCmd)
}

func runQuiz(cmd *cobra.Command, args []string) error {
	if svc.Generator == nil || svc.Store == nil {
		return errors.New("generator not configured")
	}
	course, err := svc.Store.LoadCourse(args[0])
	if err != nil {
		return err
	}
	return generateAndPrintQuiz(cmd, course.Title, course, quizCount, quizPDF)
}

func generateAndPrintQuiz(cmd *cobra.Command, topic string, course *models.CourseDocument, count int, pdfPath string) error {
	opts := services.DefaultQuizOptions()
	opts.Count = count
	result, err := svc.Generator.GenerateQuiz(cmd.Context(), course, opts)
	if err != nil {
		return describeFailure(cmd, "quiz generation failed", err)
	}
	quiz := result.Quiz

	cmd.Println(render.TerminalQuiz(quiz, nil))
	if svc.Store != nil {
		if topic == "" {
			topic = "course"
		}
		path, err := svc.Store.SaveQuiz(strings.TrimSpace(topic), quiz)
		if err != nil {
			return fmt.Errorf("save quiz: %w", err)
		}
		cmd.Printf("Quiz saved to %s\n", path)
	}
	if pdfPath != "" {
		data, err := svc.PDF.Quiz(quiz)
		if err != nil {
			return fmt.Errorf("render quiz pdf: %w", err)
		}
		if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
			return fmt.Errorf("write quiz pdf: %w", err)
		}
		cmd.Printf("Quiz PDF written to %s\n", pdfPath)
	}
	return nil
}

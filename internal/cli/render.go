package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"course-ai/internal/models"
	"course-ai/internal/render"
	"course-ai/internal/services"
)

var (
	renderPDF     string
	renderAnswers string
)

var renderCmd = &cobra.Command{
	Use:   "render [file.json]",
	Short: "Render a saved course or quiz",
	Long: `Prints a saved course or quiz JSON file to the terminal and, with --pdf,
renders it as a PDF document. Quizzes are recognised by their "questions" field;
--answers grades a quiz from a comma-separated list of option letters.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderPDF, "pdf", "", "write a PDF to this path")
	renderCmd.Flags().StringVar(&renderAnswers, "answers", "", "grade a quiz against answers such as \"A,C,B\"")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("decode %s: %w", args[0], err)
	}

	var pdf []byte
	if _, isQuiz := probe["questions"]; isQuiz {
		quiz, err := models.UnmarshalQuiz(data)
		if err != nil {
			return err
		}
		var grade *services.GradeResult
		if renderAnswers != "" {
			result := services.Grade(quiz, parseAnswers(renderAnswers, len(quiz.Questions)))
			grade = &result
		}
		cmd.Println(render.TerminalQuiz(quiz, grade))
		if renderPDF != "" {
			pdf, err = svc.PDF.Quiz(quiz)
		}
		if err != nil {
			return fmt.Errorf("render quiz pdf: %w", err)
		}
	} else {
		course, err := models.UnmarshalCourse(data)
		if err != nil {
			return err
		}
		cmd.Println(render.Terminal(course))
		if renderPDF != "" {
			pdf, err = svc.PDF.Course(cmd.Context(), course)
		}
		if err != nil {
			return fmt.Errorf("render course pdf: %w", err)
		}
	}

	if renderPDF == "" {
		return nil
	}
	if err := os.WriteFile(renderPDF, pdf, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	cmd.Printf("PDF written to %s\n", renderPDF)
	return nil
}

// parseAnswers maps letters to option indexes. Blank or unknown entries stay
// unanswered.
func parseAnswers(raw string, n int) []int {
	selected := models.NewQuizAttempt(n).Selected
	for i, part := range strings.Split(raw, ",") {
		if i >= n {
			break
		}
		part = strings.ToUpper(strings.TrimSpace(part))
		if len(part) == 1 && part[0] >= 'A' && part[0] <= 'Z' {
			selected[i] = int(part[0] - 'A')
		}
	}
	return selected
}

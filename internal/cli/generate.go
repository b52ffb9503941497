package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"course-ai/internal/render"
	"course-ai/internal/services"
)

var (
	genSearch         bool
	genSearchResults  int
	genVideos         bool
	genVideosPerTopic int
	genTemperature    float32
	genMaxTokens      int
	genReference      string
	genQuiz           bool
	genQuizCount      int
	genPDF            string
)

var generateCmd = &cobra.Command{
	Use:   "generate [topic]",
	Short: "Generate a course for a topic",
	Long: `Generates a structured course for the topic, optionally grounded in web
search results and a reference PDF, and enriched with YouTube videos.
The course is printed and saved as JSON; --quiz also derives a quiz.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	flags := generateCmd.Flags()
	flags.BoolVar(&genSearch, "search", false, "ground the course in web search results")
	flags.IntVar(&genSearchResults, "search-results", services.DefaultSearchResults, "number of search results (1-10)")
	flags.BoolVar(&genVideos, "videos", false, "attach YouTube videos to topics and subtopics")
	flags.IntVar(&genVideosPerTopic, "videos-per-topic", services.DefaultVideosPerNode, "videos looked up per topic (1-5)")
	flags.Float32Var(&genTemperature, "temperature", services.DefaultTemperature, "sampling temperature (0-1)")
	flags.IntVar(&genMaxTokens, "max-tokens", services.DefaultCourseMaxTokens, "completion token limit (1000-8000)")
	flags.StringVar(&genReference, "reference", "", "PDF whose text is added to the prompt context")
	flags.BoolVar(&genQuiz, "quiz", false, "also generate a quiz from the course")
	flags.IntVar(&genQuizCount, "quiz-count", services.DefaultQuizCount, "quiz questions (3-10)")
	flags.StringVar(&genPDF, "pdf", "", "write the course PDF to this path")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if svc.Generator == nil {
		return errors.New("generator not configured")
	}
	topic := strings.Join(args, " ")
	ctx := cmd.Context()

	opts := services.CourseOptions{
		Topic:          topic,
		UseSearch:      genSearch,
		SearchResults:  genSearchResults,
		IncludeVideos:  genVideos,
		VideosPerTopic: genVideosPerTopic,
		Temperature:    genTemperature,
		MaxTokens:      genMaxTokens,
	}
	if genReference != "" {
		text, err := svc.PDFText.ExtractText(genReference, services.DefaultReferenceLimit)
		if err != nil {
			return fmt.Errorf("read reference pdf: %w", err)
		}
		opts.ReferenceText = text
	}

	result, err := svc.Generator.GenerateCourse(ctx, opts)
	if err != nil {
		return describeFailure(cmd, "course generation failed", err)
	}
	for _, w := range result.Warnings {
		cmd.PrintErrln("warning:", w)
	}
	course := result.Course

	cmd.Println(render.Terminal(course))
	if svc.Store != nil {
		path, err := svc.Store.SaveCourse(strings.TrimSpace(topic), course)
		if err != nil {
			return fmt.Errorf("save course: %w", err)
		}
		cmd.Printf("Course saved to %s\n", path)
	}
	if genPDF != "" {
		data, err := svc.PDF.Course(ctx, course)
		if err != nil {
			return fmt.Errorf("render course pdf: %w", err)
		}
		if err := os.WriteFile(genPDF, data, 0o644); err != nil {
			return fmt.Errorf("write course pdf: %w", err)
		}
		cmd.Printf("Course PDF written to %s\n", genPDF)
	}

	if !genQuiz {
		return nil
	}
	return generateAndPrintQuiz(cmd, strings.TrimSpace(topic), course, genQuizCount, "")
}

// describeFailure prints the raw completion for extraction failures before
// returning err.
func describeFailure(cmd *cobra.Command, prefix string, err error) error {
	var extractErr *services.ExtractionError
	if errors.As(err, &extractErr) {
		cmd.PrintErrln("raw model response:")
		cmd.PrintErrln(extractErr.Raw)
	}
	return fmt.Errorf("%s: %w", prefix, err)
}

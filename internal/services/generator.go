package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"course-ai/internal/logger"
	"course-ai/internal/models"
	"course-ai/pkg/videos"
	"course-ai/pkg/websearch"
)

var (
	ErrEmptyTopic = errors.New("topic is required")
	ErrNoCourse   = errors.New("generate a course first")
)

const (
	DefaultSearchResults   = 3
	DefaultTemperature     = 0.7
	DefaultCourseMaxTokens = 4000
	DefaultQuizCount       = 7
	DefaultQuizMaxTokens   = 2500
)

// VideoFinder is the video collaborator. A disabled finder is never called.
type VideoFinder interface {
	Enabled() bool
	Search(ctx context.Context, query string, maxResults int) ([]videos.Video, error)
}

// CourseOptions are the user controls for one course generation.
type CourseOptions struct {
	Topic          string
	UseSearch      bool
	SearchResults  int
	IncludeVideos  bool
	VideosPerTopic int
	Temperature    float32
	MaxTokens      int
	// ReferenceText is optional source material appended to the prompt context.
	ReferenceText string
}

// DefaultCourseOptions returns the form defaults for topic.
func DefaultCourseOptions(topic string) CourseOptions {
	return CourseOptions{
		Topic:          topic,
		SearchResults:  DefaultSearchResults,
		VideosPerTopic: DefaultVideosPerNode,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultCourseMaxTokens,
	}
}

func (o CourseOptions) normalized() CourseOptions {
	o.Topic = strings.TrimSpace(o.Topic)
	o.SearchResults = clampInt(o.SearchResults, 1, 10, DefaultSearchResults)
	o.VideosPerTopic = clampInt(o.VideosPerTopic, 1, 5, DefaultVideosPerNode)
	o.MaxTokens = clampInt(o.MaxTokens, 1000, 8000, DefaultCourseMaxTokens)
	o.Temperature = clampTemperature(o.Temperature)
	return o
}

// QuizOptions are the user controls for one quiz generation.
type QuizOptions struct {
	Count       int
	Temperature float32
	MaxTokens   int
}

func DefaultQuizOptions() QuizOptions {
	return QuizOptions{
		Count:       DefaultQuizCount,
		Temperature: DefaultTemperature,
		MaxTokens:   DefaultQuizMaxTokens,
	}
}

func (o QuizOptions) normalized() QuizOptions {
	o.Count = clampInt(o.Count, 3, 10, DefaultQuizCount)
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultQuizMaxTokens
	}
	o.Temperature = clampTemperature(o.Temperature)
	return o
}

// CourseResult is a generated course plus any non-fatal notices.
type CourseResult struct {
	Course   *models.CourseDocument
	Raw      string
	Warnings []string
}

type QuizResult struct {
	Quiz *models.QuizDocument
	Raw  string
}

// Generator runs the prompt, completion, extraction and decoding stages.
type Generator struct {
	completion Completer
	search     websearch.WebSearchService
	videos     VideoFinder
	model      string
	log        *logger.Logger
}

// NewGenerator wires the pipeline. search and videoFinder may be nil.
func NewGenerator(completion Completer, search websearch.WebSearchService, videoFinder VideoFinder, model string, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{
		completion: completion,
		search:     search,
		videos:     videoFinder,
		model:      model,
		log:        log,
	}
}

// GenerateCourse builds a course for opts.Topic. Search and video failures are
// downgraded to warnings; completion and extraction failures are returned.
func (g *Generator) GenerateCourse(ctx context.Context, opts CourseOptions) (*CourseResult, error) {
	opts = opts.normalized()
	if opts.Topic == "" {
		return nil, ErrEmptyTopic
	}

	result := &CourseResult{}
	var searchContext string
	if opts.UseSearch {
		ctxText, err := g.searchContext(ctx, opts.Topic, opts.SearchResults)
		if err != nil {
			g.log.Warn("web search failed, continuing without it", "topic", opts.Topic, "error", err)
			result.Warnings = append(result.Warnings, searchWarning(err))
		}
		searchContext = ctxText
	}
	if ref := strings.TrimSpace(opts.ReferenceText); ref != "" {
		searchContext += "Reference material:\n" + ref + "\n\n"
	}

	prompt := BuildCoursePrompt(opts.Topic, searchContext, opts.IncludeVideos)
	raw, err := g.completion.Complete(ctx, CompletionRequest{
		Model:       g.model,
		System:      prompt.System,
		User:        prompt.User,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate course: %w", err)
	}
	result.Raw = raw

	doc, err := ExtractJSON(raw)
	if err != nil {
		return result, fmt.Errorf("generate course: %w", err)
	}
	course := models.DecodeCourse(doc)

	if opts.IncludeVideos {
		if g.videos != nil && g.videos.Enabled() {
			course = EnrichWithVideos(ctx, course, g.findVideos, opts.VideosPerTopic, g.log)
		} else {
			result.Warnings = append(result.Warnings, "Video search is not configured; videos were skipped.")
		}
	}

	result.Course = course
	g.log.Info("course generated", "topic", opts.Topic, "title", course.Title, "topics", len(course.MainTopics))
	return result, nil
}

// GenerateQuiz builds a quiz from the outline of course.
func (g *Generator) GenerateQuiz(ctx context.Context, course *models.CourseDocument, opts QuizOptions) (*QuizResult, error) {
	if course == nil {
		return nil, ErrNoCourse
	}
	opts = opts.normalized()

	prompt := BuildQuizPrompt(course, opts.Count)
	raw, err := g.completion.Complete(ctx, CompletionRequest{
		Model:       g.model,
		System:      prompt.System,
		User:        prompt.User,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	result := &QuizResult{Raw: raw}
	doc, err := ExtractJSON(raw)
	if err != nil {
		return result, fmt.Errorf("generate quiz: %w", err)
	}
	result.Quiz = models.DecodeQuiz(doc)
	g.log.Info("quiz generated", "course", course.Title, "questions", len(result.Quiz.Questions))
	return result, nil
}

func (g *Generator) searchContext(ctx context.Context, topic string, n int) (string, error) {
	if g.search == nil {
		return "", &websearch.SearchError{Code: "missing_api_key", Message: "web search is not configured"}
	}
	res, err := g.search.SearchWithOptions(ctx, topic, &websearch.SearchOptions{NumResults: n})
	if err != nil {
		return "", err
	}
	return websearch.FormatContext(res), nil
}

func (g *Generator) findVideos(ctx context.Context, query string, maxResults int) ([]models.VideoRef, error) {
	found, err := g.videos.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	refs := make([]models.VideoRef, 0, len(found))
	for _, v := range found {
		refs = append(refs, models.VideoRef{
			VideoID:      v.ID,
			Title:        v.Title,
			ThumbnailURL: v.ThumbnailURL,
			Channel:      v.Channel,
			WatchURL:     v.WatchURL,
		})
	}
	return refs, nil
}

func searchWarning(err error) string {
	var searchErr *websearch.SearchError
	if errors.As(err, &searchErr) && searchErr.Code == "missing_api_key" {
		return "Web search is not configured; the course was generated without it."
	}
	return "Web search failed; the course was generated without it."
}

func clampInt(v, lo, hi, fallback int) int {
	if v <= 0 {
		return fallback
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampTemperature(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

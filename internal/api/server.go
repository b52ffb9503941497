package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"course-ai/internal/logger"
	"course-ai/internal/models"
	"course-ai/internal/render"
	"course-ai/internal/services"
)

const timeLayout = time.RFC3339

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Generator     *services.Generator
	Store         *services.ArtifactStore
	History       *services.HistoryService
	Reviews       *services.ReviewService
	HTML          *render.HTMLRenderer
	PDF           *render.PDFRenderer
	Sessions      *SessionManager
	Log           *logger.Logger
	SearchEnabled bool
	VideosEnabled bool
}

type Server struct {
	mux       *http.ServeMux
	generator *services.Generator
	store     *services.ArtifactStore
	history   *services.HistoryService
	reviews   *services.ReviewService
	html      *render.HTMLRenderer
	pdf       *render.PDFRenderer
	sessions  *SessionManager
	log       *logger.Logger

	searchEnabled bool
	videosEnabled bool
}

func NewServer(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Sessions == nil {
		deps.Sessions = NewSessionManager(0)
	}
	if deps.PDF == nil {
		deps.PDF = render.NewPDFRenderer(nil, deps.Log)
	}
	s := &Server{
		mux:           http.NewServeMux(),
		generator:     deps.Generator,
		store:         deps.Store,
		history:       deps.History,
		reviews:       deps.Reviews,
		html:          deps.HTML,
		pdf:           deps.PDF,
		sessions:      deps.Sessions,
		log:           deps.Log,
		searchEnabled: deps.SearchEnabled,
		videosEnabled: deps.VideosEnabled,
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/generate", s.handleGenerate)
	s.mux.HandleFunc("/course", s.handleCourse)
	s.mux.HandleFunc("/course.pdf", s.handleCoursePDF)
	s.mux.HandleFunc("/course.json", s.handleCourseJSON)
	s.mux.HandleFunc("/quiz", s.handleQuiz)
	s.mux.HandleFunc("/quiz/generate", s.handleQuizGenerate)
	s.mux.HandleFunc("/quiz/submit", s.handleQuizSubmit)
	s.mux.HandleFunc("/quiz/retry", s.handleQuizRetry)
	s.mux.HandleFunc("/quiz.pdf", s.handleQuizPDF)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/history", s.handleHistory)
	s.mux.HandleFunc("/api/review/due", s.handleReviewDue)
}

// DefaultForm is the generator form as first shown.
func DefaultForm() render.GeneratorForm {
	return render.GeneratorForm{
		SearchResults:  services.DefaultSearchResults,
		VideosPerTopic: services.DefaultVideosPerNode,
		Temperature:    services.DefaultTemperature,
		MaxTokens:      services.DefaultCourseMaxTokens,
		QuizCount:      services.DefaultQuizCount,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	st := s.sessions.Load(w, r)
	form := st.Form()
	if form == (render.GeneratorForm{}) {
		form = DefaultForm()
	}
	s.renderHTML(w, func(buf *strings.Builder) error {
		return s.html.Generator(buf, render.GeneratorPage{
			Page:          render.Page{Flash: st.TakeFlash()},
			Form:          form,
			SearchEnabled: s.searchEnabled,
			VideosEnabled: s.videosEnabled,
			HasCourse:     st.Course() != nil,
		})
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	st := s.sessions.Load(w, r)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	form := parseGeneratorForm(r)
	st.SetForm(form)

	ctx := r.Context()
	result, err := s.generator.GenerateCourse(ctx, services.CourseOptions{
		Topic:          form.Topic,
		UseSearch:      form.UseSearch,
		SearchResults:  form.SearchResults,
		IncludeVideos:  form.IncludeVideos,
		VideosPerTopic: form.VideosPerTopic,
		Temperature:    form.Temperature,
		MaxTokens:      form.MaxTokens,
	})
	if err != nil {
		s.log.Warn("course generation failed", "topic", form.Topic, "error", err)
		st.AddFlash(errorFlash("Course generation failed", err))
		redirect(w, r, "/")
		return
	}

	topic := strings.TrimSpace(form.Topic)
	st.SetCourse(result.Course)
	st.SetTopic(topic)
	for _, warning := range result.Warnings {
		st.AddFlash(render.Flash{Kind: "warning", Text: warning})
	}
	st.AddFlash(render.Flash{Kind: "success", Text: "Course generated."})
	s.persistCourse(ctx, st, topic, result.Course)

	if form.GenerateQuiz {
		s.generateQuiz(ctx, st, result.Course, form.QuizCount)
	}
	redirect(w, r, "/course")
}

func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	st := s.sessions.Load(w, r)
	quizCount := st.Form().QuizCount
	if quizCount == 0 {
		quizCount = services.DefaultQuizCount
	}
	s.renderHTML(w, func(buf *strings.Builder) error {
		return s.html.Course(buf, st.Course(), quizCount, st.TakeFlash())
	})
}

func (s *Server) handleCoursePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st := s.sessions.Load(w, r)
	course := st.Course()
	if course == nil {
		writeError(w, http.StatusNotFound, "no course has been generated yet")
		return
	}
	data, err := s.pdf.Course(r.Context(), course)
	if err != nil {
		s.log.Error("course pdf failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeDownload(w, "application/pdf", services.CoursePDFName(course.Title), data)
}

func (s *Server) handleCourseJSON(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st := s.sessions.Load(w, r)
	course := st.Course()
	if course == nil {
		writeError(w, http.StatusNotFound, "no course has been generated yet")
		return
	}
	data, err := json.MarshalIndent(course, "", "  ")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeDownload(w, "application/json", services.ArtifactName(topicOrTitle(st.Topic(), course.Title), "_course.json"), data)
}

func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	st := s.sessions.Load(w, r)
	snap := st.Snapshot()
	s.renderHTML(w, func(buf *strings.Builder) error {
		return s.html.Quiz(buf, snap.Quiz, snap.Attempt, st.TakeFlash())
	})
}

func (s *Server) handleQuizGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	st := s.sessions.Load(w, r)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	course := st.Course()
	if course == nil {
		st.AddFlash(render.Flash{Kind: "error", Text: "Generate a course before creating a quiz."})
		redirect(w, r, "/")
		return
	}

	form := st.Form()
	count := formInt(r, "quiz_count", form.QuizCount)
	if count != form.QuizCount {
		form.QuizCount = count
		st.SetForm(form)
	}
	if !s.generateQuiz(r.Context(), st, course, count) {
		redirect(w, r, "/course")
		return
	}
	redirect(w, r, "/quiz")
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	st := s.sessions.Load(w, r)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	quiz := st.Quiz()
	if quiz == nil || st.Snapshot().Attempt.Submitted {
		redirect(w, r, "/quiz")
		return
	}

	selected := make([]int, len(quiz.Questions))
	for i := range selected {
		selected[i] = formInt(r, fmt.Sprintf("q%d", i), models.Unanswered)
	}
	st.SetAnswers(selected)
	result := st.Submit()

	if s.reviews != nil {
		courseTitle := ""
		if course := st.Course(); course != nil {
			courseTitle = course.Title
		}
		if _, err := s.reviews.RecordAttempt(r.Context(), courseTitle, quiz, selected); err != nil {
			s.log.Warn("record quiz review failed", "error", err)
		}
	}
	s.log.Info("quiz submitted", "session", st.ID, "score", result.ScorePercent)
	redirect(w, r, "/quiz")
}

func (s *Server) handleQuizRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	st := s.sessions.Load(w, r)
	st.Retry()
	redirect(w, r, "/quiz")
}

func (s *Server) handleQuizPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	st := s.sessions.Load(w, r)
	quiz := st.Quiz()
	if quiz == nil {
		writeError(w, http.StatusNotFound, "no quiz has been generated yet")
		return
	}
	data, err := s.pdf.Quiz(quiz)
	if err != nil {
		s.log.Error("quiz pdf failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeDownload(w, "application/pdf", services.QuizPDFName(quiz.Title), data)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"search":   s.searchEnabled,
		"videos":   s.videosEnabled,
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.history == nil {
		writeJSON(w, http.StatusOK, map[string]any{"generations": []any{}})
		return
	}
	items, err := s.history.List(r.Context(), queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, gen := range items {
		out = append(out, map[string]any{
			"id":        gen.ID,
			"kind":      gen.Kind,
			"topic":     gen.Topic,
			"title":     gen.Title,
			"artifact":  nullString(gen.ArtifactPath),
			"items":     gen.ItemCount,
			"createdAt": gen.CreatedAt.Format(timeLayout),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"generations": out})
}

func (s *Server) handleReviewDue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	if s.reviews == nil {
		writeJSON(w, http.StatusOK, map[string]any{"questions": []any{}})
		return
	}
	cards, err := s.reviews.DueQuestions(r.Context(), queryInt(r, "limit", 20))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]map[string]any, 0, len(cards))
	for _, card := range cards {
		out = append(out, map[string]any{
			"id":          card.ID,
			"course":      card.CourseTitle,
			"question":    card.Prompt,
			"answer":      card.CorrectAnswer,
			"explanation": card.Explanation,
			"due":         nullTimeToString(card.Due),
			"reps":        card.Reps,
			"lapses":      card.Lapses,
			"state":       card.State,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": out})
}

// generateQuiz runs the quiz pipeline for the session and reports success.
// Failures leave the previous quiz in place.
func (s *Server) generateQuiz(ctx context.Context, st *SessionState, course *models.CourseDocument, count int) bool {
	opts := services.DefaultQuizOptions()
	opts.Count = count

	result, err := s.generator.GenerateQuiz(ctx, course, opts)
	if err != nil {
		s.log.Warn("quiz generation failed", "course", course.Title, "error", err)
		st.AddFlash(errorFlash("Quiz generation failed", err))
		return false
	}
	st.SetQuiz(result.Quiz)
	st.AddFlash(render.Flash{Kind: "success", Text: "Quiz generated."})
	s.persistQuiz(ctx, st, topicOrTitle(st.Topic(), course.Title), result.Quiz)
	return true
}

func (s *Server) persistCourse(ctx context.Context, st *SessionState, topic string, course *models.CourseDocument) {
	var path sql.NullString
	if s.store != nil {
		saved, err := s.store.SaveCourse(topic, course)
		if err != nil {
			s.log.Warn("save course failed", "topic", topic, "error", err)
			st.AddFlash(render.Flash{Kind: "warning", Text: "The course could not be saved to disk."})
		} else {
			path = sql.NullString{String: saved, Valid: true}
		}
	}
	s.recordHistory(ctx, models.Generation{
		Kind:         models.GenerationCourse,
		Topic:        topic,
		Title:        course.Title,
		ArtifactPath: path,
		ItemCount:    len(course.MainTopics),
	})
}

func (s *Server) persistQuiz(ctx context.Context, st *SessionState, topic string, quiz *models.QuizDocument) {
	var path sql.NullString
	if s.store != nil {
		saved, err := s.store.SaveQuiz(topic, quiz)
		if err != nil {
			s.log.Warn("save quiz failed", "topic", topic, "error", err)
			st.AddFlash(render.Flash{Kind: "warning", Text: "The quiz could not be saved to disk."})
		} else {
			path = sql.NullString{String: saved, Valid: true}
		}
	}
	s.recordHistory(ctx, models.Generation{
		Kind:         models.GenerationQuiz,
		Topic:        topic,
		Title:        quiz.Title,
		ArtifactPath: path,
		ItemCount:    len(quiz.Questions),
	})
}

func (s *Server) recordHistory(ctx context.Context, gen models.Generation) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, gen); err != nil {
		s.log.Warn("record history failed", "kind", gen.Kind, "error", err)
	}
}

func (s *Server) renderHTML(w http.ResponseWriter, fn func(buf *strings.Builder) error) {
	var buf strings.Builder
	if err := fn(&buf); err != nil {
		s.log.Error("render page failed", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

// errorFlash turns a pipeline error into a user-facing notice. Extraction
// failures carry the raw model response.
func errorFlash(prefix string, err error) render.Flash {
	flash := render.Flash{Kind: "error"}

	var transportErr *services.TransportError
	var upstreamErr *services.UpstreamError
	var extractErr *services.ExtractionError
	switch {
	case errors.Is(err, services.ErrEmptyTopic):
		flash.Text = "Please enter a topic."
	case errors.Is(err, services.ErrCompletionUnavailable):
		flash.Text = prefix + ": no completion API key is configured."
	case errors.As(err, &transportErr):
		flash.Text = fmt.Sprintf("%s: could not reach the completion service (%v).", prefix, transportErr.Err)
	case errors.As(err, &upstreamErr):
		flash.Text = fmt.Sprintf("%s: the completion service returned status %d: %s", prefix, upstreamErr.StatusCode, upstreamErr.Body)
	case errors.As(err, &extractErr):
		flash.Text = prefix + ": the model response was not valid JSON."
		flash.Raw = extractErr.Raw
	default:
		flash.Text = fmt.Sprintf("%s: %v", prefix, err)
	}
	return flash
}

func parseGeneratorForm(r *http.Request) render.GeneratorForm {
	def := DefaultForm()
	return render.GeneratorForm{
		Topic:          strings.TrimSpace(r.PostFormValue("topic")),
		UseSearch:      formBool(r, "use_search"),
		SearchResults:  formInt(r, "search_results", def.SearchResults),
		IncludeVideos:  formBool(r, "include_videos"),
		VideosPerTopic: formInt(r, "videos_per_topic", def.VideosPerTopic),
		Temperature:    formFloat(r, "temperature", def.Temperature),
		MaxTokens:      formInt(r, "max_tokens", def.MaxTokens),
		GenerateQuiz:   formBool(r, "generate_quiz"),
		QuizCount:      formInt(r, "quiz_count", def.QuizCount),
	}
}

func topicOrTitle(topic, title string) string {
	if topic != "" {
		return topic
	}
	if title != "" {
		return title
	}
	return "course"
}

func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(strings.TrimSpace(r.PostFormValue(key))) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

func formInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func formFloat(r *http.Request, key string, fallback float32) float32 {
	raw := strings.TrimSpace(r.PostFormValue(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 32)
	if err != nil {
		return fallback
	}
	return float32(v)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func writeDownload(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func nullTimeToString(t sql.NullTime) *string {
	if t.Valid {
		str := t.Time.Format(timeLayout)
		return &str
	}
	return nil
}

func nullString(v sql.NullString) *string {
	if v.Valid {
		str := v.String
		return &str
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

package models

import (
	"database/sql"
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
)

// CourseDocument is the structured result of one course generation run.
type CourseDocument struct {
	Title              string   `json:"course_title"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learning_objectives"`
	Introduction       string   `json:"introduction"`
	MainTopics         []Topic  `json:"main_topics"`
	Summary            string   `json:"summary"`
	KeyTakeaways       []string `json:"key_takeaways"`
}

// Topic is a numbered section of a course. Videos is nil until enrichment runs.
type Topic struct {
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	VideoSearchQuery string     `json:"video_search_query,omitempty"`
	Videos           []VideoRef `json:"videos,omitempty"`
	Subtopics        []Subtopic `json:"subtopics"`
}

type Subtopic struct {
	Title            string     `json:"title"`
	Content          string     `json:"content"`
	Examples         []string   `json:"examples"`
	VideoSearchQuery string     `json:"video_search_query,omitempty"`
	Videos           []VideoRef `json:"videos,omitempty"`
}

// VideoRef is fetched from the video collaborator, never authored by the model.
type VideoRef struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail"`
	Channel      string `json:"channel"`
	WatchURL     string `json:"url"`
}

type QuizDocument struct {
	Title       string         `json:"quiz_title"`
	Description string         `json:"quiz_description"`
	Questions   []QuizQuestion `json:"questions"`
}

// QuizQuestion carries a 0-based answer key. Values outside [0, len(Options))
// mean the key is unknown.
type QuizQuestion struct {
	Prompt             string   `json:"question"`
	Options            []string `json:"options"`
	CorrectAnswerIndex int      `json:"correct_answer"`
	Explanation        string   `json:"explanation"`
}

// HasValidAnswer reports whether the answer key points at an option.
func (q QuizQuestion) HasValidAnswer() bool {
	return q.CorrectAnswerIndex >= 0 && q.CorrectAnswerIndex < len(q.Options)
}

// Unanswered marks a question the user has not answered yet.
const Unanswered = -1

// QuizAttempt holds one selection per question.
type QuizAttempt struct {
	Selected  []int
	Submitted bool
}

// NewQuizAttempt returns an attempt with every question unanswered.
func NewQuizAttempt(questions int) QuizAttempt {
	selected := make([]int, questions)
	for i := range selected {
		selected[i] = Unanswered
	}
	return QuizAttempt{Selected: selected}
}

type GenerationKind string

const (
	GenerationCourse GenerationKind = "course"
	GenerationQuiz   GenerationKind = "quiz"
)

// Generation is one row of the generation history.
type Generation struct {
	ID           string
	Kind         GenerationKind
	Topic        string
	Title        string
	ArtifactPath sql.NullString
	ItemCount    int
	CreatedAt    time.Time
}

// ReviewCard schedules a quiz question for spaced review.
type ReviewCard struct {
	ID            int64
	QuestionKey   string
	CourseTitle   string
	Prompt        string
	CorrectAnswer string
	Explanation   string
	Due           sql.NullTime
	Stability     float64
	Difficulty    float64
	ElapsedDays   int
	ScheduledDays int
	Reps          int
	Lapses        int
	State         int
	LastReview    sql.NullTime
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ReviewLog records one scheduling decision for a review card.
type ReviewLog struct {
	CardID        int64
	Rating        int
	ScheduledDays int
	ElapsedDays   int
	State         int
	ReviewedAt    time.Time
}

func (c *ReviewCard) ToFSRSCard() fsrs.Card {
	card := fsrs.Card{
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   uint64(max(c.ElapsedDays, 0)),
		ScheduledDays: uint64(max(c.ScheduledDays, 0)),
		Reps:          uint64(max(c.Reps, 0)),
		Lapses:        uint64(max(c.Lapses, 0)),
		State:         fsrs.State(max(c.State, 0)),
	}
	if c.Due.Valid {
		card.Due = c.Due.Time
	}
	if c.LastReview.Valid {
		card.LastReview = c.LastReview.Time
	}
	return card
}

func (c *ReviewCard) ApplyFSRSCard(f fsrs.Card) {
	c.Due = sql.NullTime{Time: f.Due, Valid: !f.Due.IsZero()}
	c.Stability = f.Stability
	c.Difficulty = f.Difficulty
	c.ElapsedDays = int(f.ElapsedDays)
	c.ScheduledDays = int(f.ScheduledDays)
	c.Reps = int(f.Reps)
	c.Lapses = int(f.Lapses)
	c.State = int(f.State)
	c.LastReview = sql.NullTime{Time: f.LastReview, Valid: !f.LastReview.IsZero()}
}

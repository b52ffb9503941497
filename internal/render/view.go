package render

import (
	"fmt"

	"course-ai/internal/models"
	"course-ai/internal/services"
)

// VideosPerRow is the width of the video grid in the interactive view.
const VideosPerRow = 3

// Placeholder titles used when the model omitted a heading.
const (
	untitledCourse   = "Course"
	untitledTopic    = "Topic"
	untitledSubtopic = "Subtopic"
	untitledQuiz     = "Quiz"
)

// CourseView is a numbered, nil-free projection of a course for templates.
type CourseView struct {
	Title              string
	Description        string
	LearningObjectives []string
	Introduction       string
	Topics             []TopicView
	Summary            string
	KeyTakeaways       []string
}

type TopicView struct {
	Number    string
	Title     string
	Content   string
	VideoRows [][]models.VideoRef
	Subtopics []SubtopicView
}

type SubtopicView struct {
	Number    string
	Title     string
	Content   string
	Examples  []string
	VideoRows [][]models.VideoRef
}

// NewCourseView numbers topics i and subtopics i.j. Missing and empty video
// lists both produce no rows.
func NewCourseView(course *models.CourseDocument) *CourseView {
	if course == nil {
		return nil
	}
	view := &CourseView{
		Title:              orDefault(course.Title, untitledCourse),
		Description:        course.Description,
		LearningObjectives: nonNil(course.LearningObjectives),
		Introduction:       course.Introduction,
		Summary:            course.Summary,
		KeyTakeaways:       nonNil(course.KeyTakeaways),
		Topics:             make([]TopicView, 0, len(course.MainTopics)),
	}
	for i, topic := range course.MainTopics {
		tv := TopicView{
			Number:    fmt.Sprintf("%d", i+1),
			Title:     orDefault(topic.Title, untitledTopic),
			Content:   topic.Content,
			VideoRows: VideoRows(topic.Videos, VideosPerRow),
			Subtopics: make([]SubtopicView, 0, len(topic.Subtopics)),
		}
		for j, sub := range topic.Subtopics {
			tv.Subtopics = append(tv.Subtopics, SubtopicView{
				Number:    fmt.Sprintf("%d.%d", i+1, j+1),
				Title:     orDefault(sub.Title, untitledSubtopic),
				Content:   sub.Content,
				Examples:  nonNil(sub.Examples),
				VideoRows: VideoRows(sub.Videos, VideosPerRow),
			})
		}
		view.Topics = append(view.Topics, tv)
	}
	return view
}

// VideoRows splits videos into rows of at most perRow entries.
func VideoRows(videos []models.VideoRef, perRow int) [][]models.VideoRef {
	if perRow <= 0 {
		perRow = VideosPerRow
	}
	var rows [][]models.VideoRef
	for start := 0; start < len(videos); start += perRow {
		end := start + perRow
		if end > len(videos) {
			end = len(videos)
		}
		rows = append(rows, videos[start:end])
	}
	return rows
}

// QuizView is a quiz paired with the current attempt and, once submitted,
// its grade.
type QuizView struct {
	Title         string
	Description   string
	Questions     []QuestionView
	Submitted     bool
	CorrectCount  int
	QuestionCount int
	ScorePercent  float64
	Band          string
}

type QuestionView struct {
	Index       int
	Number      int
	Prompt      string
	Options     []OptionView
	Explanation string
	Result      *services.QuestionResult
}

type OptionView struct {
	Index    int
	Letter   string
	Text     string
	Selected bool
	Correct  bool
}

// NewQuizView combines a quiz with an attempt. Results are attached only
// when the attempt has been submitted.
func NewQuizView(quiz *models.QuizDocument, attempt models.QuizAttempt) *QuizView {
	if quiz == nil {
		return nil
	}
	view := &QuizView{
		Title:       orDefault(quiz.Title, untitledQuiz),
		Description: quiz.Description,
		Submitted:   attempt.Submitted,
		Questions:   make([]QuestionView, 0, len(quiz.Questions)),
	}

	var grade services.GradeResult
	if attempt.Submitted {
		grade = services.Grade(quiz, attempt.Selected)
		view.CorrectCount = grade.CorrectCount
		view.QuestionCount = grade.QuestionCount
		view.ScorePercent = grade.ScorePercent
		view.Band = grade.Band()
	}

	for i, q := range quiz.Questions {
		selected := models.Unanswered
		if i < len(attempt.Selected) {
			selected = attempt.Selected[i]
		}
		qv := QuestionView{
			Index:       i,
			Number:      i + 1,
			Prompt:      q.Prompt,
			Explanation: q.Explanation,
			Options:     make([]OptionView, 0, len(q.Options)),
		}
		for j, opt := range q.Options {
			qv.Options = append(qv.Options, OptionView{
				Index:    j,
				Letter:   OptionLetter(j),
				Text:     opt,
				Selected: j == selected,
				Correct:  j == q.CorrectAnswerIndex,
			})
		}
		if attempt.Submitted {
			result := grade.PerQuestion[i]
			qv.Result = &result
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// OptionLetter maps a 0-based option index to A, B, C and so on. After Z it
// continues with AA, AB like spreadsheet columns.
func OptionLetter(i int) string {
	if i < 0 {
		return "?"
	}
	var letters []byte
	for n := i + 1; n > 0; n = (n - 1) / 26 {
		letters = append([]byte{byte('A' + (n-1)%26)}, letters...)
	}
	return string(letters)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-ai/internal/models"
)

func sampleCourse() *models.CourseDocument {
	return &models.CourseDocument{
		Title:              "Graph Theory",
		Description:        "Vertices and edges.",
		LearningObjectives: []string{"Define a graph", "Find paths"},
		Introduction:       "Graphs model relations.",
		MainTopics: []models.Topic{
			{
				Title:   "Basics",
				Content: "A graph is a pair (V, E).",
				Videos: []models.VideoRef{
					{VideoID: "a", Title: "Intro", WatchURL: "https://www.youtube.com/watch?v=a", ThumbnailURL: "https://img/a.jpg", Channel: "Math"},
					{VideoID: "b", Title: "More", WatchURL: "https://www.youtube.com/watch?v=b"},
					{VideoID: "c", Title: "Even more", WatchURL: "https://www.youtube.com/watch?v=c"},
					{VideoID: "d", Title: "Last", WatchURL: "https://www.youtube.com/watch?v=d"},
				},
				Subtopics: []models.Subtopic{
					{Title: "Edges", Content: "Pairs of vertices.", Examples: []string{"a-b"}, Videos: []models.VideoRef{}},
					{Title: "Degree", Content: "Edge count per vertex."},
				},
			},
			{Title: "Paths", Content: "Walks without repeats."},
		},
		Summary:      "Graphs are everywhere.",
		KeyTakeaways: []string{"Graphs are simple"},
	}
}

func TestVideoRows(t *testing.T) {
	videos := sampleCourse().MainTopics[0].Videos
	rows := VideoRows(videos, 3)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 3)
	assert.Len(t, rows[1], 1)

	assert.Nil(t, VideoRows(nil, 3))
	assert.Nil(t, VideoRows([]models.VideoRef{}, 3))
}

func TestNewCourseViewNumbering(t *testing.T) {
	view := NewCourseView(sampleCourse())
	require.Len(t, view.Topics, 2)
	assert.Equal(t, "1", view.Topics[0].Number)
	assert.Equal(t, "1.2", view.Topics[0].Subtopics[1].Number)
	assert.Equal(t, "2", view.Topics[1].Number)
}

func TestNewCourseViewMissingFields(t *testing.T) {
	view := NewCourseView(&models.CourseDocument{MainTopics: []models.Topic{{Subtopics: []models.Subtopic{{}}}}})
	assert.Equal(t, "Course", view.Title)
	assert.NotNil(t, view.LearningObjectives)
	assert.Empty(t, view.LearningObjectives)
	assert.NotNil(t, view.KeyTakeaways)
	assert.Equal(t, "Topic", view.Topics[0].Title)
	assert.Equal(t, "Subtopic", view.Topics[0].Subtopics[0].Title)
	assert.NotNil(t, view.Topics[0].Subtopics[0].Examples)

	assert.Nil(t, NewCourseView(nil))
}

func TestNewQuizView(t *testing.T) {
	quiz := &models.QuizDocument{Questions: []models.QuizQuestion{
		{Prompt: "2+2?", Options: []string{"3", "4"}, CorrectAnswerIndex: 1},
		{Prompt: "1+1?", Options: []string{"2", "3"}, CorrectAnswerIndex: 0},
	}}

	open := NewQuizView(quiz, models.QuizAttempt{Selected: []int{1, -1}})
	assert.Equal(t, "Quiz", open.Title)
	assert.False(t, open.Submitted)
	assert.Nil(t, open.Questions[0].Result)
	assert.True(t, open.Questions[0].Options[1].Selected)
	assert.Equal(t, "B", open.Questions[0].Options[1].Letter)

	done := NewQuizView(quiz, models.QuizAttempt{Selected: []int{1, 1}, Submitted: true})
	require.NotNil(t, done.Questions[0].Result)
	assert.True(t, done.Questions[0].Result.IsCorrect)
	assert.False(t, done.Questions[1].Result.IsCorrect)
	assert.Equal(t, 1, done.CorrectCount)
	assert.Equal(t, "poor", done.Band)
}

func TestOptionLetter(t *testing.T) {
	assert.Equal(t, "A", OptionLetter(0))
	assert.Equal(t, "D", OptionLetter(3))
	assert.Equal(t, "F", OptionLetter(5))
	assert.Equal(t, "Z", OptionLetter(25))
	assert.Equal(t, "AA", OptionLetter(26))
	assert.Equal(t, "AD", OptionLetter(29))
	assert.Equal(t, "BA", OptionLetter(52))
	assert.Equal(t, "?", OptionLetter(-1))
}

package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"course-ai/internal/models"
)

func TestBuildCoursePromptDeterministic(t *testing.T) {
	a := BuildCoursePrompt("Machine Learning", "Result 1:\nTitle: ML\n", true)
	b := BuildCoursePrompt("Machine Learning", "Result 1:\nTitle: ML\n", true)
	assert.Equal(t, a, b)
	assert.Equal(t, courseSystemMessage, a.System)
	assert.Contains(t, a.User, "on the topic: Machine Learning.")
	assert.Contains(t, a.User, "Result 1:\nTitle: ML\n")
	assert.Contains(t, a.User, CourseSchema)
}

func TestBuildCoursePromptVideoBlock(t *testing.T) {
	with := BuildCoursePrompt("Poetry", "", true)
	without := BuildCoursePrompt("Poetry", "", false)

	assert.Contains(t, with.User, videoQueryInstruction)
	assert.NotContains(t, without.User, videoQueryInstruction)
	// The schema itself always names the field.
	assert.Contains(t, without.User, `"video_search_query"`)
}

func TestBuildCoursePromptEmptyContext(t *testing.T) {
	p := BuildCoursePrompt("", "", false)
	assert.NotEmpty(t, p.User)
	assert.Contains(t, p.User, "Here is some additional information from web search:\n\n\n")
}

func TestBuildQuizPrompt(t *testing.T) {
	course := &models.CourseDocument{
		Title:       "Databases",
		Description: "Storage engines",
		MainTopics: []models.Topic{
			{
				Title:   "Indexes",
				Content: "B-trees",
				Subtopics: []models.Subtopic{
					{Title: "Clustered", Content: "row order"},
				},
			},
			{Title: "Transactions", Content: "ACID"},
		},
	}

	p := BuildQuizPrompt(course, 7)
	assert.Equal(t, quizSystemMessage, p.System)
	assert.Contains(t, p.User, "Course Title: Databases")
	assert.Contains(t, p.User, "Description: Storage engines")
	assert.Contains(t, p.User, "\n- Indexes: B-trees\n  * Clustered: row order\n- Transactions: ACID")
	assert.Contains(t, p.User, "create a quiz with 7 multiple-choice questions")
	assert.Contains(t, p.User, QuizSchema)
	assert.Equal(t, p, BuildQuizPrompt(course, 7))
}

func TestBuildQuizPromptNilCourse(t *testing.T) {
	p := BuildQuizPrompt(nil, 3)
	assert.True(t, strings.Contains(p.User, "Course Title: \n"))
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestDecodeCourseFull(t *testing.T) {
	course := DecodeCourse(parse(t, `{
		"course_title": "Go Concurrency",
		"description": "Channels and goroutines",
		"learning_objectives": ["spawn goroutines", "use channels"],
		"introduction": "intro",
		"main_topics": [{
			"title": "Goroutines",
			"content": "cheap threads",
			"video_search_query": " go goroutines tutorial ",
			"subtopics": [{"title": "Scheduling", "content": "M:N", "examples": ["GOMAXPROCS"]}]
		}],
		"summary": "done",
		"key_takeaways": ["share memory by communicating"]
	}`))

	assert.Equal(t, "Go Concurrency", course.Title)
	assert.Equal(t, []string{"spawn goroutines", "use channels"}, course.LearningObjectives)
	require.Len(t, course.MainTopics, 1)
	topic := course.MainTopics[0]
	assert.Equal(t, "go goroutines tutorial", topic.VideoSearchQuery)
	assert.Nil(t, topic.Videos)
	require.Len(t, topic.Subtopics, 1)
	assert.Equal(t, []string{"GOMAXPROCS"}, topic.Subtopics[0].Examples)
	assert.Empty(t, topic.Subtopics[0].VideoSearchQuery)
}

func TestDecodeCourseToleratesMalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"array root", `[1, 2, 3]`},
		{"null root", `null`},
		{"wrong types", `{"course_title": 5, "learning_objectives": "one", "main_topics": {"title": "x"}}`},
		{"null nested", `{"main_topics": [null, {"subtopics": [null]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course := DecodeCourse(parse(t, tt.raw))
			require.NotNil(t, course)
			assert.NotNil(t, course.LearningObjectives)
			assert.NotNil(t, course.KeyTakeaways)
		})
	}

	course := DecodeCourse(parse(t, `{"main_topics": [null, {"subtopics": [null]}]}`))
	require.Len(t, course.MainTopics, 2)
	assert.Equal(t, "", course.MainTopics[0].Title)
	require.Len(t, course.MainTopics[1].Subtopics, 1)
	assert.Empty(t, course.MainTopics[1].Subtopics[0].Examples)
}

func TestDecodeCourseDropsModelAuthoredVideos(t *testing.T) {
	course := DecodeCourse(parse(t, `{"main_topics": [
		{"title": "a", "videos": [{"title": "x", "url": "javascript:alert(1)", "thumbnail": "http://169.254.169.254/latest"}],
		 "subtopics": [{"title": "s", "videos": [{"title": "y", "url": "https://example.com"}]}]}
	]}`))
	require.Len(t, course.MainTopics, 1)
	assert.Nil(t, course.MainTopics[0].Videos)
	require.Len(t, course.MainTopics[0].Subtopics, 1)
	assert.Nil(t, course.MainTopics[0].Subtopics[0].Videos)
}

func TestUnmarshalCourseKeepsEmptyVideosDistinctFromMissing(t *testing.T) {
	course, err := UnmarshalCourse([]byte(`{"main_topics": [
		{"title": "a", "videos": []},
		{"title": "b", "videos": [{"video_id": "abc", "title": "Intro", "url": "https://www.youtube.com/watch?v=abc"}]},
		{"title": "c"}
	]}`))
	require.NoError(t, err)
	require.Len(t, course.MainTopics, 3)
	assert.NotNil(t, course.MainTopics[0].Videos)
	assert.Empty(t, course.MainTopics[0].Videos)
	assert.Equal(t, "abc", course.MainTopics[1].Videos[0].VideoID)
	assert.Nil(t, course.MainTopics[2].Videos)
}

func TestDecodeQuizAnswerIndex(t *testing.T) {
	quiz := DecodeQuiz(parse(t, `{
		"quiz_title": "Check",
		"questions": [
			{"question": "a", "options": ["w", "x", "y", "z"], "correct_answer": 2},
			{"question": "b", "options": ["w", "x"], "correct_answer": "1"},
			{"question": "c", "options": ["w"], "correct_answer": "number (0-3)"},
			{"question": "d", "options": ["w"]},
			{"question": "e", "options": ["w"], "correct_answer": 1.5}
		]
	}`))

	require.Len(t, quiz.Questions, 5)
	assert.Equal(t, 2, quiz.Questions[0].CorrectAnswerIndex)
	assert.Equal(t, 1, quiz.Questions[1].CorrectAnswerIndex)
	assert.Equal(t, Unanswered, quiz.Questions[2].CorrectAnswerIndex)
	assert.Equal(t, Unanswered, quiz.Questions[3].CorrectAnswerIndex)
	assert.Equal(t, Unanswered, quiz.Questions[4].CorrectAnswerIndex)
	assert.True(t, quiz.Questions[0].HasValidAnswer())
	assert.False(t, quiz.Questions[3].HasValidAnswer())
}

func TestUnmarshalCourseRoundTrip(t *testing.T) {
	original := &CourseDocument{
		Title:      "Rust",
		MainTopics: []Topic{{Title: "Ownership", Videos: []VideoRef{}}},
	}
	data, err := json.Marshal(original)
	require.NoError(t, err)

	decoded, err := UnmarshalCourse(data)
	require.NoError(t, err)
	assert.Equal(t, "Rust", decoded.Title)
	require.Len(t, decoded.MainTopics, 1)
	assert.Equal(t, "Ownership", decoded.MainTopics[0].Title)

	_, err = UnmarshalCourse([]byte("not json"))
	assert.Error(t, err)
}

func TestNewQuizAttempt(t *testing.T) {
	attempt := NewQuizAttempt(3)
	assert.Equal(t, []int{-1, -1, -1}, attempt.Selected)
	assert.False(t, attempt.Submitted)
}

package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DecodeCourse builds a CourseDocument from a parsed model completion. Model
// output is not trusted: missing keys, nulls and wrongly typed values all decode
// to empty values, and the function never fails. Videos are only ever attached
// by enrichment, so any "videos" the model wrote are dropped.
func DecodeCourse(v any) *CourseDocument {
	return decodeCourse(v, false)
}

func decodeCourse(v any, keepVideos bool) *CourseDocument {
	obj := asObject(v)
	course := &CourseDocument{
		Title:              str(obj, "course_title"),
		Description:        str(obj, "description"),
		LearningObjectives: strs(obj, "learning_objectives"),
		Introduction:       str(obj, "introduction"),
		Summary:            str(obj, "summary"),
		KeyTakeaways:       strs(obj, "key_takeaways"),
	}
	for _, item := range list(obj, "main_topics") {
		course.MainTopics = append(course.MainTopics, decodeTopic(asObject(item), keepVideos))
	}
	return course
}

func decodeTopic(obj map[string]any, keepVideos bool) Topic {
	topic := Topic{
		Title:            str(obj, "title"),
		Content:          str(obj, "content"),
		VideoSearchQuery: strings.TrimSpace(str(obj, "video_search_query")),
	}
	if keepVideos {
		topic.Videos = videos(obj)
	}
	for _, item := range list(obj, "subtopics") {
		sub := asObject(item)
		subtopic := Subtopic{
			Title:            str(sub, "title"),
			Content:          str(sub, "content"),
			Examples:         strs(sub, "examples"),
			VideoSearchQuery: strings.TrimSpace(str(sub, "video_search_query")),
		}
		if keepVideos {
			subtopic.Videos = videos(sub)
		}
		topic.Subtopics = append(topic.Subtopics, subtopic)
	}
	return topic
}

// videos keeps the nil/empty distinction: a missing key stays nil.
func videos(obj map[string]any) []VideoRef {
	raw, ok := obj["videos"]
	if !ok || raw == nil {
		return nil
	}
	items, _ := raw.([]any)
	out := make([]VideoRef, 0, len(items))
	for _, item := range items {
		video := asObject(item)
		out = append(out, VideoRef{
			VideoID:      str(video, "video_id"),
			Title:        str(video, "title"),
			ThumbnailURL: str(video, "thumbnail"),
			Channel:      str(video, "channel"),
			WatchURL:     str(video, "url"),
		})
	}
	return out
}

// DecodeQuiz builds a QuizDocument from a parsed JSON value with the same
// leniency as DecodeCourse. A missing or non-numeric correct_answer becomes -1.
func DecodeQuiz(v any) *QuizDocument {
	obj := asObject(v)
	quiz := &QuizDocument{
		Title:       str(obj, "quiz_title"),
		Description: str(obj, "quiz_description"),
	}
	for _, item := range list(obj, "questions") {
		q := asObject(item)
		quiz.Questions = append(quiz.Questions, QuizQuestion{
			Prompt:             str(q, "question"),
			Options:            strs(q, "options"),
			CorrectAnswerIndex: index(q, "correct_answer"),
			Explanation:        str(q, "explanation"),
		})
	}
	return quiz
}

// UnmarshalCourse decodes a saved course artifact through the lenient decoder.
// Unlike DecodeCourse it keeps the enriched videos.
func UnmarshalCourse(data []byte) (*CourseDocument, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal course json: %w", err)
	}
	return decodeCourse(v, true), nil
}

// UnmarshalQuiz decodes raw JSON bytes through the lenient decoder.
func UnmarshalQuiz(data []byte) (*QuizDocument, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal quiz json: %w", err)
	}
	return DecodeQuiz(v), nil
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

func list(obj map[string]any, key string) []any {
	items, _ := obj[key].([]any)
	return items
}

func str(obj map[string]any, key string) string {
	return scalarString(obj[key])
}

// strs accepts a list of scalars or a single string.
func strs(obj map[string]any, key string) []string {
	switch raw := obj[key].(type) {
	case []any:
		out := make([]string, 0, len(raw))
		for _, item := range raw {
			if s := scalarString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if strings.TrimSpace(raw) == "" {
			return []string{}
		}
		return []string{raw}
	default:
		return []string{}
	}
}

func scalarString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

func index(obj map[string]any, key string) int {
	switch val := obj[key].(type) {
	case float64:
		if val != math.Trunc(val) {
			return Unanswered
		}
		return int(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return Unanswered
		}
		return n
	default:
		return Unanswered
	}
}

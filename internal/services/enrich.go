package services

import (
	"context"
	"fmt"

	"course-ai/internal/logger"
	"course-ai/internal/models"
)

// DefaultVideosPerNode is the lookup size used when the caller does not choose one.
const DefaultVideosPerNode = 3

// VideoSearchFunc looks up videos for a free-text query.
type VideoSearchFunc func(ctx context.Context, query string, maxResults int) ([]models.VideoRef, error)

// EnrichWithVideos returns a copy of course with videos attached to every topic
// and subtopic. Lookups run one at a time in document order. A failed lookup
// leaves that node with an empty list and never stops the remaining ones.
func EnrichWithVideos(ctx context.Context, course *models.CourseDocument, search VideoSearchFunc, maxResults int, log *logger.Logger) *models.CourseDocument {
	if course == nil {
		return nil
	}
	if maxResults <= 0 {
		maxResults = DefaultVideosPerNode
	}
	if log == nil {
		log = logger.Nop()
	}

	out := cloneCourse(course)
	for i := range out.MainTopics {
		topic := &out.MainTopics[i]
		query := topic.VideoSearchQuery
		if query == "" {
			query = fmt.Sprintf("%s %s tutorial", out.Title, topic.Title)
		}
		topic.Videos = lookupVideos(ctx, search, query, maxResults, log)

		for j := range topic.Subtopics {
			sub := &topic.Subtopics[j]
			subQuery := sub.VideoSearchQuery
			if subQuery == "" {
				subQuery = fmt.Sprintf("%s %s tutorial", topic.Title, sub.Title)
			}
			sub.Videos = lookupVideos(ctx, search, subQuery, maxResults, log)
		}
	}
	return out
}

// lookupVideos collapses any lookup failure into an empty, non-nil list.
func lookupVideos(ctx context.Context, search VideoSearchFunc, query string, maxResults int, log *logger.Logger) []models.VideoRef {
	videos, err := search(ctx, query, maxResults)
	if err != nil {
		log.Warn("video lookup failed", "query", query, "error", err)
		return []models.VideoRef{}
	}
	if videos == nil {
		return []models.VideoRef{}
	}
	return videos
}

func cloneCourse(in *models.CourseDocument) *models.CourseDocument {
	out := *in
	out.LearningObjectives = append([]string(nil), in.LearningObjectives...)
	out.KeyTakeaways = append([]string(nil), in.KeyTakeaways...)
	out.MainTopics = make([]models.Topic, len(in.MainTopics))
	for i, topic := range in.MainTopics {
		t := topic
		if topic.Videos != nil {
			t.Videos = append([]models.VideoRef{}, topic.Videos...)
		}
		t.Subtopics = make([]models.Subtopic, len(topic.Subtopics))
		for j, sub := range topic.Subtopics {
			s := sub
			s.Examples = append([]string(nil), sub.Examples...)
			if sub.Videos != nil {
				s.Videos = append([]models.VideoRef{}, sub.Videos...)
			}
			t.Subtopics[j] = s
		}
		out.MainTopics[i] = t
	}
	return &out
}

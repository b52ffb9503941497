package videos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	maxResultsPerRequest = 50
	watchURLPrefix       = "https://www.youtube.com/watch?v="
)

// Video is one search hit from the video platform.
type Video struct {
	ID           string `json:"video_id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail"`
	Channel      string `json:"channel"`
	WatchURL     string `json:"url"`
}

// Config holds configuration for the video search service
type Config struct {
	APIKey string

	// LookupsPerSecond paces outgoing searches. Zero disables pacing.
	LookupsPerSecond float64
}

// LookupError is returned when the platform rejects or fails a search.
type LookupError struct {
	StatusCode int
	Message    string
}

func (e *LookupError) Error() string {
	if e.StatusCode == 0 {
		return "video lookup failed: " + e.Message
	}
	return fmt.Sprintf("video lookup failed (%d): %s", e.StatusCode, e.Message)
}

// Service searches YouTube for videos matching free-text queries.
type Service struct {
	yt      *youtube.Service
	limiter *rate.Limiter
}

// NewService creates a video search service. Without an API key the service
// is disabled and every search returns an empty list.
func NewService(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Service, error) {
	s := &Service{}
	if cfg.LookupsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.LookupsPerSecond), 1)
	}
	if cfg.APIKey == "" {
		return s, nil
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(cfg.APIKey)}, opts...)
	yt, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube client: %w", err)
	}
	s.yt = yt
	return s, nil
}

// Enabled reports whether searches reach the platform.
func (s *Service) Enabled() bool {
	return s != nil && s.yt != nil
}

// Search returns up to maxResults videos for query, in platform order.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]Video, error) {
	if !s.Enabled() || strings.TrimSpace(query) == "" {
		return []Video{}, nil
	}
	if maxResults <= 0 {
		maxResults = 1
	}
	if maxResults > maxResultsPerRequest {
		maxResults = maxResultsPerRequest
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, &LookupError{Message: err.Error()}
		}
	}

	resp, err := s.yt.Search.List([]string{"snippet"}).
		Q(query).
		MaxResults(int64(maxResults)).
		Type("video").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &LookupError{StatusCode: gerr.Code, Message: gerr.Message}
		}
		return nil, &LookupError{Message: err.Error()}
	}

	out := make([]Video, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil || item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		v := Video{
			ID:       item.Id.VideoId,
			WatchURL: watchURLPrefix + item.Id.VideoId,
		}
		if item.Snippet != nil {
			v.Title = item.Snippet.Title
			v.Channel = item.Snippet.ChannelTitle
			v.ThumbnailURL = thumbnailURL(item.Snippet.Thumbnails)
		}
		out = append(out, v)
	}
	return out, nil
}

// thumbnailURL prefers the medium rendition.
func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.Medium, t.Default, t.High} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

package videos

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

const searchResponse = `{
  "items": [
    {
      "id": {"kind": "youtube#video", "videoId": "abc123"},
      "snippet": {
        "title": "Intro to Graphs",
        "channelTitle": "Math Channel",
        "thumbnails": {
          "default": {"url": "https://i.ytimg.com/vi/abc123/default.jpg"},
          "medium": {"url": "https://i.ytimg.com/vi/abc123/mqdefault.jpg"}
        }
      }
    },
    {
      "id": {"kind": "youtube#video", "videoId": "def456"},
      "snippet": {"title": "Trees", "channelTitle": "CS", "thumbnails": {"default": {"url": "https://i.ytimg.com/vi/def456/default.jpg"}}}
    },
    {
      "id": {"kind": "youtube#channel", "channelId": "UC1"},
      "snippet": {"title": "not a video"}
    }
  ]
}`

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewService(context.Background(), Config{APIKey: "test-key"},
		option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return svc
}

func TestSearchMapsVideos(t *testing.T) {
	var query url.Values
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponse))
	})

	got, err := svc.Search(context.Background(), "graph theory tutorial", 2)
	require.NoError(t, err)

	assert.Equal(t, "graph theory tutorial", query.Get("q"))
	assert.Equal(t, "2", query.Get("maxResults"))
	assert.Equal(t, "video", query.Get("type"))
	assert.Equal(t, "snippet", query.Get("part"))

	require.Len(t, got, 2)
	assert.Equal(t, Video{
		ID:           "abc123",
		Title:        "Intro to Graphs",
		ThumbnailURL: "https://i.ytimg.com/vi/abc123/mqdefault.jpg",
		Channel:      "Math Channel",
		WatchURL:     "https://www.youtube.com/watch?v=abc123",
	}, got[0])
	assert.Equal(t, "https://i.ytimg.com/vi/def456/default.jpg", got[1].ThumbnailURL)
}

func TestSearchHTTPError(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})

	_, err := svc.Search(context.Background(), "anything", 3)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Equal(t, http.StatusForbidden, lookupErr.StatusCode)
	assert.Contains(t, lookupErr.Error(), "quotaExceeded")
}

func TestDisabledServiceReturnsEmpty(t *testing.T) {
	svc, err := NewService(context.Background(), Config{})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	got, err := svc.Search(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchHonoursCancelledContextWhilePaced(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	// One token, then effectively closed.
	svc.limiter = rate.NewLimiter(rate.Limit(0.001), 1)

	_, err := svc.Search(context.Background(), "first", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Search(ctx, "second", 1)
	var lookupErr *LookupError
	require.ErrorAs(t, err, &lookupErr)
	assert.Zero(t, lookupErr.StatusCode)
}

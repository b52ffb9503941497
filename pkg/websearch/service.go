package websearch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const maxResultsPerRequest = 10

// service implements the WebSearchService interface
type service struct {
	config *Config
	cse    *customsearch.Service
}

// NewWebSearchService creates a web search service backed by Google Programmable
// Search. Extra client options are passed to the API client (tests point it at a
// local server). A service without credentials is returned as-is and reports
// missing_api_key on every search.
func NewWebSearchService(ctx context.Context, config Config, opts ...option.ClientOption) (WebSearchService, error) {
	if config.DefaultOptions == nil {
		config.DefaultOptions = &SearchOptions{
			NumResults: 5,
			Language:   "en",
			SafeSearch: "off",
		}
	}

	svc := &service{config: &config}
	if config.APIKey == "" || config.EngineID == "" {
		return svc, nil
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(config.APIKey)}, opts...)
	cse, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search client: %w", err)
	}
	svc.cse = cse
	return svc, nil
}

// Search implements WebSearchService
func (s *service) Search(ctx context.Context, query string) (*SearchResult, error) {
	return s.SearchWithOptions(ctx, query, s.config.DefaultOptions)
}

// SearchWithOptions implements WebSearchService
func (s *service) SearchWithOptions(ctx context.Context, query string, options *SearchOptions) (*SearchResult, error) {
	if s.cse == nil {
		return nil, &SearchError{
			Code:    "missing_api_key",
			Message: "Google API key and search engine id are required",
		}
	}
	if strings.TrimSpace(query) == "" {
		return nil, &SearchError{
			Code:    "empty_query",
			Message: "Search query is empty",
		}
	}

	searchOptions := s.mergeOptions(options)

	call := s.cse.Cse.List().
		Q(query).
		Cx(s.config.EngineID).
		Num(int64(searchOptions.NumResults)).
		Context(ctx)
	if searchOptions.Language != "" {
		call = call.Lr("lang_" + searchOptions.Language)
	}
	if searchOptions.Region != "" {
		call = call.Gl(searchOptions.Region)
	}
	if restrict, ok := dateRestrict[searchOptions.TimeRange]; ok {
		call = call.DateRestrict(restrict)
	}
	if searchOptions.SafeSearch != "" {
		call = call.Safe(searchOptions.SafeSearch)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, toSearchError(err)
	}

	result := &SearchResult{
		Query:     query,
		Results:   make([]SearchItem, 0, len(resp.Items)),
		Timestamp: time.Now().Unix(),
	}
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		result.Results = append(result.Results, SearchItem{
			Title:    item.Title,
			URL:      item.Link,
			Snippet:  item.Snippet,
			SiteName: item.DisplayLink,
		})
	}
	result.Total = len(result.Results)
	return result, nil
}

var dateRestrict = map[string]string{
	"day":   "d1",
	"week":  "w1",
	"month": "m1",
	"year":  "y1",
}

// mergeOptions merges user options with defaults
func (s *service) mergeOptions(userOptions *SearchOptions) *SearchOptions {
	if userOptions == nil {
		userOptions = &SearchOptions{}
	}

	merged := *s.config.DefaultOptions

	if userOptions.NumResults > 0 {
		merged.NumResults = userOptions.NumResults
	}
	if userOptions.Language != "" {
		merged.Language = userOptions.Language
	}
	if userOptions.Region != "" {
		merged.Region = userOptions.Region
	}
	if userOptions.TimeRange != "" {
		merged.TimeRange = userOptions.TimeRange
	}
	if userOptions.SafeSearch != "" {
		merged.SafeSearch = userOptions.SafeSearch
	}

	if merged.NumResults <= 0 {
		merged.NumResults = 1
	}
	if merged.NumResults > maxResultsPerRequest {
		merged.NumResults = maxResultsPerRequest
	}
	return &merged
}

// toSearchError converts API errors to SearchError
func toSearchError(err error) *SearchError {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return &SearchError{
			Code:    "network_error",
			Message: "Network request failed",
			Details: err.Error(),
		}
	}

	message := "HTTP request failed"
	switch gerr.Code {
	case 400:
		message = "Bad request - invalid parameters"
	case 401:
		message = "Unauthorized - invalid API key"
	case 403:
		message = "Forbidden - quota exceeded or API disabled"
	case 429:
		message = "Rate limit exceeded"
	case 500:
		message = "Internal server error"
	case 503:
		message = "Service unavailable"
	}

	return &SearchError{
		Code:    fmt.Sprintf("http_%d", gerr.Code),
		Message: message,
		Details: gerr.Message,
	}
}

// FormatContext renders results as the numbered block embedded in prompts.
func FormatContext(result *SearchResult) string {
	if result == nil {
		return ""
	}
	var b strings.Builder
	for i, item := range result.Results {
		fmt.Fprintf(&b, "Result %d:\nTitle: %s\nSnippet: %s\nLink: %s\n\n", i+1, item.Title, item.Snippet, item.URL)
	}
	return b.String()
}

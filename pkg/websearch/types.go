package websearch

import "context"

// WebSearchService defines the interface for web search operations
type WebSearchService interface {
	// Search performs a web search with the given query
	Search(ctx context.Context, query string) (*SearchResult, error)

	// SearchWithOptions performs a web search with additional options
	SearchWithOptions(ctx context.Context, query string, options *SearchOptions) (*SearchResult, error)
}

// SearchResult represents the response from a web search operation
type SearchResult struct {
	Query     string       `json:"query"`
	Results   []SearchItem `json:"results"`
	Total     int          `json:"total,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// SearchItem represents a single search result item
type SearchItem struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	SiteName string `json:"site_name,omitempty"`
}

// SearchOptions provides additional configuration for search operations
type SearchOptions struct {
	// Number of results to return, 1-10 (default: 5)
	NumResults int `json:"num_results,omitempty"`

	// Language filter (e.g., "en", "de")
	Language string `json:"language,omitempty"`

	// Region boost as a two-letter country code (e.g., "us")
	Region string `json:"region,omitempty"`

	// Time range filter ("day", "week", "month", "year")
	TimeRange string `json:"time_range,omitempty"`

	// Safe search level ("off", "active")
	SafeSearch string `json:"safe_search,omitempty"`
}

// Config holds configuration for web search services
type Config struct {
	// Google Programmable Search configuration
	APIKey   string
	EngineID string

	// Default search options
	DefaultOptions *SearchOptions
}

// SearchError represents an error that occurred during search
type SearchError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *SearchError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

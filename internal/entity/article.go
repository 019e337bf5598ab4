package entity

import "time"

// Article represents a single news article returned by a news provider.
// Articles are transient; only the URL is persisted, as the dedup identifier.
type Article struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	URL         string     `json:"url"`
	Source      string     `json:"source,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

package repository

import (
	"context"

	"golang-etf-news-bot/internal/entity"
)

// NewsRepository defines the interface for a news search provider. The
// provider owns ranking and result count; response order is preserved
// downstream.
type NewsRepository interface {
	Search(ctx context.Context, query string) ([]entity.Article, error)
	Name() string
}

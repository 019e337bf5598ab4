package service

import (
	"strings"

	"golang-etf-news-bot/internal/entity"
)

// BuildQuery derives the search query for a tracked asset by joining its
// focus keywords with the provider's OR operator. Assets without keywords
// fall back to the ticker symbol. Pure and deterministic.
func BuildQuery(asset entity.TrackedAsset) string {
	keywords := make([]string, 0, len(asset.Keywords))
	for _, keyword := range asset.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		keywords = append(keywords, keyword)
	}

	if len(keywords) == 0 {
		return asset.Ticker
	}
	return strings.Join(keywords, " OR ")
}

// BuildQueries maps the whole watchlist to queries, preserving table order.
func BuildQueries(assets []entity.TrackedAsset) []string {
	queries := make([]string, 0, len(assets))
	for _, asset := range assets {
		queries = append(queries, BuildQuery(asset))
	}
	return queries
}

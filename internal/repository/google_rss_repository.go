package repository

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"golang-etf-news-bot/internal/config"
	"golang-etf-news-bot/internal/entity"
	"golang-etf-news-bot/pkg/logger"

	"github.com/mmcdole/gofeed"
)

const defaultGoogleRSSBaseURL = "https://news.google.com/rss/search"

// googleRSSRepository fetches articles from Google News RSS search feeds.
// It is an alternative NewsRepository for deployments without a NewsAPI key.
type googleRSSRepository struct {
	cfg    config.NewsAPI
	parser *gofeed.Parser
	logger *logger.Logger
}

// NewGoogleRSSRepository creates a new Google News RSS-backed NewsRepository.
func NewGoogleRSSRepository(cfg config.NewsAPI, log *logger.Logger) NewsRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultGoogleRSSBaseURL
	}
	return &googleRSSRepository{
		cfg:    cfg,
		parser: gofeed.NewParser(),
		logger: log,
	}
}

// Name returns the provider name.
func (r *googleRSSRepository) Name() string {
	return "google-rss"
}

// Search fetches articles for the given query, newest first, truncated to
// the configured page size.
func (r *googleRSSRepository) Search(ctx context.Context, query string) ([]entity.Article, error) {
	feedURL := fmt.Sprintf("%s?q=%s&hl=en-US&gl=US&ceid=US:en", r.cfg.BaseURL, url.QueryEscape(query))

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rss feed for query %q: %w", query, err)
	}

	// Newest first; items without a parsed date sink to the end.
	sort.SliceStable(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return feed.Items[j].PublishedParsed == nil && feed.Items[i].PublishedParsed != nil
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	articles := make([]entity.Article, 0, r.cfg.PageSize)
	for _, item := range feed.Items {
		if len(articles) >= r.cfg.PageSize {
			break
		}
		if item.Link == "" {
			continue
		}
		article := entity.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			PublishedAt: item.PublishedParsed,
		}
		if parsed, err := url.Parse(item.Link); err == nil {
			article.Source = parsed.Hostname()
		}
		articles = append(articles, article)
	}

	r.logger.Info("Fetched news articles",
		logger.StringField("provider", r.Name()),
		logger.StringField("query", query),
		logger.IntField("count", len(articles)),
	)

	return articles, nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang-etf-news-bot/internal/config"
	"golang-etf-news-bot/internal/entity"
	"golang-etf-news-bot/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const defaultNewsAPIBaseURL = "https://newsapi.org/v2/everything"

type newsAPIArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

// newsAPIRepository fetches articles from the NewsAPI "everything" endpoint.
// Results are cached per query for the lifetime of a run so repeated
// keywords do not trigger repeated API calls.
type newsAPIRepository struct {
	cfg    config.NewsAPI
	client *http.Client
	logger *logger.Logger
	cache  *cache.Cache
	now    func() time.Time
}

// NewNewsAPIRepository creates a new NewsAPI-backed NewsRepository.
func NewNewsAPIRepository(cfg config.NewsAPI, log *logger.Logger) NewsRepository {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNewsAPIBaseURL
	}
	return &newsAPIRepository{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: log,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
		now:    time.Now,
	}
}

// Name returns the provider name.
func (r *newsAPIRepository) Name() string {
	return "newsapi"
}

// Search fetches articles for the given query, preserving the provider's
// relevance ordering.
func (r *newsAPIRepository) Search(ctx context.Context, query string) ([]entity.Article, error) {
	if cached, ok := r.cache.Get(query); ok {
		return cached.([]entity.Article), nil
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("from", r.now().Format("2006-01-02"))
	params.Set("language", r.cfg.Language)
	params.Set("sortBy", r.cfg.SortBy)
	params.Set("pageSize", strconv.Itoa(r.cfg.PageSize))
	params.Set("apiKey", r.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create news request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch news: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news api returned status %d for query %q", resp.StatusCode, query)
	}

	var decoded newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	if decoded.Status != "ok" {
		return nil, fmt.Errorf("news api returned status %q for query %q", decoded.Status, query)
	}

	articles := make([]entity.Article, 0, len(decoded.Articles))
	for _, a := range decoded.Articles {
		article := entity.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			Source:      a.Source.Name,
		}
		if a.PublishedAt != "" {
			if publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt); err == nil {
				article.PublishedAt = &publishedAt
			}
		}
		articles = append(articles, article)
	}

	r.logger.Info("Fetched news articles",
		logger.StringField("provider", r.Name()),
		logger.StringField("query", query),
		logger.IntField("count", len(articles)),
	)

	r.cache.Set(query, articles, cache.DefaultExpiration)
	return articles, nil
}

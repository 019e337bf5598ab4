package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-etf-news-bot/internal/config"
	"golang-etf-news-bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "json")
	require.NoError(t, err)
	return log
}

func newsAPITestConfig(baseURL string) config.NewsAPI {
	return config.NewsAPI{
		Provider: config.NewsProviderNewsAPI,
		BaseURL:  baseURL,
		APIKey:   "test-key",
		Language: "en",
		SortBy:   "relevancy",
		PageSize: 2,
	}
}

func TestNewsAPISearch(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		q := r.URL.Query()
		assert.Equal(t, "gold prices OR precious metals", q.Get("q"))
		assert.Equal(t, "test-key", q.Get("apiKey"))
		assert.Equal(t, "en", q.Get("language"))
		assert.Equal(t, "relevancy", q.Get("sortBy"))
		assert.Equal(t, "2", q.Get("pageSize"))
		assert.NotEmpty(t, q.Get("from"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":       "ok",
			"totalResults": 2,
			"articles": []map[string]interface{}{
				{
					"title":       "Gold rallies",
					"description": "<p>Gold hit a new high.</p>",
					"url":         "https://g.com/1",
					"publishedAt": "2026-08-31T07:00:00Z",
					"source":      map[string]string{"name": "Reuters"},
				},
				{
					"title": "Gold dips",
					"url":   "https://g.com/2",
				},
			},
		})
	}))
	defer srv.Close()

	repo := NewNewsAPIRepository(newsAPITestConfig(srv.URL), newTestLogger(t))

	articles, err := repo.Search(context.Background(), "gold prices OR precious metals")

	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Gold rallies", articles[0].Title)
	assert.Equal(t, "https://g.com/1", articles[0].URL)
	assert.Equal(t, "Reuters", articles[0].Source)
	require.NotNil(t, articles[0].PublishedAt)
	assert.Equal(t, 2026, articles[0].PublishedAt.Year())
	assert.Equal(t, "Gold dips", articles[1].Title)
	assert.Nil(t, articles[1].PublishedAt)

	// Second search for the same query hits the run cache, not the API.
	again, err := repo.Search(context.Background(), "gold prices OR precious metals")
	require.NoError(t, err)
	assert.Equal(t, articles, again)
	assert.Equal(t, 1, calls)
}

func TestNewsAPISearchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	repo := NewNewsAPIRepository(newsAPITestConfig(srv.URL), newTestLogger(t))

	_, err := repo.Search(context.Background(), "inflation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewsAPISearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "error"})
	}))
	defer srv.Close()

	repo := NewNewsAPIRepository(newsAPITestConfig(srv.URL), newTestLogger(t))

	_, err := repo.Search(context.Background(), "inflation")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"error"`)
}

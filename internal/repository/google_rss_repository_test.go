package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang-etf-news-bot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Google News</title>
<item>
  <title>Treasury yields steady</title>
  <link>https://example.com/articles/old</link>
  <pubDate>Mon, 24 Aug 2026 08:00:00 GMT</pubDate>
  <description>Yields held steady on Monday.</description>
</item>
<item>
  <title>Fed signals cut</title>
  <link>https://example.com/articles/new</link>
  <pubDate>Fri, 28 Aug 2026 09:30:00 GMT</pubDate>
</item>
<item>
  <title>Bond market wrap</title>
  <link>https://example.com/articles/oldest</link>
  <pubDate>Sun, 23 Aug 2026 18:00:00 GMT</pubDate>
</item>
</channel>
</rss>`

func TestGoogleRSSSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "interest rates OR treasury yields", r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, testFeed)
	}))
	defer srv.Close()

	repo := NewGoogleRSSRepository(config.NewsAPI{
		Provider: config.NewsProviderGoogleRSS,
		BaseURL:  srv.URL,
		PageSize: 2,
	}, newTestLogger(t))

	articles, err := repo.Search(context.Background(), "interest rates OR treasury yields")

	require.NoError(t, err)
	require.Len(t, articles, 2)
	// Newest first, truncated to the page size.
	assert.Equal(t, "Fed signals cut", articles[0].Title)
	assert.Equal(t, "https://example.com/articles/new", articles[0].URL)
	assert.Equal(t, "example.com", articles[0].Source)
	assert.Equal(t, "Treasury yields steady", articles[1].Title)
	assert.Equal(t, "Yields held steady on Monday.", articles[1].Description)
}

func TestGoogleRSSSearchFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	repo := NewGoogleRSSRepository(config.NewsAPI{
		Provider: config.NewsProviderGoogleRSS,
		BaseURL:  srv.URL,
		PageSize: 2,
	}, newTestLogger(t))

	_, err := repo.Search(context.Background(), "interest rates")
	require.Error(t, err)
}

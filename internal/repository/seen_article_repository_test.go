package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSeenArticleRepositoryMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_articles.txt")

	repo, err := NewFileSeenArticleRepository(path)
	require.NoError(t, err)

	seen, err := repo.Contains(context.Background(), "https://a.com/1")
	require.NoError(t, err)
	assert.False(t, seen)

	count, err := repo.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFileSeenArticleRepositoryLoadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_articles.txt")
	content := "https://a.com/1\n\nhttps://a.com/2\n   \nhttps://a.com/1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	repo, err := NewFileSeenArticleRepository(path)
	require.NoError(t, err)

	ctx := context.Background()
	for _, url := range []string{"https://a.com/1", "https://a.com/2"} {
		seen, err := repo.Contains(ctx, url)
		require.NoError(t, err)
		assert.True(t, seen, url)
	}
	seen, err := repo.Contains(ctx, "https://a.com/3")
	require.NoError(t, err)
	assert.False(t, seen)

	// The duplicate and blank lines collapse away.
	count, err := repo.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestFileSeenArticleRepositoryRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_articles.txt")
	ctx := context.Background()

	repo, err := NewFileSeenArticleRepository(path)
	require.NoError(t, err)

	urls := []string{"https://a.com/1", "https://b.com/2", "https://c.com/3"}
	for _, url := range urls {
		require.NoError(t, repo.Add(ctx, url))
	}
	require.NoError(t, repo.Persist(ctx))

	// Reload in a fresh repository, as a new run would.
	reloaded, err := NewFileSeenArticleRepository(path)
	require.NoError(t, err)
	for _, url := range urls {
		seen, err := reloaded.Contains(ctx, url)
		require.NoError(t, err)
		assert.True(t, seen, url)
	}

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Fields(string(raw))
	assert.ElementsMatch(t, urls, lines)
}

func TestFileSeenArticleRepositoryAddIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen_articles.txt")
	ctx := context.Background()

	repo, err := NewFileSeenArticleRepository(path)
	require.NoError(t, err)

	require.NoError(t, repo.Add(ctx, "https://a.com/1"))
	require.NoError(t, repo.Add(ctx, "https://a.com/1"))
	require.NoError(t, repo.Persist(ctx))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://a.com/1\n", string(raw))
}

func TestInMemorySeenArticleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemorySeenArticleRepository()

	seen, err := repo.Contains(ctx, "https://a.com/1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, repo.Add(ctx, "https://a.com/1"))
	seen, err = repo.Contains(ctx, "https://a.com/1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, repo.Persist(ctx))
	assert.ElementsMatch(t, []string{"https://a.com/1"}, repo.URLs())

	count, err := repo.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

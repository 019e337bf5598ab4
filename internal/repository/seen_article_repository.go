package repository

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

// SeenArticleRepository tracks article URLs that have already been delivered.
// A URL present in the set must never be re-delivered. Implementations are
// safe for use from the bot handler, the cron trigger, and the ops API.
type SeenArticleRepository interface {
	Contains(ctx context.Context, url string) (bool, error)
	Add(ctx context.Context, url string) error
	Persist(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// fileSeenArticleRepository persists the set as a flat UTF-8 text file,
// one URL per line, no header.
type fileSeenArticleRepository struct {
	mu    sync.Mutex
	path  string
	seen  map[string]struct{}
	order []string
}

// NewFileSeenArticleRepository loads the seen set from path. A missing file
// yields an empty set.
func NewFileSeenArticleRepository(path string) (SeenArticleRepository, error) {
	repo := &fileSeenArticleRepository{
		path: path,
		seen: make(map[string]struct{}),
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, fmt.Errorf("failed to open seen articles file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		url := strings.TrimSpace(scanner.Text())
		if url == "" {
			continue
		}
		if _, ok := repo.seen[url]; ok {
			continue
		}
		repo.seen[url] = struct{}{}
		repo.order = append(repo.order, url)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seen articles file: %w", err)
	}

	return repo, nil
}

func (r *fileSeenArticleRepository) Contains(_ context.Context, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[url]
	return ok, nil
}

func (r *fileSeenArticleRepository) Add(_ context.Context, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[url]; ok {
		return nil
	}
	r.seen[url] = struct{}{}
	r.order = append(r.order, url)
	return nil
}

// Persist rewrites the whole file. A failure leaves the in-memory set
// intact, so a later persist in the same process retries the full set.
func (r *fileSeenArticleRepository) Persist(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var builder strings.Builder
	for _, url := range r.order {
		builder.WriteString(url)
		builder.WriteString("\n")
	}

	if err := os.WriteFile(r.path, []byte(builder.String()), 0o644); err != nil {
		return fmt.Errorf("failed to persist seen articles: %w", err)
	}
	return nil
}

func (r *fileSeenArticleRepository) Len(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen), nil
}

// redisSeenArticleRepository keeps the identifier set in a Redis set. Each
// Add is durable immediately, so Persist is a no-op.
type redisSeenArticleRepository struct {
	client redis.Cmdable
	key    string
}

// NewRedisSeenArticleRepository creates a Redis-backed SeenArticleRepository
// keyed under key.
func NewRedisSeenArticleRepository(client redis.Cmdable, key string) SeenArticleRepository {
	return &redisSeenArticleRepository{
		client: client,
		key:    key,
	}
}

func (r *redisSeenArticleRepository) Contains(ctx context.Context, url string) (bool, error) {
	seen, err := r.client.SIsMember(ctx, r.key, url).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check seen article: %w", err)
	}
	return seen, nil
}

func (r *redisSeenArticleRepository) Add(ctx context.Context, url string) error {
	if err := r.client.SAdd(ctx, r.key, url).Err(); err != nil {
		return fmt.Errorf("failed to add seen article: %w", err)
	}
	return nil
}

func (r *redisSeenArticleRepository) Persist(_ context.Context) error {
	return nil
}

func (r *redisSeenArticleRepository) Len(ctx context.Context) (int, error) {
	count, err := r.client.SCard(ctx, r.key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count seen articles: %w", err)
	}
	return int(count), nil
}

// InMemorySeenArticleRepository is a volatile SeenArticleRepository. It backs
// the "memory" store configuration and test doubles; AddErr and PersistErr
// let tests exercise the degraded store paths.
type InMemorySeenArticleRepository struct {
	mu   sync.Mutex
	seen map[string]struct{}

	AddErr     error
	PersistErr error
}

// NewInMemorySeenArticleRepository creates an empty in-memory repository.
func NewInMemorySeenArticleRepository() *InMemorySeenArticleRepository {
	return &InMemorySeenArticleRepository{
		seen: make(map[string]struct{}),
	}
}

func (r *InMemorySeenArticleRepository) Contains(_ context.Context, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[url]
	return ok, nil
}

func (r *InMemorySeenArticleRepository) Add(_ context.Context, url string) error {
	if r.AddErr != nil {
		return r.AddErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[url] = struct{}{}
	return nil
}

func (r *InMemorySeenArticleRepository) Persist(_ context.Context) error {
	return r.PersistErr
}

func (r *InMemorySeenArticleRepository) Len(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen), nil
}

// URLs returns a snapshot of the set, for assertions and summaries.
func (r *InMemorySeenArticleRepository) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	urls := make([]string, 0, len(r.seen))
	for url := range r.seen {
		urls = append(urls, url)
	}
	return urls
}

package fetch

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonathan/interview-coach/internal/observability"
)

// DefaultCacheTTL is how long a fetched repository stays fresh.
const DefaultCacheTTL = 10 * time.Minute

// DefaultCacheSize is the number of repositories kept in memory.
const DefaultCacheSize = 64

// CachedFetcher wraps a RepositoryFetcher with an in-memory LRU cache.
type CachedFetcher struct {
	next      RepositoryFetcher
	cache     *lru.Cache[string, cachedRepository]
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
	now       func() time.Time
}

type cachedRepository struct {
	repo      *Repository
	fetchedAt time.Time
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	CacheSize int
	SkipCache bool
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  DefaultCacheTTL,
		CacheSize: DefaultCacheSize,
	}
}

// NewCachedFetcher creates a new cached fetcher.
func NewCachedFetcher(next RepositoryFetcher, config *CachedFetcherConfig) (*CachedFetcher, error) {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = DefaultCacheTTL
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedRepository](config.CacheSize)
	if err != nil {
		return nil, err
	}
	return &CachedFetcher{
		next:      next,
		cache:     cache,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
		now:       time.Now,
	}, nil
}

// FetchRepository returns a fresh cached copy when available. Only fetches
// that produced files and were not cut short by rate limiting are cached.
func (f *CachedFetcher) FetchRepository(ctx context.Context, repo Repo) (*Repository, error) {
	key := repo.String()
	if !f.skipCache {
		if entry, ok := f.cache.Get(key); ok {
			if f.now().Sub(entry.fetchedAt) < f.cacheTTL {
				observability.LoggerFromContext(ctx).Debug("repository served from cache", "repo", key)
				return entry.repo, nil
			}
			f.cache.Remove(key)
		}
	}

	result, err := f.next.FetchRepository(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !f.skipCache && len(result.Files) > 0 && !result.Summary.RateLimited {
		f.cache.Add(key, cachedRepository{repo: result, fetchedAt: f.now()})
	}
	return result, nil
}

// Invalidate drops a repository from the cache.
func (f *CachedFetcher) Invalidate(repo Repo) {
	f.cache.Remove(repo.String())
}

// Len returns the number of cached repositories.
func (f *CachedFetcher) Len() int {
	return f.cache.Len()
}

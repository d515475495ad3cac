// Package ratelimit throttles requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	// IdleTTL bounds how long a client's bucket is remembered.
	IdleTTL time.Duration
	// MaxClients caps the number of buckets held at once; the least recently
	// used bucket is evicted first.
	MaxClients      int
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter manages a token bucket per client, endpoint and method.
type Limiter struct {
	config  *Config
	mu      sync.Mutex
	buckets *expirable.LRU[string, *rate.Limiter]
	now     func() time.Time
}

// NewLimiter creates a new rate limiter with the given configuration.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:       true,
			DefaultLimit:  300,
			DefaultWindow: time.Minute,
		}
	}
	ttl := config.IdleTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	size := config.MaxClients
	if size <= 0 {
		size = 10000
	}

	return &Limiter{
		config:  config,
		buckets: expirable.NewLRU[string, *rate.Limiter](size, nil, ttl),
		now:     time.Now,
	}
}

// Allow checks if a request from the given client is allowed for the specified endpoint.
// Returns true if allowed, false if rate limited, along with rate limit information.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	endpointConfig := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if endpointConfig == nil {
		endpointConfig = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if endpointConfig.Limit <= 0 || endpointConfig.Window <= 0 {
		return true, Info{Allowed: true}
	}

	// Prefix-matched endpoints share one bucket per client.
	key := clientID + ":" + method + ":" + endpoint
	if endpointConfig.Path != "" {
		key = clientID + ":" + method + ":" + endpointConfig.Path
	}
	bucket := l.bucket(key, endpointConfig)

	now := l.now()
	allowed := bucket.AllowN(now, 1)
	tokens := bucket.TokensAt(now)
	perSecond := float64(bucket.Limit())

	info := Info{
		Allowed:   allowed,
		Limit:     endpointConfig.Limit,
		Remaining: max(int(tokens), 0),
		ResetTime: now,
	}
	if missing := float64(bucket.Burst()) - tokens; missing > 0 {
		info.ResetTime = now.Add(secondsToDuration(missing / perSecond))
	}
	if !allowed {
		info.RetryAfter = secondsToDuration((1 - tokens) / perSecond)
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, cfg *EndpointConfig) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if b, ok := l.buckets.Get(key); ok {
		return b
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = cfg.Limit
	}
	b := rate.NewLimiter(rate.Every(cfg.Window/time.Duration(cfg.Limit)), burst)
	l.buckets.Add(key, b)
	return b
}

// Clients returns the number of buckets currently held.
func (l *Limiter) Clients() int {
	return l.buckets.Len()
}

// Stop releases all buckets.
func (l *Limiter) Stop() {
	l.buckets.Purge()
}

func secondsToDuration(s float64) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}

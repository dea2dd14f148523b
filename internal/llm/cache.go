package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/nguyentantai21042004/scribeflow/internal/config"
	"github.com/nguyentantai21042004/scribeflow/internal/logger"
)

// CacheKey fingerprints a completion request.
func CacheKey(provider, model, system, user string) string {
	h := sha256.New()
	for _, part := range []string{provider, model, system, user} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// OpenCache returns the cache backend named by cfg, or nil when caching is off.
func OpenCache(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "none", "off":
		return nil, nil
	case "memory":
		return NewMemoryCache(), nil
	case "sqlite":
		return OpenSQLiteCache(ctx, cfg.Path)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

type memoryCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryCache returns a process-local cache.
func NewMemoryCache() Cache {
	return &memoryCache{entries: make(map[string]string)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *memoryCache) Close() error { return nil }

// cachedProvider serves repeated requests from a cache. Cache failures are
// logged and fall through to the wrapped provider.
type cachedProvider struct {
	next   Provider
	model  string
	cache  Cache
	logger logger.Logger
}

// Cached wraps p so identical requests are answered from cache. A nil cache
// returns p unchanged.
func Cached(p Provider, model string, cache Cache, log logger.Logger) Provider {
	if cache == nil {
		return p
	}
	if log == nil {
		log = logger.Nop()
	}
	return &cachedProvider{next: p, model: model, cache: cache, logger: log}
}

func (c *cachedProvider) Name() string { return c.next.Name() }

func (c *cachedProvider) Complete(ctx context.Context, system, user string) (string, error) {
	key := CacheKey(c.next.Name(), c.model, system, user)
	if text, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn(ctx, "Completion cache lookup failed: %v", err)
	} else if ok {
		c.logger.Debug(ctx, "Completion cache hit %s", key[:12])
		return text, nil
	}

	text, err := c.next.Complete(ctx, system, user)
	if err != nil {
		return "", err
	}
	if err := c.cache.Put(ctx, key, text); err != nil {
		c.logger.Warn(ctx, "Completion cache store failed: %v", err)
	}
	return text, nil
}

package dictionary

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/robalobadob/wordscramble/internal/game"
)

// DefaultCacheSize bounds the number of verdicts Cached keeps.
const DefaultCacheSize = 10000

// Cached memoises another Provider's verdicts. Errors are not cached, and
// concurrent lookups of the same word share one call.
//
// The shared call is detached from the cancellation of whichever caller
// started it; each caller stops waiting when its own context ends.
type Cached struct {
	next  Provider
	max   int
	group singleflight.Group

	mu    sync.RWMutex
	cache map[string]bool
}

// NewCached wraps next. max <= 0 uses DefaultCacheSize.
func NewCached(next Provider, max int) *Cached {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cached{next: next, max: max, cache: make(map[string]bool)}
}

func (c *Cached) IsRecognizedWord(ctx context.Context, word, languageTag string) (bool, error) {
	key := strings.ToLower(languageTag) + "|" + game.Normalize(word)

	c.mu.RLock()
	v, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		v, err := c.next.IsRecognizedWord(context.WithoutCancel(ctx), word, languageTag)
		if err == nil {
			c.store(key, v)
		}
		return v, err
	})
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return false, res.Err
		}
		return res.Val.(bool), nil
	}
}

func (c *Cached) store(key string, v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.cache) >= c.max {
		// full: start over rather than track recency
		c.cache = make(map[string]bool, c.max)
	}
	c.cache[key] = v
}

// Len returns the number of cached verdicts.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

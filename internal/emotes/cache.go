// Package emotes resolves emote names against a guild's custom emotes and the
// standard Unicode table, and caches each guild's custom emote set.
package emotes

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/keshon/server-herald/internal/transport"
)

// DefaultCacheSize bounds the number of guilds whose emote sets are kept.
const DefaultCacheSize = 128

// Source lists a guild's custom emotes.
type Source interface {
	GuildEmotes(ctx context.Context, guildID string) ([]transport.Emote, error)
}

// Cache is a read-through cache of guild emote sets. A set is fetched once and
// served unchanged until Invalidate is called for its guild.
type Cache struct {
	src   Source
	lru   *lru.Cache[string, []transport.Emote]
	group singleflight.Group

	mu  sync.Mutex
	gen map[string]uint64
}

func NewCache(src Source, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	l, err := lru.New[string, []transport.Emote](size)
	if err != nil {
		return nil, fmt.Errorf("create emote cache: %w", err)
	}
	return &Cache{src: src, lru: l, gen: make(map[string]uint64)}, nil
}

// Guild returns the guild's custom emotes, fetching them on first use.
// Callers must not modify the returned slice.
//
// Concurrent misses share one fetch. The fetch is detached from ctx so one
// caller giving up does not fail the others; ctx only bounds this caller's wait.
func (c *Cache) Guild(ctx context.Context, guildID string) ([]transport.Emote, error) {
	if set, ok := c.lru.Get(guildID); ok {
		return set, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(guildID, func() (interface{}, error) {
		return c.fetch(fetchCtx, guildID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("list emotes for guild %s: %w", guildID, res.Err)
		}
		return res.Val.([]transport.Emote), nil
	}
}

func (c *Cache) fetch(ctx context.Context, guildID string) ([]transport.Emote, error) {
	if set, ok := c.lru.Get(guildID); ok {
		return set, nil
	}
	gen := c.generation(guildID)

	set, err := c.src.GuildEmotes(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		set = []transport.Emote{}
	}

	// An Invalidate during the fetch means set may be stale: hand it to the
	// waiting callers but do not cache it.
	c.mu.Lock()
	if c.gen[guildID] == gen {
		c.lru.Add(guildID, set)
	}
	c.mu.Unlock()
	return set, nil
}

func (c *Cache) generation(guildID string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[guildID]
}

// Invalidate drops the cached set so the next Guild call refetches it. A fetch
// already in flight is not cached and later callers start a new one.
func (c *Cache) Invalidate(guildID string) {
	c.mu.Lock()
	c.gen[guildID]++
	c.lru.Remove(guildID)
	c.mu.Unlock()
	c.group.Forget(guildID)
}

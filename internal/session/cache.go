package session

import (
	"time"

	"github.com/InsulaLabs/blisp/pkg/blisp"
	"github.com/jellydator/ttlcache/v3"
)

// ProgramCache maps source lines to their lowered value trees so repeated
// input skips the parser. It is safe for use by many sessions at once.
// Entries are copied on the way in and out; evaluation consumes trees.
type ProgramCache struct {
	cache *ttlcache.Cache[string, *blisp.Value]
}

func NewProgramCache(ttl time.Duration) *ProgramCache {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, *blisp.Value](ttl),
		ttlcache.WithDisableTouchOnHit[string, *blisp.Value](), // dont bump ttl on hit
	)
	go cache.Start()
	return &ProgramCache{cache: cache}
}

func (c *ProgramCache) Get(src string) (*blisp.Value, bool) {
	item := c.cache.Get(src)
	if item == nil || item.IsExpired() {
		return nil, false
	}
	return item.Value().Copy(), true
}

func (c *ProgramCache) Set(src string, program *blisp.Value) {
	c.cache.Set(src, program.Copy(), ttlcache.DefaultTTL)
}

func (c *ProgramCache) Len() int {
	return c.cache.Len()
}

func (c *ProgramCache) Stop() {
	c.cache.Stop()
}

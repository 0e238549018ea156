package cachesvc

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/trezcool/madrasa/core/homepage"
)

// Memory is an in-process cache whose entries expire after a fixed TTL.
type Memory struct {
	c   *gocache.Cache
	ttl time.Duration
}

var _ homepage.Cache = (*Memory)(nil)

// New returns a Memory cache, or nil (no caching) when `ttl` is not positive.
func New(ttl time.Duration) homepage.Cache {
	if ttl <= 0 {
		return nil // go-cache keeps zero-TTL entries forever
	}
	return NewMemory(ttl)
}

// NewMemory returns a Memory cache. `ttl` must be positive.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{c: gocache.New(ttl, time.Minute), ttl: ttl}
}

func (m *Memory) Get(key string) (interface{}, bool) { return m.c.Get(key) }
func (m *Memory) Set(key string, val interface{})   { m.c.Set(key, val, m.ttl) }
func (m *Memory) Delete(key string)                 { m.c.Delete(key) }
func (m *Memory) Flush()                            { m.c.Flush() }

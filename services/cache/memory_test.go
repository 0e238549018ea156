package cachesvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	c := NewMemory(time.Minute)

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", 42)
	val, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 42, val)

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory(10 * time.Millisecond)
	c.Set("k", "v")
	time.Sleep(30 * time.Millisecond)
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestNew(t *testing.T) {
	assert.Nil(t, New(0), "a zero TTL disables caching")
	assert.Nil(t, New(-time.Second))
	assert.IsType(t, &Memory{}, New(time.Second))
}

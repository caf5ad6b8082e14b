package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_SetGet(t *testing.T) {
	c := NewCache[string, int](10, 0)

	c.Set("a", 1)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)

	_, ok = c.Get("b")
	assert.False(t, ok)

	c.ClearKey("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestCache_Replace(t *testing.T) {
	c := NewCache[string, string](100, 0)
	c.Set("old", "x")
	c.Set("kept", "y")

	c.Replace(map[string]string{"kept": "z", "new": "w"})

	_, ok := c.Get("old")
	assert.False(t, ok)

	got, ok := c.Get("kept")
	assert.True(t, ok)
	assert.Equal(t, "z", got)

	got, ok = c.Get("new")
	assert.True(t, ok)
	assert.Equal(t, "w", got)
	assert.Equal(t, 2, c.Len())
}

func TestCache_ClearAll(t *testing.T) {
	c := NewCache[string, int](10, 0)
	c.Set("a", 1)
	c.Set("b", 2)

	c.ClearAll()

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.False(t, ok)
}

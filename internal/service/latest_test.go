package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFetchGuards_SlowResponseDiscarded(t *testing.T) {
	g := newFetchGuards()

	first := g.begin("orders:u1")
	second := g.begin("orders:u1")

	// The newer request resolves first; the older one must be dropped.
	assert.True(t, g.apply("orders:u1", second, "fresh"))
	assert.False(t, g.apply("orders:u1", first, "stale"))

	r, ok := g.applied("orders:u1")
	assert.True(t, ok)
	assert.Equal(t, "fresh", r)
}

func TestFetchGuards_InOrderResponsesBothApply(t *testing.T) {
	g := newFetchGuards()

	first := g.begin("k")
	second := g.begin("k")

	assert.True(t, g.apply("k", first, "first"))
	assert.True(t, g.apply("k", second, "second"))

	r, _ := g.applied("k")
	assert.Equal(t, "second", r)
}

func TestFetchGuards_KeysIndependent(t *testing.T) {
	g := newFetchGuards()

	a := g.begin("a")
	_ = g.begin("b")
	bNewer := g.begin("b")

	assert.True(t, g.apply("b", bNewer, "b2"))
	assert.True(t, g.apply("a", a, "a1"))

	r, _ := g.applied("a")
	assert.Equal(t, "a1", r)
}

package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKeyStableAcrossOrder(t *testing.T) {
	a := GenerateCacheKey([]string{"u1", "u2", "u3"}, "2026-08-17", "2026-08-23", "stats")
	b := GenerateCacheKey([]string{"u3", "u1", "u2"}, "2026-08-17", "2026-08-23", "stats")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestGenerateCacheKeyVariesWithParameters(t *testing.T) {
	base := GenerateCacheKey([]string{"u1"}, "2026-08-17", "2026-08-23", "stats")

	assert.NotEqual(t, base, GenerateCacheKey([]string{"u2"}, "2026-08-17", "2026-08-23", "stats"))
	assert.NotEqual(t, base, GenerateCacheKey([]string{"u1"}, "2026-08-10", "2026-08-23", "stats"))
	assert.NotEqual(t, base, GenerateCacheKey([]string{"u1"}, "2026-08-17", "2026-08-24", "stats"))
	assert.NotEqual(t, base, GenerateCacheKey([]string{"u1"}, "2026-08-17", "2026-08-23", "tasks"))
}

func TestGenerateCacheKeyDoesNotMutateInput(t *testing.T) {
	userIDs := []string{"u3", "u1", "u2"}
	GenerateCacheKey(userIDs, "2026-08-17", "2026-08-23", "stats")
	assert.Equal(t, []string{"u3", "u1", "u2"}, userIDs)
}

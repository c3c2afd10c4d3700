package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogResolve(t *testing.T) {
	cat := testCatalog()

	list, ok := cat.Resolve(CategoryLocal, "FUERZA PATRIA")
	assert.True(t, ok)
	assert.Equal(t, int64(1), list.ID)

	// Same name, other category, different identity.
	list, ok = cat.Resolve(CategoryProvincial, "FUERZA PATRIA")
	assert.True(t, ok)
	assert.Equal(t, int64(4), list.ID)

	_, ok = cat.Resolve(CategoryLocal, "NO SUCH LIST")
	assert.False(t, ok)
}

func TestCatalogInactiveNotResolvable(t *testing.T) {
	cat := testCatalog()

	_, ok := cat.Resolve(CategoryLocal, "PARTIDO VIEJO")
	assert.False(t, ok)

	// Still reachable by ID for rendering stored data.
	list, ok := cat.ByID(3)
	assert.True(t, ok)
	assert.False(t, list.Active)
}

func TestComputeDifference(t *testing.T) {
	rec := TallyRecord{ElectorsVoted: 200, EnvelopesReceived: 195, Difference: 42}
	rec.ComputeDifference()
	assert.Equal(t, 5, rec.Difference)
}

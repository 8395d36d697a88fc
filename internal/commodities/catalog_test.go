package commodities

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListIsOrderedAndComplete(t *testing.T) {
	groups := List()
	require.Len(t, groups, 50)
	for i, g := range groups {
		assert.Equal(t, fmt.Sprintf("%03d", i+1), g.ID)
		assert.NotEmpty(t, g.Category)
		assert.NotEmpty(t, g.Group)
	}
	assert.Equal(t, "Information Technology", groups[30].Category)
	assert.Equal(t, "Software", groups[30].Group)
}

func TestListReturnsCopy(t *testing.T) {
	groups := List()
	groups[0].Group = "mutated"
	assert.Equal(t, "Accommodation Rentals", List()[0].Group)
}

func TestLookup(t *testing.T) {
	g, ok := Lookup("029")
	require.True(t, ok)
	assert.Equal(t, "Information Technology - Hardware", g.Label())

	_, ok = Lookup("999")
	assert.False(t, ok)
}

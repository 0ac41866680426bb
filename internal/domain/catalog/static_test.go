package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_FindStore(t *testing.T) {
	c := Default()

	s, err := c.FindStore("Indomaret")
	require.NoError(t, err)
	assert.Equal(t, 6, s.AvailableCart)

	s, err = c.FindStore("Alfamart")
	require.NoError(t, err)
	assert.Equal(t, 12, s.AvailableCart)

	_, err = c.FindStore("indomaret")
	assert.ErrorIs(t, err, ErrStoreNotFound)

	_, err = c.FindStore("Unknown")
	assert.ErrorIs(t, err, ErrStoreNotFound)
}

func TestDefault_Items(t *testing.T) {
	items := Default().Items()
	require.Len(t, items, 5)
	assert.Equal(t, "Delfi Milk", items[0].Name)
	assert.Equal(t, 2500, items[0].Price)
}

func TestAccessorsReturnCopies(t *testing.T) {
	c := Default()

	stores := c.Stores()
	stores[0].AvailableCart = 99

	s, err := c.FindStore("Indomaret")
	require.NoError(t, err)
	assert.Equal(t, 6, s.AvailableCart)
}

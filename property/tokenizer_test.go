package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizerWalk(t *testing.T) {
	prop := NewTokenizer("order[0].item[0].name")

	assert.Equal(t, "order", prop.Name())
	assert.Equal(t, "order[0]", prop.IndexedName())
	assert.Equal(t, "0", prop.Index())
	assert.Equal(t, "item[0].name", prop.Children())
	require.True(t, prop.HasNext())

	prop = prop.Next()
	assert.Equal(t, "item", prop.Name())
	assert.Equal(t, "item[0]", prop.IndexedName())
	assert.Equal(t, "0", prop.Index())
	assert.Equal(t, "name", prop.Children())
	require.True(t, prop.HasNext())

	prop = prop.Next()
	assert.Equal(t, "name", prop.Name())
	assert.Equal(t, "name", prop.IndexedName())
	assert.Empty(t, prop.Index())
	assert.Empty(t, prop.Children())
	assert.False(t, prop.HasNext())
}

func TestTokenizerSingleSegment(t *testing.T) {
	prop := NewTokenizer("name")

	assert.Equal(t, "name", prop.Name())
	assert.Equal(t, "name", prop.IndexedName())
	assert.False(t, prop.HasIndex())
	assert.False(t, prop.HasNext())
}

func TestTokenizerMapKeyIndex(t *testing.T) {
	prop := NewTokenizer("params[driver].value")

	assert.Equal(t, "params", prop.Name())
	assert.Equal(t, "params[driver]", prop.IndexedName())
	assert.Equal(t, "driver", prop.Index())
	assert.True(t, prop.HasIndex())
	require.True(t, prop.HasNext())
	assert.Equal(t, "value", prop.Children())
}

func TestTokenizerBareIndex(t *testing.T) {
	prop := NewTokenizer("[2]")

	assert.Empty(t, prop.Name())
	assert.Equal(t, "[2]", prop.IndexedName())
	assert.Equal(t, "2", prop.Index())
	assert.False(t, prop.HasNext())
}

package bitmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidDimensions(t *testing.T) {
	_, err := New(0, 10)
	assert.Error(t, err)
	_, err = New(10, -1)
	assert.Error(t, err)
}

func TestSetGetUnset(t *testing.T) {
	m, err := New(40, 3)
	require.NoError(t, err)

	assert.False(t, m.Get(33, 1))
	m.Set(33, 1)
	assert.True(t, m.Get(33, 1))
	assert.False(t, m.Get(32, 1))
	assert.False(t, m.Get(33, 0))

	m.Unset(33, 1)
	assert.False(t, m.Get(33, 1))
}

func TestSetRegion(t *testing.T) {
	m, err := New(20, 20)
	require.NoError(t, err)
	require.NoError(t, m.SetRegion(5, 5, 10, 10))

	assert.True(t, m.Get(5, 5))
	assert.True(t, m.Get(14, 14))
	assert.False(t, m.Get(4, 5))
	assert.False(t, m.Get(15, 14))

	assert.Error(t, m.SetRegion(-1, 0, 5, 5))
	assert.Error(t, m.SetRegion(0, 0, 0, 5))
	assert.Error(t, m.SetRegion(18, 18, 5, 5))
}

func TestParseString_Roundtrip(t *testing.T) {
	repr := "X.X.\n" +
		".X.X\n" +
		"XX..\n"
	m, err := ParseString(repr, "X", ".")
	require.NoError(t, err)

	assert.Equal(t, 4, m.Width())
	assert.Equal(t, 3, m.Height())
	assert.True(t, m.Get(0, 0))
	assert.False(t, m.Get(1, 0))
	assert.True(t, m.Get(1, 2))
	assert.Equal(t, repr, m.String())
}

func TestParseString_Errors(t *testing.T) {
	_, err := ParseString("X.\nX", "X", ".")
	assert.Error(t, err, "ragged rows")
	_, err = ParseString("X?", "X", ".")
	assert.Error(t, err, "unknown character")
}

func TestRotate180(t *testing.T) {
	m, err := ParseString("X..\n...\n..X\n.XX\n", "X", ".")
	require.NoError(t, err)

	m.Rotate180()
	assert.Equal(t, "XX.\nX..\n...\n..X\n", m.String())
}

func TestRotate180_Involution(t *testing.T) {
	m, err := ParseString("X.X..\n.XX.X\n", "X", ".")
	require.NoError(t, err)
	orig := m.Clone()

	m.Rotate180()
	m.Rotate180()
	assert.True(t, m.Equals(orig))
}

func TestCloneIsIndependent(t *testing.T) {
	m, err := New(8, 8)
	require.NoError(t, err)
	m.Set(3, 3)

	c := m.Clone()
	c.Set(4, 4)

	assert.True(t, c.Get(3, 3))
	assert.False(t, m.Get(4, 4))
}

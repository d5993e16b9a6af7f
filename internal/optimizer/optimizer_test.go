package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	opt, err := New("", Params{})
	require.NoError(t, err)
	assert.Equal(t, NameDP, opt.Name())

	opt, err = New(NameDP, Params{})
	require.NoError(t, err)
	assert.Equal(t, NameDP, opt.Name())

	opt, err = New(NameHeuristic, Params{})
	require.NoError(t, err)
	assert.Equal(t, NameHeuristic, opt.Name())

	_, err = New("annealer", Params{})
	assert.ErrorContains(t, err, "unknown optimizer")
}

func TestDescriptors(t *testing.T) {
	ds := Descriptors()
	require.Len(t, ds, 2)
	assert.Equal(t, NameDP, ds[0].Name)
	assert.Equal(t, NameHeuristic, ds[1].Name)
	for _, d := range ds {
		assert.NotEmpty(t, d.Description)
	}
}

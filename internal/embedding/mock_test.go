package embedding

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedderDeterministic(t *testing.T) {
	e := NewMockEmbedder(DefaultDim)
	v1, err := e.Embed(context.Background(), "magnitude 7.2 urban collapse")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "magnitude 7.2 urban collapse")
	require.NoError(t, err)

	require.Len(t, v1, DefaultDim)
	assert.Equal(t, v1, v2)

	v3, err := e.Embed(context.Background(), "a completely different narrative")
	require.NoError(t, err)
	assert.NotEqual(t, v1, v3)
}

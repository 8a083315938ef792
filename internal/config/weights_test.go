package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWeightsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema_version: v1
weights:
  scale: 0.4
  spatial: 0.2
  human: 0.2
  built: 0.2
`), 0o644))

	wf, err := LoadWeightsFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.4, wf.Weights.Scale)
}

func TestLoadWeightsFileRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: v2\nweights:\n  scale: 0.5\n"), 0o644))

	_, err := LoadWeightsFile(path)
	assert.Error(t, err)
}

func TestWeightsWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema_version: v1\nweights:\n  scale: 0.3\n  spatial: 0.25\n  human: 0.2\n  built: 0.25\n"), 0o644))

	reloaded := make(chan float64, 2)
	watcher, err := NewWeightsWatcher(WeightsWatcherConfig{FilePath: path, DebounceMillis: 10}, func(f *WeightsFile) error {
		reloaded <- f.Weights.Scale
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, watcher.Start(context.Background()))
	defer watcher.Stop()

	select {
	case v := <-reloaded:
		assert.Equal(t, 0.3, v)
	default:
		t.Fatal("expected initial callback")
	}
}

package poster

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFilenameSlug(t *testing.T) {
	dir := t.TempDir()
	at := time.Date(2026, 1, 22, 10, 0, 0, 0, time.UTC)

	path, err := outputFilename(dir, "New York", "noir", "PNG", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new_york_noir_20260122_100000.png"), path)

	path, err = outputFilename(dir, "L'Aquila, Abruzzo", "blueprint", "svg", at)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "laquila_abruzzo_blueprint_20260122_100000.svg"), path)
}

func TestOutputFilenameCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "posters")

	_, err := outputFilename(dir, "Rome", "noir", "png", time.Now())
	require.NoError(t, err)
	assert.DirExists(t, dir)
}

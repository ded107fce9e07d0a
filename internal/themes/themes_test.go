package themes_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mapposter/internal/themes"
)

func TestLoadBuiltinTheme(t *testing.T) {
	loader := themes.NewLoader(t.TempDir(), zap.NewNop())

	theme := loader.Load("noir")
	assert.Equal(t, "Noir", theme.Name)
	assert.NotEmpty(t, theme.Bg)
	assert.NotEmpty(t, theme.RoadMotorway)
}

func TestLoadUnknownThemeFallsBack(t *testing.T) {
	loader := themes.NewLoader(t.TempDir(), zap.NewNop())

	theme := loader.Load("does_not_exist")
	assert.Equal(t, themes.Default(), theme)
}

func TestDiskThemeOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	custom := `{"name": "Custom Noir", "bg": "#123456", "text": "#FFFFFF"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "noir.json"), []byte(custom), 0644))

	loader := themes.NewLoader(dir, zap.NewNop())
	theme := loader.Load("noir")
	assert.Equal(t, "Custom Noir", theme.Name)
	assert.Equal(t, "#123456", theme.Bg)
}

func TestCorruptThemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{nope"), 0644))

	loader := themes.NewLoader(dir, zap.NewNop())
	theme := loader.Load("broken")
	assert.Equal(t, themes.Default(), theme)
}

func TestAvailableListsBuiltinsAndDiskThemes(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mytheme.json"), []byte("{}"), 0644))

	loader := themes.NewLoader(dir, zap.NewNop())
	names := loader.Available()

	assert.Contains(t, names, "feature_based")
	assert.Contains(t, names, "noir")
	assert.Contains(t, names, "blueprint")
	assert.Contains(t, names, "mytheme")
	assert.IsNonDecreasing(t, names)
}

func TestThemeNameDefaultsToFileName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bare.json"), []byte(`{"bg": "#000000"}`), 0644))

	loader := themes.NewLoader(dir, zap.NewNop())
	assert.Equal(t, "bare", loader.Load("bare").Name)
}

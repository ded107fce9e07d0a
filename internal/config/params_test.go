package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mapposter/internal/config"
)

func TestResolveDPI(t *testing.T) {
	assert.Equal(t, 450, config.ResolveDPI(450, "print"), "explicit DPI wins over quality")
	assert.Equal(t, 150, config.ResolveDPI(0, "screen"))
	assert.Equal(t, 300, config.ResolveDPI(0, "print"))
	assert.Equal(t, 600, config.ResolveDPI(0, "high"))
	assert.Equal(t, 300, config.ResolveDPI(0, ""), "unknown quality defaults to print DPI")
}

func TestResolveRenderParamsDefaultPreset(t *testing.T) {
	params, err := config.ResolveRenderParams("default", "print", 0, 29000, false, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 300, params.DPI)
	assert.InDelta(t, 12.0, params.WidthInches, 0.001)
	assert.InDelta(t, 16.0, params.HeightInches, 0.001)
	assert.Equal(t, 29000, params.Distance)
}

func TestResolveRenderParamsPixelPreset(t *testing.T) {
	params, err := config.ResolveRenderParams("desktop-4k", "print", 0, 29000, false, zap.NewNop())
	require.NoError(t, err)

	assert.InDelta(t, 3840.0/300, params.WidthInches, 0.001)
	assert.InDelta(t, 2160.0/300, params.HeightInches, 0.001)
	// 29000 * 1.8 = 52200, inside the clamp range.
	assert.Equal(t, 52200, params.Distance)
}

func TestResolveRenderParamsMobileShrinksDistance(t *testing.T) {
	params, err := config.ResolveRenderParams("mobile-portrait", "screen", 0, 29000, false, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, 150, params.DPI)
	assert.InDelta(t, 1080.0/150, params.WidthInches, 0.001)
	assert.Equal(t, 17400, params.Distance) // 29000 * 0.6
}

func TestExplicitDistanceIsNotScaled(t *testing.T) {
	params, err := config.ResolveRenderParams("desktop-4k", "print", 0, 5000, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 5000, params.Distance)
}

func TestDistanceClamping(t *testing.T) {
	params, err := config.ResolveRenderParams("default", "print", 0, 100, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.MinDistanceMeters, params.Distance)

	params, err = config.ResolveRenderParams("default", "print", 0, 500000, true, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, config.MaxDistanceMeters, params.Distance)
}

func TestCustomSize(t *testing.T) {
	params, err := config.ResolveRenderParams("custom:3000x5000", "print", 0, 10000, true, zap.NewNop())
	require.NoError(t, err)
	assert.InDelta(t, 10.0, params.WidthInches, 0.001)
	assert.InDelta(t, 5000.0/300, params.HeightInches, 0.001)
}

func TestCustomSizeValidation(t *testing.T) {
	for _, size := range []string{"custom:", "custom:1920", "custom:ax b", "custom:0x100", "custom:-5x100"} {
		_, err := config.ResolveRenderParams(size, "print", 0, 10000, true, zap.NewNop())
		assert.Error(t, err, "size %q should be rejected", size)
	}
}

func TestUnknownPresetFallsBackToDefault(t *testing.T) {
	params, err := config.ResolveRenderParams("billboard", "print", 0, 29000, false, zap.NewNop())
	require.NoError(t, err)
	assert.InDelta(t, 12.0, params.WidthInches, 0.001)
	assert.InDelta(t, 16.0, params.HeightInches, 0.001)
	assert.Equal(t, 29000, params.Distance)
}

func TestSizePresetNamesSorted(t *testing.T) {
	names := config.SizePresetNames()
	assert.Contains(t, names, "default")
	assert.Contains(t, names, "mobile-portrait")
	assert.IsNonDecreasing(t, names)
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrotips/config"
	"agrotips/pkg/engine"
)

func execute(t *testing.T, args ...string) (engine.IrrigationRecommendation, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(config.AppConfig{Engine: engine.DefaultConstants()})
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return engine.IrrigationRecommendation{}, err
	}
	var rec engine.IrrigationRecommendation
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	return rec, nil
}

func TestRecommendCmd(t *testing.T) {
	t.Run("should compute from flags", func(t *testing.T) {
		rec, err := execute(t, "--crop", "Paddy", "--soil", "Clay", "--size", "2", "--stage", "Flowering", "--rain-sensor")
		require.NoError(t, err)
		assert.Equal(t, 41279, rec.DailyWaterNeedLiters)
		assert.Equal(t, "Use DAP (Diammonium Phosphate)", rec.FertilizerAdvice)
		assert.Empty(t, rec.ForecastNote)
	})

	t.Run("should read a profile file and let flags override it", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "field.yaml")
		require.NoError(t, os.WriteFile(p, []byte(`
crop_type: paddy
soil_type: sandy
field_size_acres: 2
growth_stage: flowering
has_rain_sensor: true
`), 0o644))

		rec, err := execute(t, "--profile", p, "--soil", "clay")
		require.NoError(t, err)
		assert.Equal(t, 41279, rec.DailyWaterNeedLiters)
		assert.Equal(t, 8094.0, rec.Explanation.AreaSqMeters)
	})

	t.Run("should add a forecast note from the mock provider", func(t *testing.T) {
		rec, err := execute(t, "--crop", "tomato", "--size", "1", "--forecast")
		require.NoError(t, err)
		assert.Equal(t, "Rain expected on Friday (70% chance) - hold off on irrigation", rec.ForecastNote)
	})

	t.Run("should fail on a missing profile file", func(t *testing.T) {
		_, err := execute(t, "--profile", filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("should reject positional arguments", func(t *testing.T) {
		_, err := execute(t, "paddy")
		assert.Error(t, err)
	})
}

package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"agrotips/pkg/engine"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	p := filepath.Join(t.TempDir(), "fert.xlsx")
	require.NoError(t, f.SaveAs(p))
	return p
}

func TestLoadFromFiles(t *testing.T) {
	t.Run("should return built-in tables when no files are configured", func(t *testing.T) {
		tables, rep, err := LoadFromFiles("", "", "")
		require.NoError(t, err)
		assert.Equal(t, Report{}, rep)
		assert.Equal(t, engine.DefaultTables().Crops(), tables.Crops())
	})

	t.Run("should layer crop and soil rows with header aliases", func(t *testing.T) {
		crops := writeFile(t, "crops.csv", "\uFEFFCrop Type,Liters_per_sqm_day\nWheat,4.2\nPaddy,8\n,3\nbarley,n/a\n")
		soils := writeFile(t, "soils.csv", "texture,multiplier\nPeat,0.7\nsilt,\"0,95\"\n")

		tables, rep, err := LoadFromFiles(crops, soils, "")
		require.NoError(t, err)
		assert.Equal(t, 2, rep.CropRows)
		assert.Equal(t, 2, rep.SoilRows)
		assert.Equal(t, 2, rep.Skipped)

		v, ok := tables.CropWaterNeed("WHEAT")
		assert.True(t, ok)
		assert.Equal(t, 4.2, v)
		v, _ = tables.CropWaterNeed("paddy")
		assert.Equal(t, 8.0, v)
		v, _ = tables.CropWaterNeed("tomato")
		assert.Equal(t, 5.0, v)

		v, ok = tables.SoilFactor("peat")
		assert.True(t, ok)
		assert.Equal(t, 0.7, v)
		v, _ = tables.SoilFactor("silt")
		assert.Equal(t, 0.95, v)
	})

	t.Run("should skip rows with non-finite or absurd factors", func(t *testing.T) {
		crops := writeFile(t, "crops.csv", "crop,water_need\npaddy,NaN\nmaize,+Inf\nbanana,1e300\nwheat,4\n")
		tables, rep, err := LoadFromFiles(crops, "", "")
		require.NoError(t, err)
		assert.Equal(t, 1, rep.CropRows)
		assert.Equal(t, 3, rep.Skipped)

		v, _ := tables.CropWaterNeed("paddy")
		assert.Equal(t, 7.5, v)
		v, _ = tables.CropWaterNeed("maize")
		assert.Equal(t, 6.0, v)
	})

	t.Run("should fail when required columns are missing", func(t *testing.T) {
		crops := writeFile(t, "crops.csv", "name,colour\npaddy,green\n")
		_, _, err := LoadFromFiles(crops, "", "")
		assert.ErrorContains(t, err, "missing required columns")
	})

	t.Run("should fail when a configured file does not exist", func(t *testing.T) {
		_, _, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.csv"), "", "")
		assert.Error(t, err)
	})

	t.Run("should read fertilizer rules from the workbook", func(t *testing.T) {
		p := writeWorkbook(t, FertilizerSheet, [][]any{
			{"Crop", "Growth Stage", "Advice"},
			{"Maize", "Vegetative", "Side-dress with Urea at knee height"},
			{"default", "", "Use compost and NPK 10:10:10"},
			{"onion", "", "orphan"},
			{"", "x", "y"},
		})
		tables, rep, err := LoadFromFiles("", "", p)
		require.NoError(t, err)
		assert.Equal(t, 2, rep.FertilizerRows)
		assert.Equal(t, 2, rep.Skipped)

		e := engine.New(tables, engine.DefaultConstants())
		assert.Equal(t, "Side-dress with Urea at knee height", e.AdviseFertilizer("maize", "vegetative"))
		assert.Equal(t, "Use DAP (Diammonium Phosphate)", e.AdviseFertilizer("paddy", "flowering"))
		assert.Equal(t, "Use compost and NPK 10:10:10", e.AdviseFertilizer("wheat", "anything"))
	})

	t.Run("should fall back to the first sheet", func(t *testing.T) {
		p := writeWorkbook(t, "Sheet1", [][]any{
			{"crop", "stage", "fertilizer"},
			{"banana", "fruiting", "Muriate of potash"},
		})
		tables, _, err := LoadFromFiles("", "", p)
		require.NoError(t, err)
		advice, ok := tables.Fertilizer("Banana", "Fruiting")
		assert.True(t, ok)
		assert.Equal(t, "Muriate of potash", advice)
	})
}

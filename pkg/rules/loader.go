// Package rules loads lookup table overrides for the recommendation engine.
// Files are read once at startup; the resulting tables are read-only.
package rules

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"agrotips/pkg/engine"
)

// FertilizerSheet is the preferred sheet name in the fertilizer workbook.
// When absent the first sheet is used.
const FertilizerSheet = "Fertilizer"

type Report struct {
	CropRows       int
	SoilRows       int
	FertilizerRows int
	Skipped        int
}

// LoadFromFiles layers the given files over the built-in tables. Empty paths
// are skipped. A configured file that cannot be read or lacks the required
// columns is an error; individual bad rows are counted and skipped.
func LoadFromFiles(cropCSV, soilCSV, fertXLSX string) (*engine.Tables, Report, error) {
	var rep Report
	var crops, soils map[string]float64
	var fert map[string]map[string]string
	var fertDefault string
	var err error

	if cropCSV != "" {
		crops, err = loadFactorCSV(cropCSV, &rep.Skipped,
			[]string{"crop", "crop_type", "name"},
			[]string{"water_need", "liters_per_sqm_day", "l_per_m2_day", "water"})
		if err != nil {
			return nil, rep, fmt.Errorf("crop table %s: %w", cropCSV, err)
		}
		rep.CropRows = len(crops)
	}
	if soilCSV != "" {
		soils, err = loadFactorCSV(soilCSV, &rep.Skipped,
			[]string{"soil", "soil_type", "texture"},
			[]string{"factor", "multiplier", "adjustment"})
		if err != nil {
			return nil, rep, fmt.Errorf("soil table %s: %w", soilCSV, err)
		}
		rep.SoilRows = len(soils)
	}
	if fertXLSX != "" {
		fert, fertDefault, err = loadFertilizerXLSX(fertXLSX, &rep)
		if err != nil {
			return nil, rep, fmt.Errorf("fertilizer workbook %s: %w", fertXLSX, err)
		}
	}
	return engine.NewTables(crops, soils, fert, fertDefault), rep, nil
}

func norm(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

func headerIndex(head []string) func(keys ...string) int {
	hmap := map[string]int{}
	for i, h := range head {
		hmap[norm(h)] = i
	}
	return func(keys ...string) int {
		for _, k := range keys {
			if idx, ok := hmap[norm(k)]; ok {
				return idx
			}
		}
		return -1
	}
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func loadFactorCSV(path string, skipped *int, keyCols, valCols []string) (map[string]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	head, err := cr.Read()
	if err != nil {
		return nil, err
	}
	find := headerIndex(head)
	cKey, cVal := find(keyCols...), find(valCols...)
	if cKey == -1 || cVal == -1 {
		return nil, fmt.Errorf("missing required columns, found headers %v, need one of %v and one of %v", head, keyCols, valCols)
	}

	out := map[string]float64{}
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		key := engine.Normalize(cell(rec, cKey))
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell(rec, cVal), ",", "."), 64)
		if key == "" || err != nil || !engine.ValidFactor(v) {
			*skipped++
			continue
		}
		out[key] = v
	}
	return out, nil
}

func loadFertilizerXLSX(path string, rep *Report) (map[string]map[string]string, string, error) {
	x, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", err
	}
	defer x.Close()

	sheet := FertilizerSheet
	if idx, err := x.GetSheetIndex(sheet); err != nil || idx == -1 {
		sheet = x.GetSheetName(0)
	}
	rows, err := x.GetRows(sheet)
	if err != nil {
		return nil, "", err
	}
	if len(rows) == 0 {
		return nil, "", errors.New("empty sheet " + sheet)
	}
	find := headerIndex(rows[0])
	cCrop := find("crop", "crop_type")
	cStage := find("stage", "growth_stage", "phase")
	cAdvice := find("advice", "fertilizer", "recommendation")
	if cCrop == -1 || cAdvice == -1 {
		return nil, "", fmt.Errorf("missing required columns, found headers %v, need crop and advice", rows[0])
	}

	out := map[string]map[string]string{}
	def := ""
	for _, rec := range rows[1:] {
		crop := engine.Normalize(cell(rec, cCrop))
		stage := engine.Normalize(cell(rec, cStage))
		advice := cell(rec, cAdvice)
		switch {
		case advice == "" || crop == "":
			rep.Skipped++
		case crop == engine.DefaultKey:
			def = advice
			rep.FertilizerRows++
		case stage == "":
			rep.Skipped++
		default:
			if out[crop] == nil {
				out[crop] = map[string]string{}
			}
			out[crop][stage] = advice
			rep.FertilizerRows++
		}
	}
	return out, def, nil
}

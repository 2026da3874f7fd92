package engine

import (
	"sort"
	"strings"
)

// DefaultKey is the fallback entry every lookup table carries.
const DefaultKey = "default"

const DefaultFertilizerAdvice = "Use a balanced fertilizer like NPK 10:10:10"

// Tables holds the crop, soil and fertilizer lookup data. A Tables value is
// never mutated after construction, so one instance is shared by every call.
type Tables struct {
	cropWater  map[string]float64
	soilAdjust map[string]float64
	fertilizer map[string]map[string]string
	fertDef    string
}

var builtinCropWater = map[string]float64{
	"paddy":     7.5,
	"tomato":    5.0,
	"potato":    4.0,
	"onion":     3.5,
	"carrot":    3.0,
	"maize":     6.0,
	"groundnut": 5.5,
	"banana":    8.0,
	"coffee":    4.5,
	DefaultKey:  5.0,
}

var builtinSoilAdjust = map[string]float64{
	"clay":     0.8,
	"loam":     1.0,
	"sandy":    1.3,
	"silt":     0.9,
	DefaultKey: 1.0,
}

var builtinFertilizer = map[string]map[string]string{
	"paddy": {
		"seedling":   "Use NPK 20:10:10 lightly for root development",
		"vegetative": "Apply Urea (46% N) to boost growth",
		"flowering":  "Use DAP (Diammonium Phosphate)",
	},
	"tomato": {
		"vegetative": "Apply NPK 19:19:19 and Calcium Nitrate weekly",
		"fruiting":   "Use Potassium-rich fertilizer like NPK 0:0:50",
	},
}

// DefaultTables returns the built-in tables.
func DefaultTables() *Tables {
	return NewTables(nil, nil, nil, "")
}

// NewTables layers the given entries over the built-in tables. Keys are
// normalized; a blank fertDefault keeps the built-in generic advice.
func NewTables(cropWater, soilAdjust map[string]float64, fertilizer map[string]map[string]string, fertDefault string) *Tables {
	t := &Tables{
		cropWater:  mergeFactors(builtinCropWater, cropWater),
		soilAdjust: mergeFactors(builtinSoilAdjust, soilAdjust),
		fertilizer: map[string]map[string]string{},
		fertDef:    DefaultFertilizerAdvice,
	}
	for _, src := range []map[string]map[string]string{builtinFertilizer, fertilizer} {
		for crop, stages := range src {
			ck := Normalize(crop)
			if ck == "" {
				continue
			}
			if t.fertilizer[ck] == nil {
				t.fertilizer[ck] = map[string]string{}
			}
			for stage, advice := range stages {
				sk := Normalize(stage)
				if sk == "" || strings.TrimSpace(advice) == "" {
					continue
				}
				t.fertilizer[ck][sk] = strings.TrimSpace(advice)
			}
		}
	}
	if d := strings.TrimSpace(fertDefault); d != "" {
		t.fertDef = d
	}
	return t
}

func mergeFactors(base, over map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		k = Normalize(k)
		if k == "" || !ValidFactor(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// ValidFactor reports whether v may be used as a crop water need or soil
// factor: finite, non-negative and not absurdly large.
func ValidFactor(v float64) bool {
	return within(v, 0, maxTableFactor)
}

// Normalize lower-cases and trims a free-text key.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CropWaterNeed returns liters per m² per day for the crop and whether the
// crop was found. Unknown crops get the default entry.
func (t *Tables) CropWaterNeed(crop string) (float64, bool) {
	if v, ok := t.cropWater[Normalize(crop)]; ok {
		return v, true
	}
	return t.cropWater[DefaultKey], false
}

// SoilFactor returns the soil multiplier and whether the soil was found.
func (t *Tables) SoilFactor(soil string) (float64, bool) {
	if v, ok := t.soilAdjust[Normalize(soil)]; ok {
		return v, true
	}
	return t.soilAdjust[DefaultKey], false
}

// Fertilizer returns the advice for an exact crop/stage match, or the generic
// default with false.
func (t *Tables) Fertilizer(crop, stage string) (string, bool) {
	if stages, ok := t.fertilizer[Normalize(crop)]; ok {
		if advice, ok := stages[Normalize(stage)]; ok {
			return advice, true
		}
	}
	return t.fertDef, false
}

// Crops lists the known crop keys in order, default excluded.
func (t *Tables) Crops() []string {
	return keys(t.cropWater)
}

// Soils lists the known soil keys, default excluded.
func (t *Tables) Soils() []string {
	return keys(t.soilAdjust)
}

func keys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != DefaultKey {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

package engine

import "math"

// Upper bounds that keep every figure finite and every rounded figure inside
// an int. Values beyond them are rejected, not clamped.
const (
	maxSqMetersPerAcre   = 1e5
	maxAreaSqMeters      = 1e14
	maxFieldAcres        = 1e9
	maxTraditionalFactor = 10
	maxCostPerLiter      = 1e3
	maxTableFactor       = 1e6
)

// Constants are the tunable figures of the estimator. The defaults are
// illustrative, not calibrated agronomic values.
type Constants struct {
	SqMetersPerAcre      float64
	FallbackAreaSqMeters float64
	// MaxFieldAcres is the largest field size taken at face value. Larger
	// entries get the fallback area like unparsable ones.
	MaxFieldAcres        float64
	TraditionalFactor    float64
	CostPerLiter         float64
	RainSensorFactor     float64
	MoistureSensorFactor float64
	RainSkipThresholdPct int
}

func DefaultConstants() Constants {
	return Constants{
		SqMetersPerAcre:      4047,
		FallbackAreaSqMeters: 1000,
		MaxFieldAcres:        1e6,
		TraditionalFactor:    1.3,
		CostPerLiter:         0.002,
		RainSensorFactor:     0.85,
		MoistureSensorFactor: 0.8,
		RainSkipThresholdPct: 50,
	}
}

func within(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// Sanitized returns c with every field that would break the estimator's
// guarantees replaced by its default, plus the names of the replaced fields.
// Sensor factors must lie in (0,1] so sensors never add water; the
// traditional factor must be at least 1 so savings stay within 0..100%.
func (c Constants) Sanitized() (Constants, []string) {
	d := DefaultConstants()
	var reset []string
	check := func(name string, v *float64, def float64, ok bool) {
		if !ok {
			*v = def
			reset = append(reset, name)
		}
	}
	check("SqMetersPerAcre", &c.SqMetersPerAcre, d.SqMetersPerAcre,
		c.SqMetersPerAcre > 0 && within(c.SqMetersPerAcre, 0, maxSqMetersPerAcre))
	check("FallbackAreaSqMeters", &c.FallbackAreaSqMeters, d.FallbackAreaSqMeters,
		c.FallbackAreaSqMeters > 0 && within(c.FallbackAreaSqMeters, 0, maxAreaSqMeters))
	check("MaxFieldAcres", &c.MaxFieldAcres, d.MaxFieldAcres,
		c.MaxFieldAcres > 0 && within(c.MaxFieldAcres, 0, maxFieldAcres))
	check("TraditionalFactor", &c.TraditionalFactor, d.TraditionalFactor,
		within(c.TraditionalFactor, 1, maxTraditionalFactor))
	check("CostPerLiter", &c.CostPerLiter, d.CostPerLiter,
		within(c.CostPerLiter, 0, maxCostPerLiter))
	check("RainSensorFactor", &c.RainSensorFactor, d.RainSensorFactor,
		c.RainSensorFactor > 0 && within(c.RainSensorFactor, 0, 1))
	check("MoistureSensorFactor", &c.MoistureSensorFactor, d.MoistureSensorFactor,
		c.MoistureSensorFactor > 0 && within(c.MoistureSensorFactor, 0, 1))
	if c.RainSkipThresholdPct < 0 || c.RainSkipThresholdPct > 100 {
		c.RainSkipThresholdPct = d.RainSkipThresholdPct
		reset = append(reset, "RainSkipThresholdPct")
	}
	return c, reset
}

// TechnologyFactor combines the savings of the installed sensors.
func (c Constants) TechnologyFactor(rainSensor, moistureSensor bool) float64 {
	f := 1.0
	if rainSensor {
		f *= c.RainSensorFactor
	}
	if moistureSensor {
		f *= c.MoistureSensorFactor
	}
	return f
}

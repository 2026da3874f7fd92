// Command recommend computes one irrigation and fertilizer recommendation
// from flags or a YAML profile file and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"agrotips/config"
	"agrotips/pkg/engine"
	"agrotips/pkg/logging"
	"agrotips/pkg/rules"
	"agrotips/pkg/weather"
)

type options struct {
	profile     string
	crop        string
	soil        string
	size        string
	stage       string
	rainSensor  bool
	moisture    bool
	forecast    bool
	liveWeather bool
}

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg config.AppConfig) *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Compute a daily irrigation and fertilizer recommendation",
		Example: `  recommend --crop paddy --soil clay --size 2 --stage flowering --rain-sensor
  recommend --profile field.yaml --forecast`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := o.farmProfile(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, p, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.profile, "profile", "f", "", "YAML file with the farm profile; flags override its values")
	f.StringVar(&o.crop, "crop", "", "crop type, e.g. paddy")
	f.StringVar(&o.soil, "soil", "", "soil type: clay, loam, sandy or silt")
	f.StringVar(&o.size, "size", "", "field size in acres")
	f.StringVar(&o.stage, "stage", "", "growth stage, e.g. flowering")
	f.BoolVar(&o.rainSensor, "rain-sensor", false, "a rain sensor is installed")
	f.BoolVar(&o.moisture, "moisture-sensor", false, "a soil moisture sensor is installed")
	f.BoolVar(&o.forecast, "forecast", false, "add a forecast note")
	f.BoolVar(&o.liveWeather, "live-weather", false, "use OpenWeather when OWM_API_KEY is set")
	return cmd
}

func (o options) farmProfile(cmd *cobra.Command) (engine.FarmProfile, error) {
	var p engine.FarmProfile
	if o.profile != "" {
		data, err := os.ReadFile(o.profile)
		if err != nil {
			return p, fmt.Errorf("read profile: %w", err)
		}
		if err := yaml.Unmarshal(data, &p); err != nil {
			return p, fmt.Errorf("parse profile %s: %w", o.profile, err)
		}
	}
	fl := cmd.Flags()
	if fl.Changed("crop") {
		p.CropType = o.crop
	}
	if fl.Changed("soil") {
		p.SoilType = o.soil
	}
	if fl.Changed("size") {
		p.FieldSizeAcres = engine.FieldSize(o.size)
	}
	if fl.Changed("stage") {
		p.GrowthStage = o.stage
	}
	if fl.Changed("rain-sensor") {
		p.HasRainSensor = o.rainSensor
	}
	if fl.Changed("moisture-sensor") {
		p.HasSoilMoistureSensor = o.moisture
	}
	return p, nil
}

func run(ctx context.Context, out io.Writer, cfg config.AppConfig, p engine.FarmProfile, o options) error {
	tables, _, err := rules.LoadFromFiles(cfg.CropTableCSV, cfg.SoilTableCSV, cfg.FertilizerXLSX)
	if err != nil {
		return err
	}
	eng := engine.New(tables, cfg.Engine)

	var hint *engine.ForecastHint
	if o.forecast {
		wx := weather.NewMock()
		if o.liveWeather && cfg.OWMAPIKey != "" {
			logger, err := logging.New("warn", cfg.LogPretty)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			wx = weather.NewOpenWeather(cfg.WeatherConfig(), logger)
		}
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		r, err := wx.Report(ctx)
		if err == nil {
			hint = weather.HintFrom(r)
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(eng.ComputeRecommendation(p, hint))
}

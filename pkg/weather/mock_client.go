// pkg/weather/mock_client.go

package weather

import "context"

type mockClient struct{}

func NewMock() Client { return &mockClient{} }

func (m *mockClient) Mode() string { return SourceMock }

func (m *mockClient) Report(ctx context.Context) (Report, error) {
	return mockReport(), nil
}

func mockReport() Report {
	return Report{
		Current: Current{
			TempC:       28,
			HumidityPct: 65,
			WindKmh:     12,
			Condition:   "Partly Cloudy",
			Icon:        "🌤️",
		},
		Forecast: []Day{
			{Day: "Today", TempC: 28, Icon: "🌤️", RainChancePct: 10},
			{Day: "Tomorrow", TempC: 30, Icon: "☀️", RainChancePct: 5},
			{Day: "Wednesday", TempC: 29, Icon: "⛅", RainChancePct: 20},
			{Day: "Thursday", TempC: 27, Icon: "🌧️", RainChancePct: 60},
			{Day: "Friday", TempC: 26, Icon: "🌧️", RainChancePct: 70},
		},
		IrrigationAdvice: []string{
			"Based on upcoming dry conditions, consider irrigating tomatoes and peppers tomorrow",
			"Rain expected on Thursday - hold off on irrigation for field crops",
			"Soil moisture levels expected to drop - monitor crops with shallow roots",
		},
		Source: SourceMock,
	}
}

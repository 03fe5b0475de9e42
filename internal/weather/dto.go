package weather

// CurrentReading is the instantaneous part of a weather report.
type CurrentReading struct {
	Temperature   *float64 `json:"temperature"`
	Humidity      *float64 `json:"humidity"`
	Precipitation *float64 `json:"precipitation"`
}

// DailySummary is today's aggregate.
type DailySummary struct {
	MaxTemp       *float64 `json:"max_temp"`
	MinTemp       *float64 `json:"min_temp"`
	Precipitation *float64 `json:"precipitation"`
}

// Report is the body of GET /weather.
type Report struct {
	Status   string         `json:"status"`
	Current  CurrentReading `json:"current"`
	Daily    DailySummary   `json:"daily"`
	Note     string         `json:"note,omitempty"`
	MockData bool           `json:"mock_data,omitempty"`
}

// ForecastSeries mirrors the upstream daily block: parallel arrays, one entry per day.
type ForecastSeries struct {
	Time             []string   `json:"time"`
	Temperature2mMax []*float64 `json:"temperature_2m_max"`
	Temperature2mMin []*float64 `json:"temperature_2m_min"`
	PrecipitationSum []*float64 `json:"precipitation_sum"`
}

// ForecastReport is the body of GET /weather/forecast.
type ForecastReport struct {
	Status   string         `json:"status"`
	Forecast ForecastSeries `json:"forecast"`
	Note     string         `json:"note,omitempty"`
	MockData bool           `json:"mock_data,omitempty"`
}

package providers

import (
	"context"
	"time"

	"example.com/syncscript/backend/internal/scoring"
)

// WeatherCondition — прогноз на время события. Форма ответа стабильна,
// чтобы симулятор можно было заменить реальным SDK без правок вызывающих.
type WeatherCondition struct {
	TemperatureC        float64                 `json:"temperature_c"`
	Summary             string                  `json:"summary"`
	Severity            scoring.WeatherSeverity `json:"severity"`
	PrecipitationChance int                     `json:"precipitation_chance"`
	WindKph             float64                 `json:"wind_kph"`
}

type LeaveByInput struct {
	EventTime     time.Time
	EventLocation string
	UserLocation  string
	Mode          string
	BufferMinutes int
}

type LeaveByResult struct {
	LeaveBy       time.Time            `json:"leave_by"`
	TravelMinutes int                  `json:"travel_minutes"`
	Traffic       scoring.TrafficLevel `json:"traffic"`
	Mode          string               `json:"mode"`
	BufferMinutes int                  `json:"buffer_minutes"`
}

// WeatherProvider отдает прогноз для места и времени.
type WeatherProvider interface {
	Forecast(ctx context.Context, at time.Time, location string) (WeatherCondition, error)
}

// TravelProvider считает время выхода с учетом дороги и буфера.
type TravelProvider interface {
	LeaveBy(ctx context.Context, input LeaveByInput) (LeaveByResult, error)
}

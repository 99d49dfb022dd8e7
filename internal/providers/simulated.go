package providers

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"example.com/syncscript/backend/internal/scoring"
)

const (
	defaultLatency = 150 * time.Millisecond

	walkingSpeedKmh = 5
	drivingSpeedKmh = 30
	transitSpeedKmh = 20
)

// SimulatedWeather — детерминированный источник погоды: один и тот же
// ответ для одной пары (место, день). Искусственная задержка имитирует
// сетевой вызов и прерывается отменой контекста.
type SimulatedWeather struct {
	seed    int64
	latency time.Duration
}

// NewSimulatedWeather создает симулятор погоды с заданным зерном.
func NewSimulatedWeather(seed int64, latency time.Duration) *SimulatedWeather {
	if latency <= 0 {
		latency = defaultLatency
	}
	return &SimulatedWeather{seed: seed, latency: latency}
}

// Forecast возвращает сгенерированный прогноз для места и времени.
func (p *SimulatedWeather) Forecast(ctx context.Context, at time.Time, location string) (WeatherCondition, error) {
	if err := simulateLatency(ctx, p.latency); err != nil {
		return WeatherCondition{}, err
	}

	rng := rand.New(rand.NewSource(p.seed ^ daySeed(at, location)))

	condition := WeatherCondition{
		TemperatureC:        float64(rng.Intn(35) - 5),
		PrecipitationChance: rng.Intn(101),
		WindKph:             float64(rng.Intn(60)),
		Severity:            scoring.WeatherNormal,
		Summary:             "Clear",
	}

	switch {
	case condition.WindKph > 50 || condition.PrecipitationChance > 90:
		condition.Severity = scoring.WeatherSevere
		condition.Summary = "Storm warning"
	case condition.PrecipitationChance > 75:
		condition.Severity = scoring.WeatherWarning
		condition.Summary = "Heavy rain expected"
	case condition.PrecipitationChance > 40:
		condition.Summary = "Chance of rain"
	}

	return condition, nil
}

// SimulatedTravel — детерминированный расчет времени в пути.
type SimulatedTravel struct {
	seed    int64
	latency time.Duration
}

// NewSimulatedTravel создает симулятор трафика с заданным зерном.
func NewSimulatedTravel(seed int64, latency time.Duration) *SimulatedTravel {
	if latency <= 0 {
		latency = defaultLatency
	}
	return &SimulatedTravel{seed: seed, latency: latency}
}

// LeaveBy оценивает дорогу и возвращает момент выхода.
func (p *SimulatedTravel) LeaveBy(ctx context.Context, input LeaveByInput) (LeaveByResult, error) {
	if err := simulateLatency(ctx, p.latency); err != nil {
		return LeaveByResult{}, err
	}

	rng := rand.New(rand.NewSource(p.seed ^ daySeed(input.EventTime, input.UserLocation+"|"+input.EventLocation)))

	distanceKm := 1 + rng.Float64()*19

	speed := drivingSpeedKmh
	switch input.Mode {
	case "walking":
		speed = walkingSpeedKmh
	case "transit":
		speed = transitSpeedKmh
	}

	traffic := scoring.TrafficLight
	multiplier := 1.0
	hour := input.EventTime.Hour()
	congestion := rng.Float64()
	if hour >= 7 && hour <= 9 || hour >= 17 && hour <= 19 {
		congestion += 0.35
	}
	switch {
	case congestion > 0.8:
		traffic = scoring.TrafficHeavy
		multiplier = 1.6
	case congestion > 0.5:
		traffic = scoring.TrafficModerate
		multiplier = 1.25
	}

	travelMinutes := int(distanceKm / float64(speed) * 60 * multiplier)
	if travelMinutes < 1 {
		travelMinutes = 1
	}

	buffer := input.BufferMinutes
	if buffer < 0 {
		buffer = 0
	}

	return LeaveByResult{
		LeaveBy:       input.EventTime.Add(-time.Duration(travelMinutes+buffer) * time.Minute),
		TravelMinutes: travelMinutes,
		Traffic:       traffic,
		Mode:          input.Mode,
		BufferMinutes: buffer,
	}, nil
}

func simulateLatency(ctx context.Context, latency time.Duration) error {
	timer := time.NewTimer(latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func daySeed(at time.Time, location string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(at.UTC().Format("2006-01-02")))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(location))
	return int64(h.Sum64())
}

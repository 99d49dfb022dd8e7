package providers

import (
	"context"
	"errors"
	"testing"
	"time"
)

// TestSimulatedWeatherDeterministic проверяет стабильность прогноза
// для одной пары (место, день).
func TestSimulatedWeatherDeterministic(t *testing.T) {
	provider := NewSimulatedWeather(42, time.Millisecond)
	at := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	first, err := provider.Forecast(context.Background(), at, "Berlin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := provider.Forecast(context.Background(), at.Add(3*time.Hour), "Berlin")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first != second {
		t.Fatalf("expected identical forecast for same day, got %+v vs %+v", first, second)
	}

	other, err := provider.Forecast(context.Background(), at, "Lisbon")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first == other {
		t.Fatal("expected different forecast for different location")
	}
}

// TestSimulatedWeatherCancellation проверяет прерывание по контексту
// во время искусственной задержки.
func TestSimulatedWeatherCancellation(t *testing.T) {
	provider := NewSimulatedWeather(1, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Forecast(ctx, time.Now(), "Berlin")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

// TestSimulatedTravelLeaveBy проверяет согласованность времени выхода.
func TestSimulatedTravelLeaveBy(t *testing.T) {
	provider := NewSimulatedTravel(7, time.Millisecond)
	eventTime := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	result, err := provider.LeaveBy(context.Background(), LeaveByInput{
		EventTime:     eventTime,
		EventLocation: "Office",
		UserLocation:  "Home",
		Mode:          "driving",
		BufferMinutes: 10,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.TravelMinutes < 1 {
		t.Fatalf("expected positive travel time, got %d", result.TravelMinutes)
	}

	expected := eventTime.Add(-time.Duration(result.TravelMinutes+result.BufferMinutes) * time.Minute)
	if !result.LeaveBy.Equal(expected) {
		t.Fatalf("leave-by mismatch: %v vs %v", result.LeaveBy, expected)
	}

	again, err := provider.LeaveBy(context.Background(), LeaveByInput{
		EventTime:     eventTime,
		EventLocation: "Office",
		UserLocation:  "Home",
		Mode:          "driving",
		BufferMinutes: 10,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if again.TravelMinutes != result.TravelMinutes {
		t.Fatalf("expected deterministic travel time, got %d vs %d", again.TravelMinutes, result.TravelMinutes)
	}
}

// TestSimulatedTravelDeadline проверяет соблюдение дедлайна контекста.
func TestSimulatedTravelDeadline(t *testing.T) {
	provider := NewSimulatedTravel(7, time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := provider.LeaveBy(ctx, LeaveByInput{EventTime: time.Now(), Mode: "walking"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

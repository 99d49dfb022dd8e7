package streaks

import (
	"testing"
	"time"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

// TestComputeEmpty проверяет пустую историю активности.
func TestComputeEmpty(t *testing.T) {
	streak := Compute(nil, day(0))
	if streak.Current != 0 || streak.Longest != 0 {
		t.Fatalf("expected zero streak, got %+v", streak)
	}
}

// TestComputeCurrentRun проверяет серию, заканчивающуюся сегодня.
func TestComputeCurrentRun(t *testing.T) {
	activity := []time.Time{day(-2), day(-1), day(0)}

	streak := Compute(activity, day(0))
	if streak.Current != 3 {
		t.Fatalf("expected current 3, got %d", streak.Current)
	}
	if streak.Longest != 3 {
		t.Fatalf("expected longest 3, got %d", streak.Longest)
	}
}

// TestComputeYesterdayKeepsStreak проверяет, что серия не сгорает,
// пока день не пропущен.
func TestComputeYesterdayKeepsStreak(t *testing.T) {
	activity := []time.Time{day(-3), day(-2), day(-1)}

	streak := Compute(activity, day(0))
	if streak.Current != 3 {
		t.Fatalf("expected current 3, got %d", streak.Current)
	}
}

// TestComputeBrokenStreak проверяет обнуление после пропущенного дня.
func TestComputeBrokenStreak(t *testing.T) {
	activity := []time.Time{day(-5), day(-4), day(-3)}

	streak := Compute(activity, day(0))
	if streak.Current != 0 {
		t.Fatalf("expected current 0, got %d", streak.Current)
	}
	if streak.Longest != 3 {
		t.Fatalf("expected longest 3, got %d", streak.Longest)
	}
}

// TestComputeDuplicatesSameDay проверяет, что повторная активность
// в один день не удлиняет серию.
func TestComputeDuplicatesSameDay(t *testing.T) {
	activity := []time.Time{day(-1), day(-1).Add(5 * time.Hour), day(0)}

	streak := Compute(activity, day(0))
	if streak.Current != 2 {
		t.Fatalf("expected current 2, got %d", streak.Current)
	}
}

// TestComputeLongestInPast проверяет рекорд в прошлом при короткой
// текущей серии.
func TestComputeLongestInPast(t *testing.T) {
	activity := []time.Time{day(-10), day(-9), day(-8), day(-7), day(0)}

	streak := Compute(activity, day(0))
	if streak.Current != 1 {
		t.Fatalf("expected current 1, got %d", streak.Current)
	}
	if streak.Longest != 4 {
		t.Fatalf("expected longest 4, got %d", streak.Longest)
	}
}

package streaks

import (
	"sort"
	"time"
)

// Streak — серии подряд идущих активных календарных дней.
type Streak struct {
	Current    int        `json:"current"`
	Longest    int        `json:"longest"`
	LastActive *time.Time `json:"last_active,omitempty"`
}

// Compute считает текущую и рекордную серию по датам активности
// (вход и логи энергии, завершение задач). Текущая серия не обнуляется,
// если сегодня активности еще не было, но вчера была.
func Compute(activity []time.Time, now time.Time) Streak {
	if len(activity) == 0 {
		return Streak{}
	}

	days := make([]time.Time, 0, len(activity))
	seen := make(map[time.Time]struct{}, len(activity))
	for _, ts := range activity {
		day := truncateToDay(ts)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	last := days[len(days)-1]
	today := truncateToDay(now)

	current := 0
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		current = 1
		for i := len(days) - 2; i >= 0; i-- {
			if days[i+1].Sub(days[i]) != 24*time.Hour {
				break
			}
			current++
		}
	}

	lastCopy := last
	return Streak{Current: current, Longest: longest, LastActive: &lastCopy}
}

func truncateToDay(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}

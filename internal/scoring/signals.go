package scoring

import (
	"time"

	"example.com/syncscript/backend/internal/models"
)

// Общие сигналы для контекстного скоринга и генератора объяснений.
// Веса у двух путей намеренно разные (отбор против объяснения для
// пользователя), но исходные величины считаются в одном месте.

func energyDiff(task models.Task, fctx ContextualFactors) int {
	diff := task.EnergyRequirement - fctx.CurrentEnergy
	if diff < 0 {
		diff = -diff
	}
	return diff
}

// daysUntilDue возвращает число календарных дней до дедлайна:
// 0 для сегодняшнего, отрицательное для просроченного.
func daysUntilDue(due, now time.Time) int {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, due.Location())
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return int(dueDay.Sub(nowDay).Hours() / 24)
}

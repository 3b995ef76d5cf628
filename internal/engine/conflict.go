package engine

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Span запрашиваемый интервал на конкретную дату
type Span struct {
	Date     types.Date
	Interval Interval
}

// HasConflict возвращает true, если span пересекается с буферизованным интервалом
// хотя бы одной активной записи той же даты. Запись excludeID не учитывается.
// Буферы применяются только к существующим записям: кандидат не расширяется
func HasConflict(span Span, existing []*domain.Appointment, rule *domain.AvailabilityRule, excludeID *int64) bool {
	for _, appt := range existing {
		if blocks(appt, span, rule, excludeID) {
			return true
		}
	}
	return false
}

// Conflicts возвращает ID всех записей, с которыми пересекается span
func Conflicts(span Span, existing []*domain.Appointment, rule *domain.AvailabilityRule, excludeID *int64) []int64 {
	ids := make([]int64, 0)
	for _, appt := range existing {
		if blocks(appt, span, rule, excludeID) {
			ids = append(ids, appt.ID)
		}
	}
	return ids
}

func blocks(appt *domain.Appointment, span Span, rule *domain.AvailabilityRule, excludeID *int64) bool {
	if !counts(appt, excludeID) || !appt.Date.Equal(span.Date) {
		return false
	}
	return BufferedInterval(appt, rule).Overlaps(span.Interval)
}

// counts возвращает true для активной записи, которая не исключена редактированием
func counts(appt *domain.Appointment, excludeID *int64) bool {
	if appt == nil || !appt.IsActive() {
		return false
	}
	return excludeID == nil || appt.ID != *excludeID
}

package engine

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Interval полуоткрытый интервал [Start, End) в минутах от полуночи
type Interval struct {
	Start int
	End   int
}

// Overlaps возвращает true, если интервалы пересекаются.
// Интервалы, стоящие встык (a.End == b.Start), не пересекаются
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Overlaps проверка пересечения [a0, a1) и [b0, b1)
func Overlaps(a0, a1, b0, b1 int) bool {
	return a0 < b1 && b0 < a1
}

// BufferedInterval возвращает занятый записью интервал с учетом буферов правила дня.
// Конец всегда вычисляется как start + duration, сохраненный end_time не используется
func BufferedInterval(appt *domain.Appointment, rule *domain.AvailabilityRule) Interval {
	start := appt.StartTime.Minutes()
	end := appt.EndMinutes()
	if rule != nil {
		start -= rule.BufferBefore
		end += rule.BufferAfter
	}
	return Interval{Start: start, End: end}
}

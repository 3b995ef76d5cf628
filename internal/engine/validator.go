package engine

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Candidate запрашиваемая запись
type Candidate struct {
	Date            types.Date
	StartTime       types.TimeOfDay
	DurationMinutes int
	ExcludeID       *int64 // ID редактируемой записи, она не конфликтует сама с собой
}

// Interval возвращает интервал кандидата без буферов
func (c Candidate) Interval() Interval {
	start := c.StartTime.Minutes()
	return Interval{Start: start, End: start + c.DurationMinutes}
}

// Snapshot данные, на которых принимается решение. Engine их не загружает
type Snapshot struct {
	Rule             *domain.AvailabilityRule // правило дня недели кандидата, nil если не задано
	Policy           *domain.SchedulingPolicy // nil = политика по умолчанию
	DayAppointments  []*domain.Appointment    // записи на дату кандидата
	WeekAppointments []*domain.Appointment    // записи недели (воскресенье..суббота) кандидата
	Now              time.Time
	Location         *time.Location // зона политики; nil = загрузить из Policy
}

// resolved возвращает снимок с подставленной политикой и загруженной зоной
func (s Snapshot) resolved() Snapshot {
	if s.Policy == nil {
		s.Policy = domain.DefaultSchedulingPolicy("")
	}
	if s.Location == nil {
		s.Location = s.Policy.Location()
	}
	return s
}

// Result итог проверки. Отказ по правилам расписания не является ошибкой
type Result struct {
	OK          bool
	Reason      Reason
	ConflictIDs []int64 // заполняется при TIME_CONFLICT
}

// Accepted результат успешной проверки
func Accepted() Result {
	return Result{OK: true}
}

// Rejected результат отказа с причиной
func Rejected(reason Reason) Result {
	return Result{OK: false, Reason: reason}
}

// ValidateInput проверяет форму кандидата до применения правил
func ValidateInput(c Candidate) error {
	if c.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if c.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, c.DurationMinutes)
	}
	if c.StartTime < 0 || c.StartTime > types.MaxTimeOfDay {
		return fmt.Errorf("%w: start time %d is outside 00:00-23:59", ErrInvalidInput, c.StartTime.Minutes())
	}
	if c.StartTime.Minutes()+c.DurationMinutes > types.MinutesPerDay {
		return fmt.Errorf("%w: %s + %d min crosses midnight", ErrInvalidInput, c.StartTime, c.DurationMinutes)
	}
	return nil
}

// Validate проверяет кандидата по правилам расписания.
// Проверки выполняются по порядку, первая неуспешная определяет причину отказа.
// Функция чистая: одинаковые входные данные дают одинаковый результат
func Validate(c Candidate, s Snapshot) (Result, error) {
	if err := ValidateInput(c); err != nil {
		return Result{}, err
	}

	s = s.resolved()
	policy := s.Policy
	rule := s.Rule
	if rule != nil && rule.DayOfWeek != c.Date.Weekday() {
		return Result{}, fmt.Errorf("%w: rule for day %d passed for %s (day %d)",
			ErrInvalidInput, rule.DayOfWeek, c.Date, c.Date.Weekday())
	}

	interval := c.Interval()

	// 1. День недоступен
	if rule == nil || !rule.IsActive {
		return Rejected(ReasonDayUnavailable), nil
	}

	// 2. Вне рабочего окна
	if !rule.Contains(interval.Start, interval.End) {
		return Rejected(ReasonOutsideHours), nil
	}

	// 3. Обеденный перерыв
	if lunchBlocks(policy, interval) {
		return Rejected(ReasonLunchBreakBlocked), nil
	}

	// 4. Минимальное уведомление и горизонт бронирования считаем в часовом поясе политики
	loc := s.Location
	now := s.Now.In(loc)
	if c.Date.At(c.StartTime, loc).Before(now.Add(policy.MinNotice())) {
		return Rejected(ReasonTooSoon), nil
	}
	if policy.HasAdvanceLimit() {
		lastDate := types.DateOf(now, loc).AddDays(policy.MaxDaysInFuture)
		if c.Date.After(lastDate) {
			return Rejected(ReasonTooFar), nil
		}
	}

	// 5. Лимиты встреч
	if rule.HasDailyCap() && countOnDate(c.Date, s.DayAppointments, c.ExcludeID) >= rule.MaxMeetingsPerDay {
		return Rejected(ReasonDailyCapReached), nil
	}
	if rule.HasWeeklyCap() && countInWeek(c.Date, s.DayAppointments, s.WeekAppointments, c.ExcludeID) >= rule.MaxMeetingsPerWeek {
		return Rejected(ReasonWeeklyCapReached), nil
	}

	// 6. Пересечение с существующими записями
	span := Span{Date: c.Date, Interval: interval}
	if ids := Conflicts(span, s.DayAppointments, rule, c.ExcludeID); len(ids) > 0 {
		return Result{OK: false, Reason: ReasonTimeConflict, ConflictIDs: ids}, nil
	}

	return Accepted(), nil
}

func lunchBlocks(policy *domain.SchedulingPolicy, interval Interval) bool {
	if !policy.LunchBreakEnabled || !policy.LunchBreakStart.IsBefore(policy.LunchBreakEnd) {
		return false
	}
	lunch := Interval{Start: policy.LunchBreakStart.Minutes(), End: policy.LunchBreakEnd.Minutes()}
	return interval.Overlaps(lunch)
}

func countOnDate(date types.Date, appts []*domain.Appointment, excludeID *int64) int {
	n := 0
	for _, appt := range appts {
		if counts(appt, excludeID) && appt.Date.Equal(date) {
			n++
		}
	}
	return n
}

// countInWeek считает активные записи недели даты, объединяя оба списка по ID
func countInWeek(date types.Date, day, week []*domain.Appointment, excludeID *int64) int {
	from, to := date.WeekStart(), date.WeekEnd()
	seen := make(map[int64]struct{}, len(day)+len(week))

	for _, list := range [][]*domain.Appointment{week, day} {
		for _, appt := range list {
			if !counts(appt, excludeID) || appt.Date.Before(from) || appt.Date.After(to) {
				continue
			}
			seen[appt.ID] = struct{}{}
		}
	}
	return len(seen)
}

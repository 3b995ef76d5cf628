package engine

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailableSlots перебирает начала слотов от начала окна правила с шагом step
// (0 = шаг равен длительности), пока слот помещается в окно, и оставляет те,
// что проходят Validate. Для неактивного или незаданного дня возвращает пустой список
func AvailableSlots(date types.Date, durationMinutes, stepMinutes int, s Snapshot) ([]domain.AvailableSlot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidInput, durationMinutes)
	}
	if stepMinutes < 0 {
		return nil, fmt.Errorf("%w: step must not be negative, got %d", ErrInvalidInput, stepMinutes)
	}
	if stepMinutes == 0 {
		stepMinutes = durationMinutes
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	slots := make([]domain.AvailableSlot, 0)
	rule := s.Rule
	if rule == nil || !rule.IsActive {
		return slots, nil
	}

	s = s.resolved()
	windowEnd := rule.EndTime.Minutes()
	for start := rule.StartTime.Minutes(); start+durationMinutes <= windowEnd && start <= int(types.MaxTimeOfDay); start += stepMinutes {
		candidate := Candidate{
			Date:            date,
			StartTime:       types.TimeOfDay(start),
			DurationMinutes: durationMinutes,
		}

		result, err := Validate(candidate, s)
		if err != nil {
			return nil, err
		}
		if !result.OK {
			continue
		}

		slots = append(slots, domain.AvailableSlot{
			StartTime:       candidate.StartTime,
			EndTime:         types.TimeOfDay(start + durationMinutes),
			DurationMinutes: durationMinutes,
		})
	}

	return slots, nil
}

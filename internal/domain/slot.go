package domain

import "github.com/m04kA/SMC-SchedulingService/pkg/types"

// AvailableSlot represents a start time that passes every scheduling check
type AvailableSlot struct {
	StartTime       types.TimeOfDay
	EndTime         types.TimeOfDay
	DurationMinutes int
}

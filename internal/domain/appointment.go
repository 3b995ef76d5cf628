package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no_show"
)

// statusTransitions allowed moves between statuses; statuses missing here are terminal
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// IsValid returns true for a known status
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// IsActive returns true if an appointment in this status occupies calendar time
func (s AppointmentStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed || s == StatusCompleted
}

// CanTransitionTo returns true if the status may change to next
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment represents a booked meeting on the shared calendar
type Appointment struct {
	ID              int64
	Date            types.Date
	StartTime       types.TimeOfDay
	DurationMinutes int
	EndTime         types.TimeOfDay // stored for display, derived from StartTime + DurationMinutes
	Status          AppointmentStatus

	// Client identity is opaque to scheduling
	ClientName  string
	ClientEmail *string
	ClientPhone *string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment blocks its time range
func (a *Appointment) IsActive() bool {
	return a.Status.IsActive()
}

// EndMinutes returns the end of the appointment computed from start and duration
func (a *Appointment) EndMinutes() int {
	return a.StartTime.Minutes() + a.DurationMinutes
}

// HasEndTimeMismatch returns true if the stored end time disagrees with start + duration
func (a *Appointment) HasEndTimeMismatch() bool {
	return a.EndTime.Minutes() != a.EndMinutes()
}

// CanBeRescheduled returns true if the appointment time may still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// AppointmentsFilter фильтр выборки записей
type AppointmentsFilter struct {
	StartDate       *types.Date        // Начало периода включительно (опционально)
	EndDate         *types.Date        // Конец периода включительно (опционально)
	Status          *AppointmentStatus // Конкретный статус (опционально)
	IncludeInactive bool               // Включать отмененные и no-show
}

// IsSingleDate returns true if the filter selects exactly one calendar date
func (f AppointmentsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && f.StartDate.Equal(*f.EndDate)
}

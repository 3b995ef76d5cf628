package events

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Типы событий (имя топика без префикса)
const (
	TypeAppointmentBooked        = "appointment.booked"
	TypeAppointmentRescheduled   = "appointment.rescheduled"
	TypeAppointmentStatusChanged = "appointment.status_changed"
)

// Event конверт события
type Event struct {
	EventID     string          `json:"eventId"`
	EventType   string          `json:"eventType"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Appointment AppointmentData `json:"appointment"`
	Previous    *ScheduleData   `json:"previous,omitempty"`
	FromStatus  string          `json:"fromStatus,omitempty"`
	ToStatus    string          `json:"toStatus,omitempty"`
	ActorID     int64           `json:"actorId,omitempty"`
}

// AppointmentData данные записи в событии
type AppointmentData struct {
	ID              int64   `json:"id"`
	Date            string  `json:"date"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ClientName      string  `json:"clientName"`
	ClientEmail     *string `json:"clientEmail,omitempty"`
	ClientPhone     *string `json:"clientPhone,omitempty"`
}

// ScheduleData время записи до переноса
type ScheduleData struct {
	Date            string `json:"date"`
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

func appointmentData(a *domain.Appointment) AppointmentData {
	return AppointmentData{
		ID:              a.ID,
		Date:            a.Date.String(),
		StartTime:       a.StartTime.String(),
		EndTime:         a.EndTime.String(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		ClientName:      a.ClientName,
		ClientEmail:     a.ClientEmail,
		ClientPhone:     a.ClientPhone,
	}
}

func scheduleData(a *domain.Appointment) *ScheduleData {
	return &ScheduleData{
		Date:            a.Date.String(),
		StartTime:       a.StartTime.String(),
		DurationMinutes: a.DurationMinutes,
	}
}

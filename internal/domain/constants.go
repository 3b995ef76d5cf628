package domain

import "github.com/m04kA/SMC-SchedulingService/pkg/types"

// Default policy values
const (
	DefaultMinNoticeHours  = 1
	DefaultMaxDaysInFuture = 0 // 0 = unlimited
	DefaultTimezone        = "UTC"
)

// Default time-of-day values
var (
	DefaultLunchBreakStart = types.MustTimeOfDay("12:00")
	DefaultLunchBreakEnd   = types.MustTimeOfDay("13:00")
	DefaultWeekViewStart   = types.MustTimeOfDay("08:00")
	DefaultWeekViewEnd     = types.MustTimeOfDay("18:00")
)

// Business validation constants
const (
	MaxBufferMinutes            = 240
	MaxMeetingsCap              = 1000
	MaxMinNoticeHours           = 24 * 30
	MaxDaysInFutureLimit        = 730
	MaxNotesLength              = 500
	MaxClientNameLength         = 200
	MaxCancellationReasonLength = 500
)

// ActiveStatuses statuses that occupy calendar time and count toward caps
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// InactiveStatuses statuses ignored by conflict detection and caps
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// SchedulingPolicy holds the global scheduling settings (singleton)
type SchedulingPolicy struct {
	MinNoticeHours     int
	MaxDaysInFuture    int // 0 = unlimited
	LunchBreakEnabled  bool
	LunchBreakStart    types.TimeOfDay
	LunchBreakEnd      types.TimeOfDay
	WeekViewStartTime  types.TimeOfDay // display only
	WeekViewEndTime    types.TimeOfDay // display only
	GlobalTimezone     string          // IANA name
	MaxMeetingsPerDay  int             // template pushed to active rules on save
	MaxMeetingsPerWeek int             // template pushed to active rules on save
	UpdatedAt          time.Time
}

// DefaultSchedulingPolicy returns the policy used when none has been saved
func DefaultSchedulingPolicy(timezone string) *SchedulingPolicy {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	return &SchedulingPolicy{
		MinNoticeHours:    DefaultMinNoticeHours,
		MaxDaysInFuture:   DefaultMaxDaysInFuture,
		LunchBreakEnabled: false,
		LunchBreakStart:   DefaultLunchBreakStart,
		LunchBreakEnd:     DefaultLunchBreakEnd,
		WeekViewStartTime: DefaultWeekViewStart,
		WeekViewEndTime:   DefaultWeekViewEnd,
		GlobalTimezone:    timezone,
	}
}

// Location loads the policy timezone, falling back to UTC for an unknown name
func (p *SchedulingPolicy) Location() *time.Location {
	if p.GlobalTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.GlobalTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// HasAdvanceLimit returns true if bookings are limited to a number of days ahead
func (p *SchedulingPolicy) HasAdvanceLimit() bool {
	return p.MaxDaysInFuture > 0
}

// MinNotice returns the minimum notice as a duration
func (p *SchedulingPolicy) MinNotice() time.Duration {
	return time.Duration(p.MinNoticeHours) * time.Hour
}

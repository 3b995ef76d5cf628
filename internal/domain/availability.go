package domain

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailabilityRule is the recurring working window for one day of the week
type AvailabilityRule struct {
	DayOfWeek          int // 0..6, Sunday = 0
	StartTime          types.TimeOfDay
	EndTime            types.TimeOfDay
	IsActive           bool
	BufferBefore       int // minutes
	BufferAfter        int // minutes
	MaxMeetingsPerDay  int // 0 = unlimited
	MaxMeetingsPerWeek int // 0 = unlimited
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Contains returns true if [start, end) lies inside the rule window
func (r *AvailabilityRule) Contains(start, end int) bool {
	return start >= r.StartTime.Minutes() && end <= r.EndTime.Minutes()
}

// HasDailyCap returns true if the number of meetings per day is limited
func (r *AvailabilityRule) HasDailyCap() bool {
	return r.MaxMeetingsPerDay > 0
}

// HasWeeklyCap returns true if the number of meetings per week is limited
func (r *AvailabilityRule) HasWeeklyCap() bool {
	return r.MaxMeetingsPerWeek > 0
}

// IsValidDayOfWeek returns true for 0..6
func IsValidDayOfWeek(day int) bool {
	return day >= 0 && day <= 6
}

// AvailabilityRuleUpdate partial update of a rule; nil fields are left unchanged
type AvailabilityRuleUpdate struct {
	StartTime          *types.TimeOfDay
	EndTime            *types.TimeOfDay
	IsActive           *bool
	BufferBefore       *int
	BufferAfter        *int
	MaxMeetingsPerDay  *int
	MaxMeetingsPerWeek *int
}

// IsEmpty returns true if the update changes nothing
func (u AvailabilityRuleUpdate) IsEmpty() bool {
	return u.StartTime == nil && u.EndTime == nil && u.IsActive == nil &&
		u.BufferBefore == nil && u.BufferAfter == nil &&
		u.MaxMeetingsPerDay == nil && u.MaxMeetingsPerWeek == nil
}

// Apply returns a copy of rule with the update applied
func (u AvailabilityRuleUpdate) Apply(rule AvailabilityRule) AvailabilityRule {
	if u.StartTime != nil {
		rule.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		rule.EndTime = *u.EndTime
	}
	if u.IsActive != nil {
		rule.IsActive = *u.IsActive
	}
	if u.BufferBefore != nil {
		rule.BufferBefore = *u.BufferBefore
	}
	if u.BufferAfter != nil {
		rule.BufferAfter = *u.BufferAfter
	}
	if u.MaxMeetingsPerDay != nil {
		rule.MaxMeetingsPerDay = *u.MaxMeetingsPerDay
	}
	if u.MaxMeetingsPerWeek != nil {
		rule.MaxMeetingsPerWeek = *u.MaxMeetingsPerWeek
	}
	return rule
}

package cache

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ruleEntry представление правила в кэше
type ruleEntry struct {
	DayOfWeek          int             `json:"dayOfWeek"`
	StartTime          types.TimeOfDay `json:"startTime"`
	EndTime            types.TimeOfDay `json:"endTime"`
	IsActive           bool            `json:"isActive"`
	BufferBefore       int             `json:"bufferBefore"`
	BufferAfter        int             `json:"bufferAfter"`
	MaxMeetingsPerDay  int             `json:"maxMeetingsPerDay"`
	MaxMeetingsPerWeek int             `json:"maxMeetingsPerWeek"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func toRuleEntry(r *domain.AvailabilityRule) ruleEntry {
	return ruleEntry{
		DayOfWeek:          r.DayOfWeek,
		StartTime:          r.StartTime,
		EndTime:            r.EndTime,
		IsActive:           r.IsActive,
		BufferBefore:       r.BufferBefore,
		BufferAfter:        r.BufferAfter,
		MaxMeetingsPerDay:  r.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: r.MaxMeetingsPerWeek,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func (e ruleEntry) toDomain() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		DayOfWeek:          e.DayOfWeek,
		StartTime:          e.StartTime,
		EndTime:            e.EndTime,
		IsActive:           e.IsActive,
		BufferBefore:       e.BufferBefore,
		BufferAfter:        e.BufferAfter,
		MaxMeetingsPerDay:  e.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: e.MaxMeetingsPerWeek,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}

// policyEntry представление политики в кэше
type policyEntry struct {
	MinNoticeHours     int             `json:"minNoticeHours"`
	MaxDaysInFuture    int             `json:"maxDaysInFuture"`
	LunchBreakEnabled  bool            `json:"lunchBreakEnabled"`
	LunchBreakStart    types.TimeOfDay `json:"lunchBreakStart"`
	LunchBreakEnd      types.TimeOfDay `json:"lunchBreakEnd"`
	WeekViewStartTime  types.TimeOfDay `json:"weekViewStartTime"`
	WeekViewEndTime    types.TimeOfDay `json:"weekViewEndTime"`
	GlobalTimezone     string          `json:"globalTimezone"`
	MaxMeetingsPerDay  int             `json:"maxMeetingsPerDay"`
	MaxMeetingsPerWeek int             `json:"maxMeetingsPerWeek"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

func toPolicyEntry(p *domain.SchedulingPolicy) policyEntry {
	return policyEntry{
		MinNoticeHours:     p.MinNoticeHours,
		MaxDaysInFuture:    p.MaxDaysInFuture,
		LunchBreakEnabled:  p.LunchBreakEnabled,
		LunchBreakStart:    p.LunchBreakStart,
		LunchBreakEnd:      p.LunchBreakEnd,
		WeekViewStartTime:  p.WeekViewStartTime,
		WeekViewEndTime:    p.WeekViewEndTime,
		GlobalTimezone:     p.GlobalTimezone,
		MaxMeetingsPerDay:  p.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: p.MaxMeetingsPerWeek,
		UpdatedAt:          p.UpdatedAt,
	}
}

func (e policyEntry) toDomain() *domain.SchedulingPolicy {
	return &domain.SchedulingPolicy{
		MinNoticeHours:     e.MinNoticeHours,
		MaxDaysInFuture:    e.MaxDaysInFuture,
		LunchBreakEnabled:  e.LunchBreakEnabled,
		LunchBreakStart:    e.LunchBreakStart,
		LunchBreakEnd:      e.LunchBreakEnd,
		WeekViewStartTime:  e.WeekViewStartTime,
		WeekViewEndTime:    e.WeekViewEndTime,
		GlobalTimezone:     e.GlobalTimezone,
		MaxMeetingsPerDay:  e.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: e.MaxMeetingsPerWeek,
		UpdatedAt:          e.UpdatedAt,
	}
}

package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// UpdatePolicyRequest обновление политики. Не заданные поля берутся из текущей политики
type UpdatePolicyRequest struct {
	MinNoticeHours     *int    `json:"minNoticeHours,omitempty"`
	MaxDaysInFuture    *int    `json:"maxDaysInFuture,omitempty"` // 0 = без ограничения
	LunchBreakEnabled  *bool   `json:"lunchBreakEnabled,omitempty"`
	LunchBreakStart    *string `json:"lunchBreakStart,omitempty"` // "12:00"
	LunchBreakEnd      *string `json:"lunchBreakEnd,omitempty"`   // "13:00"
	WeekViewStartTime  *string `json:"weekViewStartTime,omitempty"`
	WeekViewEndTime    *string `json:"weekViewEndTime,omitempty"`
	GlobalTimezone     *string `json:"globalTimezone,omitempty"` // IANA, например "Europe/Moscow"
	MaxMeetingsPerDay  *int    `json:"maxMeetingsPerDay,omitempty"`
	MaxMeetingsPerWeek *int    `json:"maxMeetingsPerWeek,omitempty"`
}

// ApplyTo возвращает копию current с примененными изменениями
func (r *UpdatePolicyRequest) ApplyTo(current domain.SchedulingPolicy) (domain.SchedulingPolicy, error) {
	p := current

	if r.MinNoticeHours != nil {
		p.MinNoticeHours = *r.MinNoticeHours
	}
	if r.MaxDaysInFuture != nil {
		p.MaxDaysInFuture = *r.MaxDaysInFuture
	}
	if r.LunchBreakEnabled != nil {
		p.LunchBreakEnabled = *r.LunchBreakEnabled
	}
	if r.GlobalTimezone != nil {
		p.GlobalTimezone = *r.GlobalTimezone
	}
	if r.MaxMeetingsPerDay != nil {
		p.MaxMeetingsPerDay = *r.MaxMeetingsPerDay
	}
	if r.MaxMeetingsPerWeek != nil {
		p.MaxMeetingsPerWeek = *r.MaxMeetingsPerWeek
	}

	times := []struct {
		name string
		src  *string
		dst  *types.TimeOfDay
	}{
		{"lunchBreakStart", r.LunchBreakStart, &p.LunchBreakStart},
		{"lunchBreakEnd", r.LunchBreakEnd, &p.LunchBreakEnd},
		{"weekViewStartTime", r.WeekViewStartTime, &p.WeekViewStartTime},
		{"weekViewEndTime", r.WeekViewEndTime, &p.WeekViewEndTime},
	}
	for _, t := range times {
		if t.src == nil {
			continue
		}
		v, err := types.ParseTimeOfDay(*t.src)
		if err != nil {
			return current, fmt.Errorf("%s: %w", t.name, err)
		}
		*t.dst = v
	}

	return p, nil
}

// Response модели

// PolicyResponse ответ с политикой расписания
type PolicyResponse struct {
	MinNoticeHours     int        `json:"minNoticeHours"`
	MaxDaysInFuture    int        `json:"maxDaysInFuture"`
	LunchBreakEnabled  bool       `json:"lunchBreakEnabled"`
	LunchBreakStart    string     `json:"lunchBreakStart"`
	LunchBreakEnd      string     `json:"lunchBreakEnd"`
	WeekViewStartTime  string     `json:"weekViewStartTime"`
	WeekViewEndTime    string     `json:"weekViewEndTime"`
	GlobalTimezone     string     `json:"globalTimezone"`
	MaxMeetingsPerDay  int        `json:"maxMeetingsPerDay"`
	MaxMeetingsPerWeek int        `json:"maxMeetingsPerWeek"`
	UpdatedAt          *time.Time `json:"updatedAt,omitempty"` // nil, пока политика не сохранялась

	// Дни, в правила которых перенесены лимиты (только в ответе на сохранение)
	CapsAppliedToDays []int `json:"capsAppliedToDays,omitempty"`
}

// FromDomainPolicy конвертирует domain модель в DTO
func FromDomainPolicy(p *domain.SchedulingPolicy) *PolicyResponse {
	if p == nil {
		return nil
	}

	resp := &PolicyResponse{
		MinNoticeHours:     p.MinNoticeHours,
		MaxDaysInFuture:    p.MaxDaysInFuture,
		LunchBreakEnabled:  p.LunchBreakEnabled,
		LunchBreakStart:    p.LunchBreakStart.String(),
		LunchBreakEnd:      p.LunchBreakEnd.String(),
		WeekViewStartTime:  p.WeekViewStartTime.String(),
		WeekViewEndTime:    p.WeekViewEndTime.String(),
		GlobalTimezone:     p.GlobalTimezone,
		MaxMeetingsPerDay:  p.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: p.MaxMeetingsPerWeek,
	}
	if !p.UpdatedAt.IsZero() {
		updatedAt := p.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}

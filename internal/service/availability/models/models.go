package models

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Request модели

// UpsertRuleRequest частичное обновление правила дня недели.
// Не заданные поля остаются без изменений
type UpsertRuleRequest struct {
	StartTime          *string `json:"startTime,omitempty"` // "09:00"
	EndTime            *string `json:"endTime,omitempty"`   // "17:00", допускается "24:00"
	IsActive           *bool   `json:"isActive,omitempty"`
	BufferBefore       *int    `json:"bufferBefore,omitempty"`
	BufferAfter        *int    `json:"bufferAfter,omitempty"`
	MaxMeetingsPerDay  *int    `json:"maxMeetingsPerDay,omitempty"`
	MaxMeetingsPerWeek *int    `json:"maxMeetingsPerWeek,omitempty"`
}

// ToDomainUpdate конвертирует request в domain обновление
func (r *UpsertRuleRequest) ToDomainUpdate() (domain.AvailabilityRuleUpdate, error) {
	update := domain.AvailabilityRuleUpdate{
		IsActive:           r.IsActive,
		BufferBefore:       r.BufferBefore,
		BufferAfter:        r.BufferAfter,
		MaxMeetingsPerDay:  r.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: r.MaxMeetingsPerWeek,
	}

	if r.StartTime != nil {
		start, err := types.ParseTimeOfDay(*r.StartTime)
		if err != nil {
			return update, fmt.Errorf("startTime: %w", err)
		}
		update.StartTime = &start
	}
	if r.EndTime != nil {
		end, err := types.ParseTimeOfDay(*r.EndTime)
		if err != nil {
			return update, fmt.Errorf("endTime: %w", err)
		}
		update.EndTime = &end
	}

	return update, nil
}

// Response модели

// RuleResponse ответ с правилом доступности
type RuleResponse struct {
	DayOfWeek          int       `json:"dayOfWeek"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	IsActive           bool      `json:"isActive"`
	BufferBefore       int       `json:"bufferBefore"`
	BufferAfter        int       `json:"bufferAfter"`
	MaxMeetingsPerDay  int       `json:"maxMeetingsPerDay"`
	MaxMeetingsPerWeek int       `json:"maxMeetingsPerWeek"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// RuleListResponse ответ со списком правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// CopyWindowResponse результат копирования окна на активные дни
type CopyWindowResponse struct {
	SourceDay   int    `json:"sourceDay"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	UpdatedDays []int  `json:"updatedDays"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.AvailabilityRule) *RuleResponse {
	if r == nil {
		return nil
	}
	return &RuleResponse{
		DayOfWeek:          r.DayOfWeek,
		StartTime:          r.StartTime.String(),
		EndTime:            r.EndTime.String(),
		IsActive:           r.IsActive,
		BufferBefore:       r.BufferBefore,
		BufferAfter:        r.BufferAfter,
		MaxMeetingsPerDay:  r.MaxMeetingsPerDay,
		MaxMeetingsPerWeek: r.MaxMeetingsPerWeek,
		UpdatedAt:          r.UpdatedAt,
	}
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.AvailabilityRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}
	for _, rule := range rules {
		if r := FromDomainRule(rule); r != nil {
			resp.Rules = append(resp.Rules, *r)
		}
	}
	return resp
}

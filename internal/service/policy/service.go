package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache"
	policyRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-SchedulingService/internal/service/policy/models"
)

// Service сервис глобальной политики расписания
type Service struct {
	policyRepo      PolicyRepository
	rulesRepo       RuleCapsRepository
	cache           PolicyCache
	txManager       TransactionManager
	defaultTimezone string
	logger          Logger
}

// NewService создает новый экземпляр сервиса политики.
// defaultTimezone используется, пока политика ни разу не сохранялась
func NewService(
	policyRepo PolicyRepository,
	rulesRepo RuleCapsRepository,
	cache PolicyCache,
	txManager TransactionManager,
	defaultTimezone string,
	logger Logger,
) *Service {
	return &Service{
		policyRepo:      policyRepo,
		rulesRepo:       rulesRepo,
		cache:           cache,
		txManager:       txManager,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// Get возвращает текущую политику, значения по умолчанию если она не сохранялась
func (s *Service) Get(ctx context.Context) (*domain.SchedulingPolicy, error) {
	p, err := s.cache.GetPolicy(ctx)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("GetPolicy: cache read failed: %v", err)
	}

	p, err = s.policyRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("GetPolicy: repository error: %v", err)
			return nil, fmt.Errorf("%w: GetPolicy - repository error: %v", ErrInternal, err)
		}
		p = domain.DefaultSchedulingPolicy(s.defaultTimezone)
	}

	if err := s.cache.SetPolicy(ctx, p); err != nil {
		s.logger.Warn("GetPolicy: cache write failed: %v", err)
	}

	return p, nil
}

// GetPolicy возвращает текущую политику в виде DTO
func (s *Service) GetPolicy(ctx context.Context) (*models.PolicyResponse, error) {
	p, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	return models.FromDomainPolicy(p), nil
}

// Save проверяет и сохраняет политику. В той же транзакции лимиты встреч
// переносятся во все активные правила; день, активированный позже, сохраняет свои лимиты
func (s *Service) Save(ctx context.Context, req *models.UpdatePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("SavePolicy: updating scheduling policy")

	var (
		saved   *domain.SchedulingPolicy
		updated []int
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.policyRepo.Get(txCtx)
		if err != nil {
			if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
				s.logger.Error("SavePolicy: repository error: %v", err)
				return fmt.Errorf("%w: SavePolicy - repository error: %v", ErrInternal, err)
			}
			current = domain.DefaultSchedulingPolicy(s.defaultTimezone)
		}

		next, err := req.ApplyTo(*current)
		if err != nil {
			s.logger.Warn("SavePolicy: invalid request: %v", err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := validatePolicy(&next); err != nil {
			s.logger.Warn("SavePolicy: validation failed: %v", err)
			return err
		}

		saved, err = s.policyRepo.Save(txCtx, &next)
		if err != nil {
			s.logger.Error("SavePolicy: failed to save policy: %v", err)
			return fmt.Errorf("%w: SavePolicy - repository error: %v", ErrInternal, err)
		}

		updated, err = s.rulesRepo.ApplyCaps(txCtx, next.MaxMeetingsPerDay, next.MaxMeetingsPerWeek)
		if err != nil {
			s.logger.Error("SavePolicy: failed to apply caps to rules: %v", err)
			return fmt.Errorf("%w: SavePolicy - apply caps: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.InvalidatePolicy(ctx); err != nil {
		s.logger.Warn("SavePolicy: policy cache invalidation failed: %v", err)
	}
	if len(updated) > 0 {
		if err := s.cache.InvalidateRules(ctx, updated...); err != nil {
			s.logger.Warn("SavePolicy: rules cache invalidation failed for days=%v: %v", updated, err)
		}
	}

	s.logger.Info("SavePolicy: successfully saved policy (tz=%s, caps %d/%d applied to days=%v)",
		saved.GlobalTimezone, saved.MaxMeetingsPerDay, saved.MaxMeetingsPerWeek, updated)

	resp := models.FromDomainPolicy(saved)
	resp.CapsAppliedToDays = updated
	return resp, nil
}

// validatePolicy проверяет числовые ограничения, часовой пояс и интервалы
func validatePolicy(p *domain.SchedulingPolicy) error {
	if p.MinNoticeHours < 0 || p.MinNoticeHours > domain.MaxMinNoticeHours {
		return fmt.Errorf("%w: minNoticeHours must be 0..%d", ErrInvalidInput, domain.MaxMinNoticeHours)
	}
	if p.MaxDaysInFuture < 0 || p.MaxDaysInFuture > domain.MaxDaysInFutureLimit {
		return fmt.Errorf("%w: maxDaysInFuture must be 0..%d", ErrInvalidInput, domain.MaxDaysInFutureLimit)
	}
	if p.MaxMeetingsPerDay < 0 || p.MaxMeetingsPerDay > domain.MaxMeetingsCap {
		return fmt.Errorf("%w: maxMeetingsPerDay must be 0..%d", ErrInvalidInput, domain.MaxMeetingsCap)
	}
	if p.MaxMeetingsPerWeek < 0 || p.MaxMeetingsPerWeek > domain.MaxMeetingsCap {
		return fmt.Errorf("%w: maxMeetingsPerWeek must be 0..%d", ErrInvalidInput, domain.MaxMeetingsCap)
	}
	if p.GlobalTimezone == "" {
		return fmt.Errorf("%w: globalTimezone is required", ErrInvalidInput)
	}
	if _, err := time.LoadLocation(p.GlobalTimezone); err != nil {
		return fmt.Errorf("%w: unknown globalTimezone %q", ErrInvalidInput, p.GlobalTimezone)
	}
	if p.LunchBreakEnabled && !p.LunchBreakStart.IsBefore(p.LunchBreakEnd) {
		return fmt.Errorf("%w: lunchBreakStart %s must be before lunchBreakEnd %s",
			ErrInvalidInput, p.LunchBreakStart, p.LunchBreakEnd)
	}
	if !p.WeekViewStartTime.IsBefore(p.WeekViewEndTime) {
		return fmt.Errorf("%w: weekViewStartTime %s must be before weekViewEndTime %s",
			ErrInvalidInput, p.WeekViewStartTime, p.WeekViewEndTime)
	}
	return nil
}

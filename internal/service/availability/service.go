package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/infra/cache"
	ruleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Service сервис для работы с правилами доступности
type Service struct {
	ruleRepo  RuleRepository
	cache     RuleCache
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса правил доступности
func NewService(
	ruleRepo RuleRepository,
	cache RuleCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:  ruleRepo,
		cache:     cache,
		txManager: txManager,
		logger:    logger,
	}
}

// GetRule возвращает правило дня недели. Если правило не задано, возвращает nil, nil.
// Читает через кэш; ошибки кэша не прерывают чтение из БД
func (s *Service) GetRule(ctx context.Context, dayOfWeek int) (*domain.AvailabilityRule, error) {
	if !domain.IsValidDayOfWeek(dayOfWeek) {
		return nil, fmt.Errorf("%w: dayOfWeek must be 0..6, got %d", ErrInvalidInput, dayOfWeek)
	}

	rule, err := s.cache.GetRule(ctx, dayOfWeek)
	if err == nil {
		return rule, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("GetRule: cache read failed for day=%d: %v", dayOfWeek, err)
	}

	rule, err = s.ruleRepo.GetByDay(ctx, dayOfWeek)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			return nil, nil
		}
		s.logger.Error("GetRule: repository error for day=%d: %v", dayOfWeek, err)
		return nil, fmt.Errorf("%w: GetRule - repository error: %v", ErrInternal, err)
	}

	if err := s.cache.SetRule(ctx, rule); err != nil {
		s.logger.Warn("GetRule: cache write failed for day=%d: %v", dayOfWeek, err)
	}

	return rule, nil
}

// ListRules возвращает все заданные правила недели
func (s *Service) ListRules(ctx context.Context) (*models.RuleListResponse, error) {
	s.logger.Info("ListRules: fetching availability rules")

	rules, err := s.ruleRepo.List(ctx)
	if err != nil {
		s.logger.Error("ListRules: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListRules - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListRules: successfully fetched %d rules", len(rules))
	return models.FromDomainRuleList(rules), nil
}

// UpsertRule частично обновляет правило дня недели.
// Для дня без правила обязательно окно startTime/endTime, правило создается активным.
// Переключение isActive не затрагивает буферы и лимиты
func (s *Service) UpsertRule(ctx context.Context, dayOfWeek int, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("UpsertRule: updating rule for day=%d", dayOfWeek)

	if !domain.IsValidDayOfWeek(dayOfWeek) {
		s.logger.Warn("UpsertRule: invalid day=%d", dayOfWeek)
		return nil, fmt.Errorf("%w: dayOfWeek must be 0..6, got %d", ErrInvalidInput, dayOfWeek)
	}

	update, err := req.ToDomainUpdate()
	if err != nil {
		s.logger.Warn("UpsertRule: invalid request for day=%d: %v", dayOfWeek, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if update.IsEmpty() {
		s.logger.Warn("UpsertRule: empty update for day=%d", dayOfWeek)
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var result *domain.AvailabilityRule

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.ruleRepo.GetByDay(txCtx, dayOfWeek)
		if err != nil && !errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Error("UpsertRule: repository error for day=%d: %v", dayOfWeek, err)
			return fmt.Errorf("%w: UpsertRule - repository error: %v", ErrInternal, err)
		}

		var base domain.AvailabilityRule
		if existing != nil {
			base = *existing
		} else {
			if update.StartTime == nil || update.EndTime == nil {
				s.logger.Warn("UpsertRule: day=%d has no rule and no window given", dayOfWeek)
				return fmt.Errorf("%w: startTime and endTime are required for a new rule", ErrInvalidInput)
			}
			base = domain.AvailabilityRule{DayOfWeek: dayOfWeek, IsActive: true}
		}

		rule := update.Apply(base)
		if err := validateRule(&rule); err != nil {
			s.logger.Warn("UpsertRule: validation failed for day=%d: %v", dayOfWeek, err)
			return err
		}

		saved, err := s.ruleRepo.Upsert(txCtx, &rule)
		if err != nil {
			s.logger.Error("UpsertRule: failed to save rule for day=%d: %v", dayOfWeek, err)
			return fmt.Errorf("%w: UpsertRule - repository error: %v", ErrInternal, err)
		}

		result = saved
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, "UpsertRule", dayOfWeek)

	s.logger.Info("UpsertRule: successfully saved rule for day=%d (%s-%s, active=%t)",
		dayOfWeek, result.StartTime, result.EndTime, result.IsActive)
	return models.FromDomainRule(result), nil
}

// CopyWindowToActiveDays копирует окно startTime/endTime дня sourceDay во все остальные активные дни.
// Неактивные дни, буферы и лимиты не меняются
func (s *Service) CopyWindowToActiveDays(ctx context.Context, sourceDay int) (*models.CopyWindowResponse, error) {
	s.logger.Info("CopyWindowToActiveDays: copying window from day=%d", sourceDay)

	if !domain.IsValidDayOfWeek(sourceDay) {
		s.logger.Warn("CopyWindowToActiveDays: invalid day=%d", sourceDay)
		return nil, fmt.Errorf("%w: dayOfWeek must be 0..6, got %d", ErrInvalidInput, sourceDay)
	}

	var (
		source  *domain.AvailabilityRule
		updated []int
	)

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		rule, err := s.ruleRepo.GetByDay(txCtx, sourceDay)
		if err != nil {
			if errors.Is(err, ruleRepo.ErrRuleNotFound) {
				s.logger.Warn("CopyWindowToActiveDays: no rule for day=%d", sourceDay)
				return ErrRuleNotFound
			}
			s.logger.Error("CopyWindowToActiveDays: repository error for day=%d: %v", sourceDay, err)
			return fmt.Errorf("%w: CopyWindowToActiveDays - repository error: %v", ErrInternal, err)
		}
		if !rule.IsActive {
			s.logger.Warn("CopyWindowToActiveDays: day=%d is not active", sourceDay)
			return ErrSourceDayInactive
		}

		days, err := s.ruleRepo.CopyWindow(txCtx, sourceDay, rule.StartTime, rule.EndTime)
		if err != nil {
			s.logger.Error("CopyWindowToActiveDays: failed to copy window from day=%d: %v", sourceDay, err)
			return fmt.Errorf("%w: CopyWindowToActiveDays - repository error: %v", ErrInternal, err)
		}

		source = rule
		updated = days
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(updated) > 0 {
		s.invalidate(ctx, "CopyWindowToActiveDays", updated...)
	}

	s.logger.Info("CopyWindowToActiveDays: copied %s-%s from day=%d to days=%v",
		source.StartTime, source.EndTime, sourceDay, updated)

	return &models.CopyWindowResponse{
		SourceDay:   sourceDay,
		StartTime:   source.StartTime.String(),
		EndTime:     source.EndTime.String(),
		UpdatedDays: updated,
	}, nil
}

func (s *Service) invalidate(ctx context.Context, op string, days ...int) {
	if err := s.cache.InvalidateRules(ctx, days...); err != nil {
		s.logger.Warn("%s: cache invalidation failed for days=%v: %v", op, days, err)
	}
}

// validateRule проверяет окно, буферы и лимиты правила
func validateRule(rule *domain.AvailabilityRule) error {
	if err := rule.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}
	if err := rule.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: endTime: %v", ErrInvalidInput, err)
	}
	if rule.StartTime > types.MaxTimeOfDay {
		return fmt.Errorf("%w: startTime must be before 24:00", ErrInvalidInput)
	}
	if !rule.StartTime.IsBefore(rule.EndTime) {
		return fmt.Errorf("%w: startTime %s must be before endTime %s", ErrInvalidInput, rule.StartTime, rule.EndTime)
	}
	if rule.BufferBefore < 0 || rule.BufferBefore > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferBefore must be 0..%d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	if rule.BufferAfter < 0 || rule.BufferAfter > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferAfter must be 0..%d", ErrInvalidInput, domain.MaxBufferMinutes)
	}
	if rule.MaxMeetingsPerDay < 0 || rule.MaxMeetingsPerDay > domain.MaxMeetingsCap {
		return fmt.Errorf("%w: maxMeetingsPerDay must be 0..%d", ErrInvalidInput, domain.MaxMeetingsCap)
	}
	if rule.MaxMeetingsPerWeek < 0 || rule.MaxMeetingsPerWeek > domain.MaxMeetingsCap {
		return fmt.Errorf("%w: maxMeetingsPerWeek must be 0..%d", ErrInvalidInput, domain.MaxMeetingsCap)
	}
	return nil
}

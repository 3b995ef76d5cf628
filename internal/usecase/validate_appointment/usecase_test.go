package validate_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeRules struct {
	rules map[int]*domain.AvailabilityRule
	err   error
}

func (f *fakeRules) GetRule(_ context.Context, day int) (*domain.AvailabilityRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rules[day], nil
}

type fakePolicy struct {
	policy *domain.SchedulingPolicy
}

func (f *fakePolicy) Get(_ context.Context) (*domain.SchedulingPolicy, error) {
	return f.policy, nil
}

type fakeAppts struct {
	appts    []*domain.Appointment
	from, to types.Date
}

func (f *fakeAppts) GetActiveByDateRange(_ context.Context, from, to types.Date) ([]*domain.Appointment, error) {
	f.from, f.to = from, to
	return f.appts, nil
}

type fakeMetrics struct {
	reasons []string
}

func (f *fakeMetrics) ObserveValidation(reason string) {
	f.reasons = append(f.reasons, reason)
}

var (
	sunday = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	monday = types.NewDate(2026, 10, 19)
)

func mondayRule() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		DayOfWeek:   1,
		StartTime:   types.MustTimeOfDay("09:00"),
		EndTime:     types.MustTimeOfDay("17:00"),
		IsActive:    true,
		BufferAfter: 10,
	}
}

func existing(id int64, date types.Date, start string, duration int) *domain.Appointment {
	st := types.MustTimeOfDay(start)
	return &domain.Appointment{
		ID:              id,
		Date:            date,
		StartTime:       st,
		DurationMinutes: duration,
		EndTime:         types.TimeOfDay(st.Minutes() + duration),
		Status:          domain.StatusConfirmed,
	}
}

func newTestUseCase(appts *fakeAppts, m *fakeMetrics) *UseCase {
	uc := NewUseCase(
		&fakeRules{rules: map[int]*domain.AvailabilityRule{1: mondayRule()}},
		&fakePolicy{policy: domain.DefaultSchedulingPolicy("UTC")},
		appts,
		m,
		logger.NewNop(),
	)
	uc.timeProvider = fixedTime{now: sunday}
	return uc
}

func TestExecute_ConflictWithBuffer(t *testing.T) {
	appts := &fakeAppts{appts: []*domain.Appointment{existing(5, monday, "10:00", 30)}}
	m := &fakeMetrics{}
	uc := newTestUseCase(appts, m)

	resp, err := uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("10:35"), DurationMinutes: 25,
	})
	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, "TIME_CONFLICT", resp.Reason)
	assert.Equal(t, []int64{5}, resp.ConflictIDs)

	resp, err = uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("10:40"), DurationMinutes: 20,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)

	assert.Equal(t, []string{"TIME_CONFLICT", "OK"}, m.reasons)
	assert.Equal(t, types.NewDate(2026, 10, 18), appts.from, "week starts on Sunday")
	assert.Equal(t, types.NewDate(2026, 10, 24), appts.to)
}

func TestExecute_SelfExclusion(t *testing.T) {
	appts := &fakeAppts{appts: []*domain.Appointment{existing(5, monday, "10:00", 30)}}
	uc := newTestUseCase(appts, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("10:15"), DurationMinutes: 30, ExcludeID: ptr.Ptr(int64(5)),
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
}

func TestExecute_OtherDatesInWeekAreNotConflicts(t *testing.T) {
	tuesday := types.NewDate(2026, 10, 20)
	appts := &fakeAppts{appts: []*domain.Appointment{existing(5, tuesday, "10:00", 30)}}
	uc := newTestUseCase(appts, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("10:00"), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.True(t, resp.OK)
}

func TestExecute_DayUnavailable(t *testing.T) {
	uc := newTestUseCase(&fakeAppts{}, &fakeMetrics{})

	resp, err := uc.Execute(context.Background(), &Request{
		Date: types.NewDate(2026, 10, 20), StartTime: types.MustTimeOfDay("10:00"), DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, "DAY_UNAVAILABLE", resp.Reason)
}

func TestExecute_InvalidInput(t *testing.T) {
	m := &fakeMetrics{}
	uc := newTestUseCase(&fakeAppts{}, m)

	_, err := uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("23:30"), DurationMinutes: 60,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("10:00"), DurationMinutes: 0,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []string{"INVALID_INPUT", "INVALID_INPUT"}, m.reasons)
}

func TestExecute_RuleLoadFailure(t *testing.T) {
	uc := newTestUseCase(&fakeAppts{}, &fakeMetrics{})
	uc.ruleProvider = &fakeRules{err: errors.New("db down")}

	_, err := uc.Execute(context.Background(), &Request{
		Date: monday, StartTime: types.MustTimeOfDay("10:00"), DurationMinutes: 30,
	})
	require.ErrorIs(t, err, ErrInternal)
}

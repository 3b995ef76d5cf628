package book_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/engine"
	apptRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/txmanager"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

// fakeRepo хранилище записей в памяти
type fakeRepo struct {
	appts     map[int64]*domain.Appointment
	nextID    int64
	locked    []types.Date
	createErr error
	weekFrom  types.Date
	weekTo    types.Date
}

func newFakeRepo(appts ...*domain.Appointment) *fakeRepo {
	r := &fakeRepo{appts: make(map[int64]*domain.Appointment), nextID: 100}
	for _, a := range appts {
		r.appts[a.ID] = a
	}
	return r
}

func (r *fakeRepo) LockDate(_ context.Context, date types.Date) error {
	r.locked = append(r.locked, date)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) GetActiveByDate(_ context.Context, date types.Date) ([]*domain.Appointment, error) {
	var out []*domain.Appointment
	for _, a := range r.appts {
		if a.Date.Equal(date) && a.IsActive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetActiveByDateRange(_ context.Context, from, to types.Date) ([]*domain.Appointment, error) {
	r.weekFrom, r.weekTo = from, to
	var out []*domain.Appointment
	for _, a := range r.appts {
		if !a.Date.Before(from) && !a.Date.After(to) && a.IsActive() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRepo) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	cp := *appt
	cp.ID = r.nextID
	cp.EndTime = types.TimeOfDay(cp.EndMinutes())
	r.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) UpdateSchedule(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	if _, ok := r.appts[appt.ID]; !ok {
		return nil, apptRepo.ErrAppointmentNotFound
	}
	cp := *appt
	cp.EndTime = types.TimeOfDay(cp.EndMinutes())
	r.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

// fakeTx выполняет fn и классифицирует ошибку так же, как txmanager
type fakeTx struct {
	calls     int
	commitErr error
}

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if err := fn(ctx); err != nil {
		return txmanager.Classify(err, err)
	}
	if f.commitErr != nil {
		return txmanager.Classify(f.commitErr, f.commitErr)
	}
	return nil
}

type fakeRules struct {
	rules map[int]*domain.AvailabilityRule
}

func (f *fakeRules) GetRule(_ context.Context, day int) (*domain.AvailabilityRule, error) {
	return f.rules[day], nil
}

type fakePolicy struct {
	policy *domain.SchedulingPolicy
}

func (f *fakePolicy) Get(_ context.Context) (*domain.SchedulingPolicy, error) {
	return f.policy, nil
}

type fakePublisher struct {
	booked      []*domain.Appointment
	rescheduled []*domain.Appointment
	previous    []*domain.Appointment
	err         error
}

func (f *fakePublisher) AppointmentBooked(_ context.Context, appt *domain.Appointment, _ int64) error {
	f.booked = append(f.booked, appt)
	return f.err
}

func (f *fakePublisher) AppointmentRescheduled(_ context.Context, appt, previous *domain.Appointment, _ int64) error {
	f.rescheduled = append(f.rescheduled, appt)
	f.previous = append(f.previous, previous)
	return f.err
}

type fakeMetrics struct {
	reasons   []string
	conflicts int
}

func (f *fakeMetrics) ObserveValidation(reason string) { f.reasons = append(f.reasons, reason) }
func (f *fakeMetrics) ObserveWriteConflict()           { f.conflicts++ }

var (
	now    = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	monday = types.NewDate(2026, 10, 19)
)

func mondayRule() *domain.AvailabilityRule {
	return &domain.AvailabilityRule{
		DayOfWeek:          1,
		StartTime:          types.MustTimeOfDay("09:00"),
		EndTime:            types.MustTimeOfDay("17:00"),
		IsActive:           true,
		BufferAfter:        10,
		MaxMeetingsPerDay:  3,
		MaxMeetingsPerWeek: 0,
	}
}

func existing(id int64, date types.Date, start string, duration int, status domain.AppointmentStatus) *domain.Appointment {
	st := types.MustTimeOfDay(start)
	return &domain.Appointment{
		ID:              id,
		Date:            date,
		StartTime:       st,
		DurationMinutes: duration,
		EndTime:         types.TimeOfDay(st.Minutes() + duration),
		Status:          status,
		ClientName:      "Existing",
	}
}

type fixture struct {
	uc      *UseCase
	repo    *fakeRepo
	tx      *fakeTx
	pub     *fakePublisher
	metrics *fakeMetrics
}

func newFixture(rule *domain.AvailabilityRule, appts ...*domain.Appointment) *fixture {
	f := &fixture{
		repo:    newFakeRepo(appts...),
		tx:      &fakeTx{},
		pub:     &fakePublisher{},
		metrics: &fakeMetrics{},
	}
	f.uc = NewUseCase(
		f.repo,
		&fakeRules{rules: map[int]*domain.AvailabilityRule{1: rule}},
		&fakePolicy{policy: domain.DefaultSchedulingPolicy("UTC")},
		f.tx,
		f.pub,
		f.metrics,
		time.Second,
		logger.NewNop(),
	)
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func createReq(start string, duration int) *CreateRequest {
	return &CreateRequest{
		UserID:          7,
		Date:            monday,
		StartTime:       types.MustTimeOfDay(start),
		DurationMinutes: duration,
		ClientName:      "  Jane Doe ",
	}
}

func TestCreate_Success(t *testing.T) {
	f := newFixture(mondayRule())

	appt, err := f.uc.Create(context.Background(), createReq("10:00", 30))
	require.NoError(t, err)

	assert.Equal(t, int64(101), appt.ID)
	assert.Equal(t, domain.StatusConfirmed, appt.Status)
	assert.Equal(t, "Jane Doe", appt.ClientName)
	assert.Equal(t, "10:30", appt.EndTime.String())

	assert.Equal(t, []types.Date{monday}, f.repo.locked)
	assert.Equal(t, types.NewDate(2026, 10, 18), f.repo.weekFrom)
	assert.Equal(t, types.NewDate(2026, 10, 24), f.repo.weekTo)
	assert.Len(t, f.pub.booked, 1)
	assert.Equal(t, []string{"OK"}, f.metrics.reasons)
}

func TestCreate_PendingStatus(t *testing.T) {
	f := newFixture(mondayRule())

	req := createReq("10:00", 30)
	req.Status = domain.StatusPending

	appt, err := f.uc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, appt.Status)
}

func TestCreate_RejectedByBufferConflict(t *testing.T) {
	f := newFixture(mondayRule(), existing(5, monday, "10:00", 30, domain.StatusConfirmed))

	_, err := f.uc.Create(context.Background(), createReq("10:35", 25))
	require.Error(t, err)

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, engine.ReasonTimeConflict, rejection.Reason)
	assert.Equal(t, []int64{5}, rejection.ConflictIDs)

	assert.Empty(t, f.pub.booked)
	assert.Len(t, f.repo.appts, 1)

	appt, err := f.uc.Create(context.Background(), createReq("10:40", 20))
	require.NoError(t, err)
	assert.Equal(t, "11:00", appt.EndTime.String())
}

func TestCreate_CancelledAppointmentDoesNotBlock(t *testing.T) {
	f := newFixture(mondayRule(), existing(5, monday, "10:00", 30, domain.StatusCancelled))

	_, err := f.uc.Create(context.Background(), createReq("10:00", 30))
	require.NoError(t, err)
}

func TestCreate_DailyCapReached(t *testing.T) {
	f := newFixture(mondayRule(),
		existing(1, monday, "09:00", 30, domain.StatusConfirmed),
		existing(2, monday, "11:00", 30, domain.StatusPending),
		existing(3, monday, "13:00", 30, domain.StatusCompleted),
	)

	_, err := f.uc.Create(context.Background(), createReq("15:00", 30))

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, engine.ReasonDailyCapReached, rejection.Reason)
	assert.Equal(t, []string{"DAILY_CAP_REACHED"}, f.metrics.reasons)
}

func TestCreate_DayUnavailable(t *testing.T) {
	f := newFixture(mondayRule())

	req := createReq("10:00", 30)
	req.Date = types.NewDate(2026, 10, 20)

	_, err := f.uc.Create(context.Background(), req)

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, engine.ReasonDayUnavailable, rejection.Reason)
}

func TestCreate_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *CreateRequest)
	}{
		{"zero duration", func(r *CreateRequest) { r.DurationMinutes = 0 }},
		{"crosses midnight", func(r *CreateRequest) { r.StartTime = types.MustTimeOfDay("23:30"); r.DurationMinutes = 60 }},
		{"missing date", func(r *CreateRequest) { r.Date = types.Date{} }},
		{"blank name", func(r *CreateRequest) { r.ClientName = "   " }},
		{"terminal status", func(r *CreateRequest) { r.Status = domain.StatusCompleted }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(mondayRule())
			req := createReq("10:00", 30)
			tt.modify(req)

			_, err := f.uc.Create(context.Background(), req)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, 0, f.tx.calls)
			assert.Equal(t, []string{"INVALID_INPUT"}, f.metrics.reasons)
		})
	}
}

func TestCreate_SerializationFailureIsConflictOnWrite(t *testing.T) {
	f := newFixture(mondayRule())
	f.tx.commitErr = &pq.Error{Code: "40001"}

	_, err := f.uc.Create(context.Background(), createReq("10:00", 30))
	require.ErrorIs(t, err, ErrConflictOnWrite)
	assert.Equal(t, 1, f.metrics.conflicts)
	assert.Empty(t, f.pub.booked)
}

func TestCreate_StorageConflictInsideTransactionIsConflictOnWrite(t *testing.T) {
	f := newFixture(mondayRule())
	f.repo.createErr = txmanager.Classify(errors.New("insert failed"), &pq.Error{Code: "23P01"})

	_, err := f.uc.Create(context.Background(), createReq("10:00", 30))
	require.ErrorIs(t, err, ErrConflictOnWrite)
	assert.Equal(t, 1, f.metrics.conflicts)
}

func TestCreate_StorageFailureIsInternal(t *testing.T) {
	f := newFixture(mondayRule())
	f.repo.createErr = errors.New("connection reset")

	_, err := f.uc.Create(context.Background(), createReq("10:00", 30))
	require.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 0, f.metrics.conflicts)
}

func TestCreate_PublishFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(mondayRule())
	f.pub.err = errors.New("broker down")

	appt, err := f.uc.Create(context.Background(), createReq("10:00", 30))
	require.NoError(t, err)
	assert.NotNil(t, appt)
}

func TestReschedule_MovesAppointmentExcludingItself(t *testing.T) {
	f := newFixture(mondayRule(), existing(5, monday, "10:00", 30, domain.StatusConfirmed))

	appt, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		UserID: 7, AppointmentID: 5, Date: monday, StartTime: types.MustTimeOfDay("10:15"),
	})
	require.NoError(t, err)

	assert.Equal(t, "10:15", appt.StartTime.String())
	assert.Equal(t, 30, appt.DurationMinutes)
	assert.Equal(t, "10:45", appt.EndTime.String())

	require.Len(t, f.pub.previous, 1)
	assert.Equal(t, "10:00", f.pub.previous[0].StartTime.String())
}

func TestReschedule_ChangesDuration(t *testing.T) {
	f := newFixture(mondayRule(), existing(5, monday, "10:00", 30, domain.StatusPending))

	appt, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 5, Date: monday, StartTime: types.MustTimeOfDay("14:00"), DurationMinutes: 90,
	})
	require.NoError(t, err)
	assert.Equal(t, "15:30", appt.EndTime.String())
}

func TestReschedule_ConflictWithAnotherAppointment(t *testing.T) {
	f := newFixture(mondayRule(),
		existing(5, monday, "10:00", 30, domain.StatusConfirmed),
		existing(6, monday, "12:00", 60, domain.StatusConfirmed),
	)

	_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 5, Date: monday, StartTime: types.MustTimeOfDay("12:30"),
	})

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, engine.ReasonTimeConflict, rejection.Reason)
	assert.Equal(t, []int64{6}, rejection.ConflictIDs)
	assert.Equal(t, "10:00", f.repo.appts[5].StartTime.String())
}

func TestReschedule_NotFound(t *testing.T) {
	f := newFixture(mondayRule())

	_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 42, Date: monday, StartTime: types.MustTimeOfDay("10:00"),
	})
	require.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestReschedule_TerminalStatus(t *testing.T) {
	f := newFixture(mondayRule(), existing(5, monday, "10:00", 30, domain.StatusCancelled))

	_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 5, Date: monday, StartTime: types.MustTimeOfDay("11:00"),
	})
	require.ErrorIs(t, err, ErrCannotReschedule)
}

func TestReschedule_KeptDurationCrossesMidnight(t *testing.T) {
	f := newFixture(mondayRule(), existing(5, monday, "10:00", 120, domain.StatusConfirmed))

	_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 5, Date: monday, StartTime: types.MustTimeOfDay("23:00"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestReschedule_InvalidRequest(t *testing.T) {
	f := newFixture(mondayRule())

	_, err := f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 0, Date: monday, StartTime: types.MustTimeOfDay("10:00"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Reschedule(context.Background(), &RescheduleRequest{
		AppointmentID: 5, Date: monday, StartTime: types.MustTimeOfDay("10:00"), DurationMinutes: -1,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, f.tx.calls)
}

func TestStorageError(t *testing.T) {
	conflict := txmanager.Classify(errors.New("x"), &pq.Error{Code: "40P01"})
	assert.ErrorIs(t, storageError("op", conflict), txmanager.ErrConflictOnWrite)

	raw := &pq.Error{Code: "55P03"}
	assert.Same(t, raw, storageError("op", raw))

	assert.ErrorIs(t, storageError("op", errors.New("boom")), ErrInternal)
}

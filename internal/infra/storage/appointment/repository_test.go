package appointment

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var errStop = errors.New("stop after recording")

// recordingDB запоминает SQL и аргументы, не выполняя запрос
type recordingDB struct {
	query string
	args  []interface{}
}

func (r *recordingDB) ExecContext(_ context.Context, query string, args ...interface{}) (sql.Result, error) {
	r.query, r.args = query, args
	return driver.RowsAffected(1), nil
}

func (r *recordingDB) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	r.query, r.args = query, args
	return nil, errStop
}

func (r *recordingDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("not used")
}

type recordingTx struct {
	recordingDB
}

func (*recordingTx) Commit() error   { return nil }
func (*recordingTx) Rollback() error { return nil }

var day = types.NewDate(2026, 10, 19)

func TestGetByFilter_LocksOnlySingleDateInsideTransaction(t *testing.T) {
	tests := []struct {
		name       string
		inTx       bool
		from, to   types.Date
		wantLocked bool
	}{
		{name: "single date in tx", inTx: true, from: day, to: day, wantLocked: true},
		{name: "week range in tx", inTx: true, from: day.WeekStart(), to: day.WeekEnd(), wantLocked: false},
		{name: "single date outside tx", inTx: false, from: day, to: day, wantLocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &recordingDB{}
			tx := &recordingTx{}
			ctx := context.Background()
			if tt.inTx {
				ctx = dbmetrics.WithTx(ctx, tx)
			}

			repo := NewRepository(db)
			_, err := repo.GetActiveByDateRange(ctx, tt.from, tt.to)
			require.ErrorIs(t, err, ErrExecQuery)

			query := db.query
			if tt.inTx {
				query = tx.query
				assert.Empty(t, db.query, "query must go through the transaction")
			}
			assert.Equal(t, tt.wantLocked, strings.HasSuffix(query, "FOR UPDATE"), query)
		})
	}
}

func TestGetByFilter_ActiveStatusesByDefault(t *testing.T) {
	db := &recordingDB{}
	repo := NewRepository(db)

	_, err := repo.GetActiveByDate(context.Background(), day)
	require.Error(t, err)

	assert.Contains(t, db.query, "FROM appointments")
	assert.Contains(t, db.query, "appointment_date >= $1")
	assert.Contains(t, db.query, "appointment_date <= $2")
	assert.Contains(t, db.query, "status IN ($3,$4,$5)")
	assert.Contains(t, db.query, "ORDER BY appointment_date ASC, start_time ASC, id ASC")
	assert.Equal(t, []interface{}{day, day, "pending", "confirmed", "completed"}, db.args)
}

func TestGetByFilter_IncludeInactiveAndStatusFilter(t *testing.T) {
	db := &recordingDB{}
	repo := NewRepository(db)

	_, err := repo.GetByFilter(context.Background(), domain.AppointmentsFilter{
		StartDate:       &day,
		EndDate:         &day,
		IncludeInactive: true,
	})
	require.Error(t, err)
	assert.NotContains(t, db.query, "status IN")
	assert.NotContains(t, db.query, "status =")

	cancelled := domain.StatusCancelled
	_, err = repo.GetByFilter(context.Background(), domain.AppointmentsFilter{
		StartDate: &day,
		EndDate:   &day,
		Status:    &cancelled,
	})
	require.Error(t, err)
	assert.Contains(t, db.query, "status = $3")
}

func TestLockDate(t *testing.T) {
	repo := NewRepository(&recordingDB{})
	require.ErrorIs(t, repo.LockDate(context.Background(), day), ErrNotInTransaction)

	tx := &recordingTx{}
	ctx := dbmetrics.WithTx(context.Background(), tx)
	require.NoError(t, repo.LockDate(ctx, day))

	assert.Equal(t, "SELECT pg_advisory_xact_lock($1, $2)", tx.query)
	assert.Equal(t, []interface{}{advisoryLockNamespace, int32(20261019)}, tx.args)
}

func TestDateLockKey(t *testing.T) {
	assert.Equal(t, int32(20261019), dateLockKey(day))
	assert.Equal(t, int32(20270101), dateLockKey(types.NewDate(2026, 12, 32)))
	assert.NotEqual(t, dateLockKey(day), dateLockKey(day.AddDays(1)))
}

package availability

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

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
	return nil, errStop
}

func (r *recordingDB) QueryContext(_ context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	r.query, r.args = query, args
	return nil, errStop
}

func (r *recordingDB) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	panic("not used")
}

func TestCopyWindow_TouchesOtherActiveDaysOnly(t *testing.T) {
	db := &recordingDB{}
	repo := NewRepository(db)

	start, end := types.MustTimeOfDay("08:00"), types.MustTimeOfDay("16:00")
	_, err := repo.CopyWindow(context.Background(), 2, start, end)
	require.ErrorIs(t, err, ErrExecQuery)

	assert.Contains(t, db.query, "UPDATE availability_rules SET start_time = $1, end_time = $2, updated_at = NOW()")
	assert.Contains(t, db.query, "WHERE is_active = $3 AND day_of_week <> $4")
	assert.Contains(t, db.query, "RETURNING day_of_week")
	assert.NotContains(t, db.query, "buffer")
	assert.NotContains(t, db.query, "max_meetings")
	assert.Equal(t, []interface{}{start, end, true, 2}, db.args)
}

func TestApplyCaps_ActiveRulesOnly(t *testing.T) {
	db := &recordingDB{}
	repo := NewRepository(db)

	_, err := repo.ApplyCaps(context.Background(), 4, 12)
	require.ErrorIs(t, err, ErrExecQuery)

	assert.Contains(t, db.query, "SET max_meetings_per_day = $1, max_meetings_per_week = $2")
	assert.Contains(t, db.query, "WHERE is_active = $3")
	assert.NotContains(t, db.query, "start_time")
	assert.Equal(t, []interface{}{4, 12, true}, db.args)
}

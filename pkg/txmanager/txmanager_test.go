package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

type fakeTx struct {
	execs      []string
	committed  bool
	rolledBack bool
	commitErr  error
}

func (f *fakeTx) ExecContext(_ context.Context, query string, _ ...interface{}) (sql.Result, error) {
	f.execs = append(f.execs, query)
	return nil, nil
}

func (f *fakeTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (f *fakeTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (f *fakeTx) Commit() error {
	f.committed = true
	return f.commitErr
}

func (f *fakeTx) Rollback() error {
	f.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx       *fakeTx
	opts     *sql.TxOptions
	begins   int
	beginErr error
}

func (f *fakeBeginner) BeginTx(_ context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	f.begins++
	f.opts = opts
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return f.tx, nil
}

func TestIsConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "serialization failure", err: &pq.Error{Code: "40001"}, want: true},
		{name: "deadlock", err: &pq.Error{Code: "40P01"}, want: true},
		{name: "exclusion violation", err: &pq.Error{Code: "23P01"}, want: true},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}, want: true},
		{name: "unique violation", err: &pq.Error{Code: "23505"}, want: false},
		{name: "wrapped with %w", err: fmt.Errorf("insert: %w", &pq.Error{Code: "40001"}), want: true},
		{name: "already classified", err: fmt.Errorf("%w: x", ErrConflictOnWrite), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsConflict(tt.err))
		})
	}
}

func TestDoSerializable_CommitsOnSuccess(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{tx: tx}
	m := New(db, WithLockTimeout(3*time.Second))

	var sawTx bool
	err := m.DoSerializable(context.Background(), func(ctx context.Context) error {
		sawTx = dbmetrics.IsInTransaction(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawTx)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
	assert.Equal(t, sql.LevelSerializable, db.opts.Isolation)
	assert.Equal(t, []string{"SET LOCAL lock_timeout = '3000ms'"}, tx.execs)
}

func TestDoSerializable_RollsBackOnError(t *testing.T) {
	tx := &fakeTx{}
	m := New(&fakeBeginner{tx: tx})
	sentinel := errors.New("rejected")

	err := m.DoSerializable(context.Background(), func(context.Context) error {
		return sentinel
	})

	require.ErrorIs(t, err, sentinel)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestDoSerializable_CommitSerializationFailure(t *testing.T) {
	tx := &fakeTx{commitErr: &pq.Error{Code: "40001"}}
	m := New(&fakeBeginner{tx: tx})

	err := m.DoSerializable(context.Background(), func(context.Context) error {
		return nil
	})

	require.ErrorIs(t, err, ErrConflictOnWrite)
}

func TestDoSerializable_FnConflictIsClassified(t *testing.T) {
	tx := &fakeTx{}
	m := New(&fakeBeginner{tx: tx})

	err := m.DoSerializable(context.Background(), func(context.Context) error {
		return fmt.Errorf("lock date: %w", &pq.Error{Code: "55P03"})
	})

	require.ErrorIs(t, err, ErrConflictOnWrite)
	assert.True(t, tx.rolledBack)
}

func TestDo_NestedCallJoinsOuterTransaction(t *testing.T) {
	tx := &fakeTx{}
	db := &fakeBeginner{tx: tx}
	m := New(db)

	err := m.Do(context.Background(), func(ctx context.Context) error {
		return m.DoSerializable(ctx, func(context.Context) error { return nil })
	})

	require.NoError(t, err)
	assert.Equal(t, 1, db.begins)
	assert.Equal(t, sql.LevelReadCommitted, db.opts.Isolation)
}

func TestDo_BeginError(t *testing.T) {
	m := New(&fakeBeginner{beginErr: errors.New("connection refused")})

	err := m.Do(context.Background(), func(context.Context) error { return nil })

	require.ErrorIs(t, err, ErrBeginTx)
}

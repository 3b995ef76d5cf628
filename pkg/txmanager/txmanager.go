package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"
)

var (
	// ErrBeginTx возвращается, когда не удалось открыть транзакцию
	ErrBeginTx = errors.New("txmanager: failed to begin transaction")

	// ErrCommit возвращается, когда не удалось зафиксировать транзакцию
	ErrCommit = errors.New("txmanager: failed to commit transaction")

	// ErrConflictOnWrite возвращается, когда транзакция откатилась из-за конкурентной записи.
	// Операцию можно безопасно повторить
	ErrConflictOnWrite = errors.New("txmanager: conflict on write, retry the operation")
)

// Коды ошибок PostgreSQL, означающие конкурентную запись
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeExclusionViolation   = "23P01"
	codeLockNotAvailable     = "55P03"
)

// TxBeginner источник транзакций (*dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Option настройка менеджера транзакций
type Option func(*Manager)

// WithLockTimeout задает SET LOCAL lock_timeout для каждой транзакции
func WithLockTimeout(d time.Duration) Option {
	return func(m *Manager) {
		m.lockTimeout = d
	}
}

// Manager выполняет функции внутри транзакции, передавая её через контекст
type Manager struct {
	db          TxBeginner
	lockTimeout time.Duration
}

// New создает менеджер транзакций
func New(db TxBeginner, opts ...Option) *Manager {
	m := &Manager{db: db}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do выполняет fn в транзакции READ COMMITTED
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// DoSerializable выполняет fn в транзакции SERIALIZABLE.
// Сбой сериализации и ожидание блокировок дольше lock_timeout возвращаются как ErrConflictOnWrite
func (m *Manager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
}

func (m *Manager) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов присоединяется к внешней транзакции
	if dbmetrics.IsInTransaction(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.BeginTx(ctx, opts)
	if err != nil {
		return Classify(fmt.Errorf("%w: %v", ErrBeginTx, err), err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if m.lockTimeout > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
		if _, execErr := tx.ExecContext(ctx, stmt); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("%w: set lock_timeout: %v", ErrBeginTx, execErr)
		}
	}

	if fnErr := fn(dbmetrics.WithTx(ctx, tx)); fnErr != nil {
		_ = tx.Rollback()
		return Classify(fnErr, fnErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return Classify(fmt.Errorf("%w: %v", ErrCommit, commitErr), commitErr)
	}

	return nil
}

// IsConflict возвращает true для ошибок PostgreSQL, после которых операцию стоит повторить
func IsConflict(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConflictOnWrite) {
		return true
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch string(pqErr.Code) {
	case codeSerializationFailure, codeDeadlockDetected, codeExclusionViolation, codeLockNotAvailable:
		return true
	default:
		return false
	}
}

// Classify заменяет wrapped на ErrConflictOnWrite, если cause означает конкурентную запись
func Classify(wrapped, cause error) error {
	if errors.Is(wrapped, ErrConflictOnWrite) || !IsConflict(cause) {
		return wrapped
	}
	return fmt.Errorf("%w: %v", ErrConflictOnWrite, cause)
}

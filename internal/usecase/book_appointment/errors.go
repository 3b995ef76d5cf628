package book_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/engine"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("book_appointment: invalid input data")

	// ErrAppointmentNotFound возвращается, когда переносимая запись не найдена
	ErrAppointmentNotFound = errors.New("book_appointment: appointment not found")

	// ErrCannotReschedule возвращается, когда запись в конечном статусе
	ErrCannotReschedule = errors.New("book_appointment: appointment cannot be rescheduled in its status")

	// ErrConflictOnWrite возвращается, когда параллельная запись изменила день. Запрос можно повторить
	ErrConflictOnWrite = errors.New("book_appointment: conflict on write")

	// ErrTimeout возвращается, когда операция не уложилась в таймаут
	ErrTimeout = errors.New("book_appointment: operation timed out")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
)

// RejectionError отказ по правилам расписания с кодом причины
type RejectionError struct {
	Reason      engine.Reason
	ConflictIDs []int64
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("book_appointment: rejected: %s", e.Reason)
}

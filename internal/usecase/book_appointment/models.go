package book_appointment

import (
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// CreateRequest модель запроса на создание записи
type CreateRequest struct {
	UserID          int64                    // ID пользователя, создающего запись
	Date            types.Date               // Дата записи
	StartTime       types.TimeOfDay          // Время начала
	DurationMinutes int                      // Длительность в минутах
	Status          domain.AppointmentStatus // Начальный статус: pending или confirmed (пусто = confirmed)
	ClientName      string                   // Имя клиента
	ClientEmail     *string                  // Email клиента (опционально)
	ClientPhone     *string                  // Телефон клиента (опционально)
	Notes           *string                  // Заметки (опционально)
}

// RescheduleRequest модель запроса на перенос записи
type RescheduleRequest struct {
	UserID          int64           // ID пользователя, переносящего запись
	AppointmentID   int64           // ID записи
	Date            types.Date      // Новая дата
	StartTime       types.TimeOfDay // Новое время начала
	DurationMinutes int             // Новая длительность (0 = без изменений)
}

package get_available_slots

import "github.com/m04kA/SMC-SchedulingService/pkg/types"

// Request модель запроса на получение доступных слотов
type Request struct {
	Date            types.Date // Дата для получения слотов
	DurationMinutes int        // Длительность встречи
	StepMinutes     int        // Шаг перебора начал, 0 = равен длительности
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date            types.Date // Дата, на которую запрашивались слоты
	DurationMinutes int        // Длительность встречи
	Slots           []Slot     // Список доступных слотов
}

// Slot модель временного слота
type Slot struct {
	StartTime types.TimeOfDay // Время начала
	EndTime   types.TimeOfDay // Время окончания
}

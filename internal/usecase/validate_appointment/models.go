package validate_appointment

import "github.com/m04kA/SMC-SchedulingService/pkg/types"

// Request модель запроса на проверку записи
type Request struct {
	Date            types.Date      // Дата записи
	StartTime       types.TimeOfDay // Время начала
	DurationMinutes int             // Длительность в минутах
	ExcludeID       *int64          // ID редактируемой записи (опционально)
}

// Response модель результата проверки
type Response struct {
	OK          bool    // true, если запись допустима
	Reason      string  // Код причины отказа, пустой при OK
	ConflictIDs []int64 // ID пересекающихся записей при TIME_CONFLICT
}

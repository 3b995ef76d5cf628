package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// MinutesPerDay количество минут в сутках
	MinutesPerDay = 24 * 60

	// MaxTimeOfDay последняя минута суток, с которой может начаться интервал (23:59)
	MaxTimeOfDay TimeOfDay = MinutesPerDay - 1

	// EndOfDay правая граница суток (24:00), допустима только как конец интервала
	EndOfDay TimeOfDay = MinutesPerDay
)

var (
	// ErrInvalidTimeFormat возвращается, когда строка не соответствует формату HH:MM
	ErrInvalidTimeFormat = errors.New("types: invalid time format, expected HH:MM")

	// ErrTimeOutOfRange возвращается, когда значение выходит за пределы суток
	ErrTimeOutOfRange = errors.New("types: time of day out of range")

	// ErrDayRollover возвращается, когда сложение переходит через полночь
	ErrDayRollover = errors.New("types: time arithmetic crosses midnight")
)

// TimeOfDay время суток в минутах от полуночи (0..1440, где 1440 = 24:00 конец суток).
// Все сравнения выполняются над минутами, а не над строками
type TimeOfDay int

// NewTimeOfDay создает время суток из часов и минут. 24:00 допустимо как конец суток
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour == 24 && minute == 0 {
		return EndOfDay, nil
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d", ErrTimeOutOfRange, hour, minute)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// MustTimeOfDay как ParseTimeOfDay, но паникует при ошибке. Для констант и тестов
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseTimeOfDay парсит строку формата HH:MM (секунды HH:MM:SS отбрасываются)
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	if len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, s)
	}

	return NewTimeOfDay(hour, minute)
}

// TimeOfDayOf возвращает время суток момента t в указанной зоне
func TimeOfDayOf(t time.Time, loc *time.Location) TimeOfDay {
	if loc != nil {
		t = t.In(loc)
	}
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

// Minutes возвращает количество минут от полуночи
func (t TimeOfDay) Minutes() int {
	return int(t)
}

// Validate проверяет, что значение лежит в пределах суток (включая 24:00)
func (t TimeOfDay) Validate() error {
	if t < 0 || t > EndOfDay {
		return fmt.Errorf("%w: %d minutes", ErrTimeOutOfRange, int(t))
	}
	return nil
}

// IsEndOfDay возвращает true для 24:00
func (t TimeOfDay) IsEndOfDay() bool {
	return t == EndOfDay
}

// AddMinutes прибавляет delta минут без перехода через полночь.
// Результат 24:00 допустим: интервал может заканчиваться ровно в конце суток
func (t TimeOfDay) AddMinutes(delta int) (TimeOfDay, error) {
	result := int(t) + delta
	if result < 0 || result > int(EndOfDay) {
		return 0, fmt.Errorf("%w: %s %+d min", ErrDayRollover, t, delta)
	}
	return TimeOfDay(result), nil
}

// IsBefore возвращает true, если t строго раньше other
func (t TimeOfDay) IsBefore(other TimeOfDay) bool {
	return t < other
}

// IsAfter возвращает true, если t строго позже other
func (t TimeOfDay) IsAfter(other TimeOfDay) bool {
	return t > other
}

// String форматирует время как HH:MM
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// MarshalJSON кодирует время строкой "HH:MM"
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON декодирует время из строки "HH:MM"
func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeFormat, err)
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Value реализует driver.Valuer для колонок типа TIME
func (t TimeOfDay) Value() (driver.Value, error) {
	return t.String() + ":00", nil
}

// Scan реализует sql.Scanner для колонок типа TIME
func (t *TimeOfDay) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = 0
		return nil
	case []byte:
		return t.scanString(string(v))
	case string:
		return t.scanString(v)
	case time.Time:
		*t = TimeOfDay(v.Hour()*60 + v.Minute())
		return nil
	case int64:
		*t = TimeOfDay(v)
		return t.Validate()
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidTimeFormat, src)
	}
}

func (t *TimeOfDay) scanString(s string) error {
	// Postgres может вернуть доли секунды: 10:00:00.000000
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		s = s[:idx]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

package types

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DateFormat формат календарной даты YYYY-MM-DD
const DateFormat = "2006-01-02"

// ErrInvalidDate возвращается, когда дату не удается распарсить
var ErrInvalidDate = errors.New("types: invalid date, expected YYYY-MM-DD")

// Date календарная дата без времени и без часового пояса
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate создает дату, нормализуя переполнение (например, 32 января -> 1 февраля)
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC), time.UTC)
}

// ParseDate парсит дату в формате YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t, time.UTC), nil
}

// DateOf возвращает календарную дату момента t в зоне loc
func DateOf(t time.Time, loc *time.Location) Date {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// IsZero возвращает true для незаполненной даты
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// At возвращает момент времени: дата d, время суток t по часам зоны loc.
// Время собирается из часов и минут, а не прибавлением к полуночи, чтобы в дни перехода
// на летнее время 10:00 оставалось 10:00. 24:00 соответствует 00:00 следующего дня
func (d Date) At(t TimeOfDay, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	if t >= EndOfDay {
		next := d.AddDays(1)
		return time.Date(next.Year, next.Month, next.Day, 0, 0, 0, 0, loc)
	}
	return time.Date(d.Year, d.Month, d.Day, int(t)/60, int(t)%60, 0, 0, loc)
}

// Weekday возвращает день недели 0..6 (воскресенье = 0).
// Для календарной даты день недели не зависит от часового пояса
func (d Date) Weekday() int {
	return int(d.midnightUTC().Weekday())
}

// AddDays сдвигает дату на n дней
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnightUTC().AddDate(0, 0, n), time.UTC)
}

// WeekStart возвращает воскресенье той же недели
func (d Date) WeekStart() Date {
	return d.AddDays(-d.Weekday())
}

// WeekEnd возвращает субботу той же недели
func (d Date) WeekEnd() Date {
	return d.WeekStart().AddDays(6)
}

// Before возвращает true, если d раньше other
func (d Date) Before(other Date) bool {
	return d.midnightUTC().Before(other.midnightUTC())
}

// After возвращает true, если d позже other
func (d Date) After(other Date) bool {
	return d.midnightUTC().After(other.midnightUTC())
}

// Equal возвращает true для одинаковых дат
func (d Date) Equal(other Date) bool {
	return d == other
}

// String форматирует дату как YYYY-MM-DD
func (d Date) String() string {
	return d.midnightUTC().Format(DateFormat)
}

// Time возвращает полночь даты в UTC (для передачи в драйвер БД)
func (d Date) Time() time.Time {
	return d.midnightUTC()
}

func (d Date) midnightUTC() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MarshalJSON кодирует дату строкой "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON декодирует дату из строки "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value реализует driver.Valuer для колонок типа DATE
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan реализует sql.Scanner для колонок типа DATE
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case time.Time:
		// lib/pq возвращает DATE как полночь в UTC
		*d = Date{Year: v.Year(), Month: v.Month(), Day: v.Day()}
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("%w: unsupported scan type %T", ErrInvalidDate, src)
	}
}

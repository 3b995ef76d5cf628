package availability

import "errors"

var (
	// ErrRuleNotFound возвращается, когда правило для дня недели не задано
	ErrRuleNotFound = errors.New("availability: rule not found")

	// ErrSourceDayInactive возвращается, когда окно копируют из неактивного дня
	ErrSourceDayInactive = errors.New("availability: source day is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)

package engine

import "errors"

// ErrInvalidInput возвращается для некорректного кандидата (длительность, время, дата).
// Это ошибка вызывающей стороны, а не отказ по правилам расписания
var ErrInvalidInput = errors.New("engine: invalid input")

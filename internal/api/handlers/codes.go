package handlers

import "github.com/m04kA/SMC-SchedulingService/internal/engine"

const (
	codeInvalidInput    = engine.CodeInvalidInput
	codeConflictOnWrite = engine.CodeConflictOnWrite
)

// rejectionMessages сообщения для кодов отказа
var rejectionMessages = map[engine.Reason]string{
	engine.ReasonDayUnavailable:    "день недоступен для записи",
	engine.ReasonOutsideHours:      "время вне рабочего окна дня",
	engine.ReasonLunchBreakBlocked: "время пересекается с обеденным перерывом",
	engine.ReasonTooSoon:           "слишком поздно для записи на это время",
	engine.ReasonTooFar:            "дата слишком далеко в будущем",
	engine.ReasonDailyCapReached:   "достигнут дневной лимит встреч",
	engine.ReasonWeeklyCapReached:  "достигнут недельный лимит встреч",
	engine.ReasonTimeConflict:      "время пересекается с другой записью",
}

// RejectionMessage возвращает сообщение для кода отказа
func RejectionMessage(reason engine.Reason) string {
	if msg, ok := rejectionMessages[reason]; ok {
		return msg
	}
	return string(reason)
}

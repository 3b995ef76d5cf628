package engine

// Reason stable code describing why a candidate slot was rejected
type Reason string

const (
	ReasonDayUnavailable    Reason = "DAY_UNAVAILABLE"
	ReasonOutsideHours      Reason = "OUTSIDE_HOURS"
	ReasonLunchBreakBlocked Reason = "LUNCH_BREAK_BLOCKED"
	ReasonTooSoon           Reason = "TOO_SOON"
	ReasonTooFar            Reason = "TOO_FAR"
	ReasonDailyCapReached   Reason = "DAILY_CAP_REACHED"
	ReasonWeeklyCapReached  Reason = "WEEKLY_CAP_REACHED"
	ReasonTimeConflict      Reason = "TIME_CONFLICT"
)

// Error class codes reported next to rejection reasons
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeConflictOnWrite = "CONFLICT_ON_WRITE"
)

// Reasons lists every rejection reason in check order
var Reasons = []Reason{
	ReasonDayUnavailable,
	ReasonOutsideHours,
	ReasonLunchBreakBlocked,
	ReasonTooSoon,
	ReasonTooFar,
	ReasonDailyCapReached,
	ReasonWeeklyCapReached,
	ReasonTimeConflict,
}

func (r Reason) String() string {
	return string(r)
}

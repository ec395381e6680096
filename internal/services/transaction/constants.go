package transaction

import "time"

// Default page sizes
const (
	DefaultUserLimit  = 10
	DefaultAdminLimit = 20
)

// Stats periods
const (
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// periodStart returns the start of the window ending at now.
func periodStart(period string, now time.Time) (time.Time, bool) {
	switch period {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth, "":
		return now.AddDate(0, -1, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	}
	return time.Time{}, false
}

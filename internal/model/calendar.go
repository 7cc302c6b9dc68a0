package model

import "time"

// Calendar provides the fixed month and weekday vocabularies. Months map
// 1-12 to names explicitly; weekday names follow the Sunday = 0 convention
// used by the datasets.
type Calendar struct {
	months   [12]string
	weekdays [7]string
}

// DefaultCalendar returns the English calendar vocabulary.
func DefaultCalendar() Calendar {
	return Calendar{
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		weekdays: [7]string{
			"Sunday", "Monday", "Tuesday", "Wednesday",
			"Thursday", "Friday", "Saturday",
		},
	}
}

// NewCalendar builds a calendar from synthetic vocabularies, mostly for
// tests.
func NewCalendar(months [12]string, weekdays [7]string) Calendar {
	return Calendar{months: months, weekdays: weekdays}
}

// MonthName returns the display name for a month.
func (c Calendar) MonthName(m time.Month) string {
	return c.months[int(m)-1]
}

// WeekdayName returns the display name for a weekday (Sunday = 0).
func (c Calendar) WeekdayName(d time.Weekday) string {
	return c.weekdays[int(d)]
}

// MonthNames returns the month names in calendar order.
func (c Calendar) MonthNames() []string {
	out := make([]string, len(c.months))
	copy(out, c.months[:])
	return out
}

// WeekdayNames returns the weekday names starting from Sunday.
func (c Calendar) WeekdayNames() []string {
	out := make([]string, len(c.weekdays))
	copy(out, c.weekdays[:])
	return out
}

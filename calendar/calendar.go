// Package calendar provides business-day arithmetic for ex-coupon date
// calculations. Calendars treat Saturday and Sunday as non-business days;
// holidays are registered per calendar ID.
package calendar

import "time"

// CalendarID identifies a holiday calendar.
type CalendarID string

// Weekends is the default calendar: no holidays, weekends only.
const Weekends CalendarID = "WEEKENDS"

var holidays = map[CalendarID]map[string]struct{}{}

// RegisterHolidays adds holiday dates to a calendar. Intended for one-time
// setup before pricing; registrations accumulate.
func RegisterHolidays(cal CalendarID, ds ...time.Time) {
	set, ok := holidays[cal]
	if !ok {
		set = make(map[string]struct{}, len(ds))
		holidays[cal] = set
	}
	for _, d := range ds {
		set[d.Format("2006-01-02")] = struct{}{}
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	set, ok := holidays[cal]
	if !ok {
		return false
	}
	_, ok = set[t.Format("2006-01-02")]
	return ok
}

// IsBusinessDay checks weekends and the calendar's holiday set.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following: roll forward to the next business day,
// falling back to the previous one if that crosses a month boundary.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal CalendarID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}

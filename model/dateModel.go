package model

import "time"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Day drops the clock part of t, keeping its calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time `json:"start_date"`
	End   time.Time `json:"end_date"`
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{Start: Day(start), End: Day(end)}
}

func (r DateRange) Valid() bool { return !r.End.Before(r.Start) }

// Days counts the days in the range, both ends included.
func (r DateRange) Days() int {
	return int((r.End.Unix()-r.Start.Unix())/secondsPerDay) + 1
}

const secondsPerDay = 24 * 60 * 60

// DaysInMonth returns the number of days of t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthWindow is the one-month period starting on day: it ends as many days
// later as day's month has.
func MonthWindow(day time.Time) DateRange {
	start := Day(day)
	return DateRange{Start: start, End: start.AddDate(0, 0, DaysInMonth(start))}
}

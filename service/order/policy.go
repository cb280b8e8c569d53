package ordersvc

import (
	"context"
	"time"

	"github.com/macs03/dynamicweb/model"
)

// FreeDayPolicy decides how many days of a booking are not charged. Results
// outside [0, days in range] are clamped by the caller.
type FreeDayPolicy interface {
	EligibleFreeDays(ctx context.Context, user model.User, r model.DateRange) (int, error)
}

type NoFreeDays struct{}

func (NoFreeDays) EligibleFreeDays(context.Context, model.User, model.DateRange) (int, error) {
	return 0, nil
}

type FreeDayUsage interface {
	FreeDaysUsed(ctx context.Context, userID int64, from, to time.Time) (int, error)
}

// MonthlyAllowance grants PerMonth free days for every calendar month the
// range touches, less the free days already taken in bookings starting in
// those months.
type MonthlyAllowance struct {
	PerMonth int
	Usage    FreeDayUsage
}

func (p MonthlyAllowance) EligibleFreeDays(ctx context.Context, user model.User, r model.DateRange) (int, error) {
	if p.PerMonth <= 0 {
		return 0, nil
	}
	first := monthStart(r.Start)
	last := monthStart(r.End)
	months := (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1

	used, err := p.Usage.FreeDaysUsed(ctx, user.ID, first, last.AddDate(0, 1, 0))
	if err != nil {
		return 0, err
	}
	return min(max(months*p.PerMonth-used, 0), r.Days()), nil
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PolicyFor returns MonthlyAllowance when perMonth is positive, NoFreeDays otherwise.
func PolicyFor(perMonth int, usage FreeDayUsage) FreeDayPolicy {
	if perMonth <= 0 {
		return NoFreeDays{}
	}
	return MonthlyAllowance{PerMonth: perMonth, Usage: usage}
}

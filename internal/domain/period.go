package domain

import "time"

// chargeWindowDays is the inclusive length of a charge window.
const chargeWindowDays = 7

// DateOf truncates t to its UTC calendar date (midnight).
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthOf returns the month key for t: the first day of t's calendar
// month, UTC. Point entries are bucketed by this value.
func MonthOf(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// ChargeWindow is a double-point period for one channel. Windows are
// append-only; ranges for the same channel may overlap.
type ChargeWindow struct {
	ChannelID string
	StartDate time.Time
	EndDate   time.Time
}

// NewChargeWindow builds the canonical 7-day inclusive window starting
// at the given date.
func NewChargeWindow(channelID string, start time.Time) ChargeWindow {
	start = DateOf(start)
	return ChargeWindow{
		ChannelID: channelID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, chargeWindowDays-1),
	}
}

// Contains reports whether the window covers the given date (inclusive
// on both ends).
func (w ChargeWindow) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(w.StartDate) && !d.After(w.EndDate)
}

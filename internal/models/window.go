package models

import "time"

// DateLayout is the wire format of date-only query parameters.
const DateLayout = "2006-01-02"

// TimeWindow is the half-open range [Start, EndExclusive) a request is scoped to.
type TimeWindow struct {
	Start        time.Time `json:"start"`
	EndExclusive time.Time `json:"endExclusive"`
}

// Contains reports whether the instant t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.EndExclusive)
}

// Overlaps reports whether the half-open interval [start, end) intersects the window.
func (w TimeWindow) Overlaps(start, end time.Time) bool {
	return start.Before(w.EndExclusive) && end.After(w.Start)
}

// OverlapsOpenEnded applies Overlaps when end is known and Contains otherwise.
func (w TimeWindow) OverlapsOpenEnded(start time.Time, end *time.Time) bool {
	if end == nil {
		return w.Contains(start)
	}
	return w.Overlaps(start, *end)
}

// Days returns the number of calendar days covered by the window. It counts dates, not
// 24h periods, so DST transitions do not shorten the result.
func (w TimeWindow) Days() int {
	start := time.Date(w.Start.Year(), w.Start.Month(), w.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(w.EndExclusive.Year(), w.EndExclusive.Month(), w.EndExclusive.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}

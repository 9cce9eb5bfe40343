package engine

import "time"

// Window is a half-open time interval [Start, End). All windows are
// normalized to UTC on construction; daylight-saving transitions are not
// handled (the deployment assumes a single organizational timezone).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window, rejecting zero-duration and inverted intervals.
func NewWindow(start, end time.Time) (Window, error) {
	start, end = start.UTC(), end.UTC()
	if !end.After(start) {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start, End: end}, nil
}

// Overlaps reports whether the two windows share any instant. Touching
// endpoints do not overlap: [9:00,10:00) and [10:00,11:00) are disjoint.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && o.Start.Before(w.End)
}

// ContainsTime reports whether t falls inside the half-open interval.
func (w Window) ContainsTime(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ContainsWindow reports whether o lies entirely within w.
func (w Window) ContainsWindow(o Window) bool {
	return !o.Start.Before(w.Start) && !o.End.After(w.End)
}

func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

package service

import (
	"net/url"
	"time"

	"eventscope/internal/core/daterange"
	"eventscope/internal/services/api/groupevents/domain"
)

// WindowResolver reads the optional date range parameters
type WindowResolver struct {
	// DefaultPeriod is the lookback used when no range is given
	DefaultPeriod time.Duration
}

// Resolve returns the requested window, or [now-DefaultPeriod, now) with explicit false
func (w WindowResolver) Resolve(vals url.Values, now time.Time) (domain.Window, bool, error) {
	r, explicit, err := daterange.Parse(vals, true, now)
	if err != nil {
		return domain.Window{}, false, err
	}
	if !explicit {
		period := w.DefaultPeriod
		if period <= 0 {
			period = daterange.DefaultPeriod
		}
		return domain.DefaultWindow(now, period), false, nil
	}
	return domain.Window{Start: r.Start.UTC(), End: r.End.UTC()}, true, nil
}

// Package daterange parses the time window query parameters shared by event endpoints
package daterange

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	perr "eventscope/internal/platform/errors"
)

// DefaultPeriod is used when the window is required but absent
const DefaultPeriod = 90 * 24 * time.Hour

var periodRe = regexp.MustCompile(`^(\d+)([smhdw]?)$`)

// accepted absolute formats, tried in order, naive ones are read as UTC
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Range is a half open [Start, End) interval
type Range struct {
	Start time.Time
	End   time.Time
}

// Parse reads statsPeriod, statsPeriodStart/statsPeriodEnd or start/end from vals
// explicit is false when nothing was supplied and optional is set
func Parse(vals url.Values, optional bool, now time.Time) (r Range, explicit bool, err error) {
	now = now.UTC()

	period := strings.TrimSpace(vals.Get("statsPeriod"))
	pStart := strings.TrimSpace(vals.Get("statsPeriodStart"))
	pEnd := strings.TrimSpace(vals.Get("statsPeriodEnd"))
	rawStart := strings.TrimSpace(vals.Get("start"))
	rawEnd := strings.TrimSpace(vals.Get("end"))

	switch {
	case period != "":
		d, err := ParsePeriod(period)
		if err != nil {
			return Range{}, false, err
		}
		r = Range{Start: now.Add(-d), End: now}

	case pStart != "" || pEnd != "":
		if pStart == "" {
			return Range{}, false, perr.InvalidParamsf("statsPeriodStart and statsPeriodEnd are both required")
		}
		ds, err := ParsePeriod(pStart)
		if err != nil {
			return Range{}, false, err
		}
		var de time.Duration
		if pEnd != "" {
			if de, err = ParsePeriod(pEnd); err != nil {
				return Range{}, false, err
			}
		}
		r = Range{Start: now.Add(-ds), End: now.Add(-de)}

	case rawStart != "" || rawEnd != "":
		if rawStart == "" || rawEnd == "" {
			return Range{}, false, perr.InvalidParamsf("start and end are both required")
		}
		s, err := ParseTime(rawStart)
		if err != nil {
			return Range{}, false, err
		}
		e, err := ParseTime(rawEnd)
		if err != nil {
			return Range{}, false, err
		}
		r = Range{Start: s, End: e}

	default:
		if optional {
			return Range{}, false, nil
		}
		return Range{Start: now.Add(-DefaultPeriod), End: now}, false, nil
	}

	if r.Start.After(r.End) {
		return Range{}, false, perr.InvalidParamsf("start must be before end")
	}
	return r, true, nil
}

// ParsePeriod reads "90d", "24h", "3600" (seconds) and friends
func ParsePeriod(s string) (time.Duration, error) {
	m := periodRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, perr.InvalidParamsf("Invalid statsPeriod")
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, perr.InvalidParamsf("Invalid statsPeriod")
	}
	unit := time.Second
	switch m[2] {
	case "m":
		unit = time.Minute
	case "h":
		unit = time.Hour
	case "d":
		unit = 24 * time.Hour
	case "w":
		unit = 7 * 24 * time.Hour
	}
	// guard against overflow on absurd inputs
	if n > int64((1<<62)/unit) {
		return 0, perr.InvalidParamsf("Invalid statsPeriod")
	}
	return time.Duration(n) * unit, nil
}

// ParseTime reads an absolute timestamp in one of the accepted layouts
func ParseTime(s string) (time.Time, error) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, perr.InvalidParamsf("invalid date format")
}

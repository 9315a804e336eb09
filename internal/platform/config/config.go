// Package config reads typed settings from prefixed environment variables
//
// Must* panics when a value is missing or malformed and is meant for startup.
// May* falls back to the default and logs a warning when a value is malformed.
package config

import (
	"strconv"
	"strings"
	"time"

	"eventscope/internal/platform/config/raw"
	"eventscope/internal/platform/logger"
)

// Conf is a prefixed view, e.g. New().Prefix("CORE_API_")
type Conf struct{ env raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{env: raw.New()} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{env: c.env.Prefix(p)} }

// MustString panics when key is unset or blank
func (c Conf) MustString(key string) string {
	v, ok := c.env.Lookup(key)
	if !ok {
		logger.Get().Panic().Str("key", c.env.Key(key)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(key, def string) string { return c.env.Get(key, def) }

// MayInt returns the value or def
func (c Conf) MayInt(key string, def int) int { return may(c, key, def, strconv.Atoi) }

// MayFloat64 returns the value or def
func (c Conf) MayFloat64(key string, def float64) float64 {
	return may(c, key, def, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
}

// MayBool returns the value or def; strconv.ParseBool spellings only
func (c Conf) MayBool(key string, def bool) bool { return may(c, key, def, strconv.ParseBool) }

// MayDuration returns the value or def; values look like 250ms or 2h
func (c Conf) MayDuration(key string, def time.Duration) time.Duration {
	return may(c, key, def, time.ParseDuration)
}

// MayCSV splits a comma separated value, dropping blanks
func (c Conf) MayCSV(key string, def []string) []string {
	v, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func may[T any](c Conf, key string, def T, parse func(string) (T, error)) T {
	s, ok := c.env.Lookup(key)
	if !ok {
		return def
	}
	v, err := parse(s)
	if err != nil {
		logger.Get().Warn().Err(err).
			Str("key", c.env.Key(key)).
			Str("value", s).
			Interface("default", def).
			Msg("invalid env value; using default")
		return def
	}
	return v
}

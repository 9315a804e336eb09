package service

import "eventscope/internal/services/api/groupevents/domain"

// DefaultReferrer tags queries for categories without an explicit referrer
const DefaultReferrer = "api.group-events"

var referrers = map[domain.Category]string{
	domain.CategoryError:       "api.group-events.error",
	domain.CategoryPerformance: "api.group-events.performance",
	domain.CategoryFeedback:    "api.group-events.feedback",
	domain.CategoryCron:        "api.group-events.cron",
	domain.CategoryUptime:      "api.group-events.uptime",
}

// Referrer names the event store queries issued for an issue category
func Referrer(c domain.Category) string {
	if r, ok := referrers[c]; ok {
		return r
	}
	return DefaultReferrer
}

// DirectHitReferrer tags the single lookup of the direct-hit path
func DirectHitReferrer(referrer string) string { return referrer + ".direct-hit" }

// DetailReferrer tags single event reads
func DetailReferrer(referrer string) string { return referrer + ".detail" }

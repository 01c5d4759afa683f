package ports

import "time"

// Outcome labels reported to SyncMetrics.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeInvalid  = "invalid"
)

// SyncMetrics observes the synchronization pipeline.
type SyncMetrics interface {
	// RatingLookupAttempt records one upstream request for a candidate.
	RatingLookupAttempt(outcome string)

	// RoleCacheLookup records a cache hit or miss.
	RoleCacheLookup(hit bool)

	// RoleCreated records a role created by the bot.
	RoleCreated()

	// SyncCompleted records the end of a sync.
	SyncCompleted(outcome string, duration time.Duration)
}

// NopSyncMetrics discards all observations.
type NopSyncMetrics struct{}

func (NopSyncMetrics) RatingLookupAttempt(string)          {}
func (NopSyncMetrics) RoleCacheLookup(bool)                {}
func (NopSyncMetrics) RoleCreated()                        {}
func (NopSyncMetrics) SyncCompleted(string, time.Duration) {}

package usecases

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/sglre6355/elobot/internal/modules/rating_sync/application/ports"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// Retry defaults for rating lookups.
const (
	DefaultLookupAttempts  = 3
	DefaultLookupBaseDelay = time.Second
)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// RatingResolverConfig controls validation and retry behavior.
type RatingResolverConfig struct {
	// Attempts is the number of requests made per candidate.
	Attempts int
	// BaseDelay is multiplied by the attempt number to get the backoff.
	// Zero or negative selects DefaultLookupBaseDelay.
	BaseDelay           time.Duration
	MaxIdentifierLength int
}

// RatingResolver resolves a user-supplied identifier to a current rating.
type RatingResolver struct {
	source  ports.RatingSource
	config  RatingResolverConfig
	sleep   Sleeper
	metrics ports.SyncMetrics
}

// RatingResolverOption configures a RatingResolver.
type RatingResolverOption func(*RatingResolver)

// WithSleeper replaces the backoff sleeper.
func WithSleeper(sleep Sleeper) RatingResolverOption {
	return func(r *RatingResolver) {
		r.sleep = sleep
	}
}

// WithResolverMetrics sets the metrics observer.
func WithResolverMetrics(m ports.SyncMetrics) RatingResolverOption {
	return func(r *RatingResolver) {
		r.metrics = m
	}
}

// NewRatingResolver creates a new RatingResolver.
func NewRatingResolver(
	source ports.RatingSource,
	config RatingResolverConfig,
	opts ...RatingResolverOption,
) *RatingResolver {
	if config.Attempts <= 0 {
		config.Attempts = DefaultLookupAttempts
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = DefaultLookupBaseDelay
	}
	if config.MaxIdentifierLength <= 0 {
		config.MaxIdentifierLength = domain.DefaultMaxIdentifierLength
	}

	r := &RatingResolver{
		source:  source,
		config:  config,
		sleep:   sleepContext,
		metrics: ports.NopSyncMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the rating of the first identifier variation that has one.
// A variation with an unusable rating is skipped; if nothing resolves, the
// first such InvalidDataError is returned in place of NotFoundError.
func (r *RatingResolver) Resolve(ctx context.Context, identifier string) (domain.Rating, error) {
	if err := domain.ValidateIdentifier(identifier, r.config.MaxIdentifierLength); err != nil {
		return 0, &ValidationError{Identifier: identifier, Err: err}
	}

	candidates := domain.IdentifierCandidates(identifier)
	slog.Info("resolving rating", "identifier", identifier, "candidates", candidates)

	var (
		lastErr error
		invalid *InvalidDataError
	)
	for _, candidate := range candidates {
		rating, found, err := r.fetchWithRetry(ctx, identifier, candidate)
		if err != nil {
			var candidateInvalid *InvalidDataError
			if errors.As(err, &candidateInvalid) {
				slog.Warn("skipped candidate with invalid rating",
					"candidate", candidate, "reason", candidateInvalid.Reason)
				if invalid == nil {
					invalid = candidateInvalid
				}
				continue
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return 0, ctxErr
			}
			slog.Debug("gave up on candidate", "candidate", candidate, "error", err)
			lastErr = err
			continue
		}
		if found {
			slog.Info("resolved rating", "identifier", identifier, "candidate", candidate,
				"rating", rating)
			return rating, nil
		}
	}

	if invalid != nil {
		return 0, invalid
	}
	return 0, &NotFoundError{
		Identifier: identifier,
		Candidates: candidates,
		LastErr:    lastErr,
	}
}

// fetchWithRetry looks up a single candidate, retrying transport failures with
// linearly increasing backoff. found is false when the profile has no rating.
func (r *RatingResolver) fetchWithRetry(
	ctx context.Context,
	identifier, candidate string,
) (rating domain.Rating, found bool, err error) {
	var lastErr error

	for attempt := 1; attempt <= r.config.Attempts; attempt++ {
		lookup, err := r.source.FetchRating(ctx, candidate)
		if err == nil {
			if !lookup.Found {
				r.metrics.RatingLookupAttempt(ports.OutcomeNotFound)
				slog.Warn("found no rating for candidate", "candidate", candidate,
					"attempt", attempt)
				return 0, false, nil
			}

			rating, reason := toRating(lookup.Rating)
			if reason != "" {
				r.metrics.RatingLookupAttempt(ports.OutcomeInvalid)
				return 0, false, &InvalidDataError{
					Identifier: identifier,
					Candidate:  candidate,
					Reason:     reason,
				}
			}

			r.metrics.RatingLookupAttempt(ports.OutcomeSuccess)
			return rating, true, nil
		}

		if errors.Is(err, ports.ErrMalformedRating) {
			r.metrics.RatingLookupAttempt(ports.OutcomeInvalid)
			return 0, false, &InvalidDataError{
				Identifier: identifier,
				Candidate:  candidate,
				Reason:     err.Error(),
			}
		}
		if ctx.Err() != nil {
			return 0, false, ctx.Err()
		}

		r.metrics.RatingLookupAttempt(ports.OutcomeError)
		lastErr = err
		slog.Warn("failed rating lookup attempt",
			"candidate", candidate,
			"attempt", attempt,
			"max_attempts", r.config.Attempts,
			"status", statusCode(err),
			"error", err,
		)

		if attempt < r.config.Attempts {
			if err := r.sleep(ctx, time.Duration(attempt)*r.config.BaseDelay); err != nil {
				return 0, false, err
			}
		}
	}

	return 0, false, &TransportError{
		Candidate:  candidate,
		Attempts:   r.config.Attempts,
		StatusCode: statusCode(lastErr),
		Err:        lastErr,
	}
}

// toRating converts an upstream value, returning a reason when it is unusable.
func toRating(v float64) (domain.Rating, string) {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return 0, "rating is not a finite number"
	case v < 0:
		return 0, "rating is negative"
	case v != math.Trunc(v):
		return 0, "rating is not an integer"
	case v > math.MaxInt32:
		return 0, "rating is out of range"
	}
	return domain.Rating(v), ""
}

func statusCode(err error) int {
	var upstream *ports.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.StatusCode
	}
	return 0
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

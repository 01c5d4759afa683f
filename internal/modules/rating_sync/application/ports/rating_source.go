package ports

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedRating is wrapped by RatingSource implementations when the
// rating field is present but not a number.
var ErrMalformedRating = errors.New("malformed rating field")

// RatingLookup is the outcome of a single profile lookup.
type RatingLookup struct {
	// Found is false when the profile does not exist or has no stats for the game.
	Found  bool
	Rating float64
}

// UpstreamError reports a transport or HTTP failure talking to the stats service.
type UpstreamError struct {
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream returned status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream request failed: %v", e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// RatingSource defines the interface for looking up a player's rating.
type RatingSource interface {
	// FetchRating looks up the exact nickname. A missing profile is reported
	// with Found=false and a nil error; transport failures return *UpstreamError.
	FetchRating(ctx context.Context, nickname string) (RatingLookup, error)
}

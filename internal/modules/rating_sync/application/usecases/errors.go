package usecases

import (
	"errors"
	"fmt"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/elobot/internal/modules/rating_sync/domain"
)

// Error kinds for the rating sync module. Every typed error below unwraps to
// one of these so callers can branch with errors.Is. A NotFoundError whose
// candidates failed in transport also matches ErrTransport.
var (
	// ErrValidation is returned when an identifier is rejected before any lookup.
	ErrValidation = errors.New("invalid identifier")

	// ErrNotFound is returned when no identifier variation yields a rating.
	ErrNotFound = errors.New("no profile found")

	// ErrInvalidData is returned when the stats service reports an unusable rating.
	ErrInvalidData = errors.New("invalid rating data")

	// ErrTransport is returned when the stats service cannot be reached.
	ErrTransport = errors.New("stats service request failed")

	// ErrRoleProvision is returned when a role cannot be listed or created.
	ErrRoleProvision = errors.New("failed to provision role")

	// ErrMembershipUpdate is returned when the member's roles cannot be read or changed.
	ErrMembershipUpdate = errors.New("failed to update member roles")
)

// ValidationError reports a malformed identifier.
type ValidationError struct {
	Identifier string
	Err        error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %q: %v", ErrValidation, e.Identifier, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

// NotFoundError reports that every candidate was exhausted.
type NotFoundError struct {
	Identifier string
	Candidates []string
	// LastErr is the final transport failure, if any candidate failed that way.
	LastErr error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%v for %q (tried %s)",
		ErrNotFound, e.Identifier, strings.Join(e.Candidates, ", "))
	if e.LastErr != nil {
		msg += fmt.Sprintf(": last error: %v", e.LastErr)
	}
	return msg
}

func (e *NotFoundError) Unwrap() []error {
	if e.LastErr == nil {
		return []error{ErrNotFound}
	}
	return []error{ErrNotFound, e.LastErr}
}

// InvalidDataError reports a rating the stats service returned in an unusable shape.
type InvalidDataError struct {
	Identifier string
	Candidate  string
	Reason     string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("%v for %q (candidate %q): %s",
		ErrInvalidData, e.Identifier, e.Candidate, e.Reason)
}

func (e *InvalidDataError) Unwrap() error {
	return ErrInvalidData
}

// TransportError reports that a candidate failed on every attempt.
type TransportError struct {
	Candidate  string
	Attempts   int
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v for %q after %d attempts (status %d): %v",
			ErrTransport, e.Candidate, e.Attempts, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v for %q after %d attempts: %v",
		ErrTransport, e.Candidate, e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}

// RoleProvisionError reports a role directory failure.
type RoleProvisionError struct {
	GuildID  snowflake.ID
	RoleName string
	Err      error
}

func (e *RoleProvisionError) Error() string {
	return fmt.Sprintf("%v %q in guild %d: %v", ErrRoleProvision, e.RoleName, e.GuildID, e.Err)
}

func (e *RoleProvisionError) Unwrap() []error {
	return []error{ErrRoleProvision, e.Err}
}

// SyncError reports a failure that happened after the rating was resolved.
// Rating and Tier are set so the caller can report partial progress.
type SyncError struct {
	Rating domain.Rating
	Tier   domain.Tier
	Err    error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("failed to sync roles for rating %d (tier %d): %v", e.Rating, e.Tier, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

package domain

import (
	"errors"
	"regexp"
	"strings"
)

// Rating is a non-negative skill score reported by the stats service.
type Rating int

// DefaultMaxIdentifierLength bounds identifiers accepted from users.
const DefaultMaxIdentifierLength = 50

// Identifier validation errors.
var (
	ErrEmptyIdentifier    = errors.New("identifier is required")
	ErrIdentifierTooLong  = errors.New("identifier is too long")
	ErrIdentifierCharset  = errors.New("identifier contains invalid characters")
	identifierCharsetExpr = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// ValidateIdentifier checks the shape of a user-supplied profile name.
func ValidateIdentifier(identifier string, maxLen int) error {
	if identifier == "" {
		return ErrEmptyIdentifier
	}
	if maxLen > 0 && len(identifier) > maxLen {
		return ErrIdentifierTooLong
	}
	if !identifierCharsetExpr.MatchString(identifier) {
		return ErrIdentifierCharset
	}
	return nil
}

// IdentifierCandidates returns the case variations to try, in lookup order:
// unchanged, lower-case, upper-case, title-case. Duplicates are removed.
func IdentifierCandidates(identifier string) []string {
	if identifier == "" {
		return nil
	}

	variants := []string{
		identifier,
		strings.ToLower(identifier),
		strings.ToUpper(identifier),
		strings.ToUpper(identifier[:1]) + strings.ToLower(identifier[1:]),
	}

	candidates := make([]string, 0, len(variants))
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		candidates = append(candidates, v)
	}
	return candidates
}

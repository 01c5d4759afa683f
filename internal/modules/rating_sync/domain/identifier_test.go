package domain

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		maxLen     int
		wantErr    error
	}{
		{"valid simple", "PlayerOne", 50, nil},
		{"valid with underscore and hyphen", "s1mple_-x", 50, nil},
		{"empty", "", 50, ErrEmptyIdentifier},
		{"too long", strings.Repeat("a", 51), 50, ErrIdentifierTooLong},
		{"exactly max length", strings.Repeat("a", 50), 50, nil},
		{"space", "player one", 50, ErrIdentifierCharset},
		{"url characters", "player/../x", 50, ErrIdentifierCharset},
		{"query injection", "a&game=csgo", 50, ErrIdentifierCharset},
		{"non ascii", "plåyer", 50, ErrIdentifierCharset},
		{"no limit", strings.Repeat("b", 200), 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.identifier, tt.maxLen)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestIdentifierCandidates(t *testing.T) {
	tests := []struct {
		identifier string
		want       []string
	}{
		{"PlayerOne", []string{"PlayerOne", "playerone", "PLAYERONE", "Playerone"}},
		{"abc", []string{"abc", "ABC", "Abc"}},
		{"ABC", []string{"ABC", "abc", "Abc"}},
		{"Abc", []string{"Abc", "abc", "ABC"}},
		{"123", []string{"123"}},
		{"x", []string{"x", "X"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			got := IdentifierCandidates(tt.identifier)
			if !slices.Equal(got, tt.want) {
				t.Errorf("IdentifierCandidates(%q) = %v, want %v", tt.identifier, got, tt.want)
			}
		})
	}
}

package query

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	MinLength = 2
	MaxLength = 100
)

// DefaultDenylist is used when a Validator is created without terms.
var DefaultDenylist = []string{"xxx", "porn", "sex", "nude"}

type Kind int

const (
	Empty Kind = iota + 1
	TooShort
	TooLong
	Disallowed
	InvalidOption
)

func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case TooShort:
		return "too_short"
	case TooLong:
		return "too_long"
	case Disallowed:
		return "disallowed"
	case InvalidOption:
		return "invalid_option"
	}
	return "unknown"
}

// ValidationError is returned for queries and options rejected before any
// network call is made.
type ValidationError struct {
	Kind  Kind
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case Empty:
		return "search query must not be empty"
	case TooShort:
		return fmt.Sprintf("search query must be at least %d characters", MinLength)
	case TooLong:
		return fmt.Sprintf("search query must be at most %d characters", MaxLength)
	case Disallowed:
		return "search query is not allowed"
	case InvalidOption:
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return "invalid search query"
}

// Validator checks raw search queries. It holds no mutable state and is
// safe for concurrent use.
type Validator struct {
	denylist []string
}

// NewValidator returns a validator rejecting queries that contain any of the
// given terms. With no terms, DefaultDenylist applies.
func NewValidator(denylist ...string) *Validator {
	if len(denylist) == 0 {
		denylist = DefaultDenylist
	}
	terms := make([]string, 0, len(denylist))
	for _, t := range denylist {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			terms = append(terms, t)
		}
	}
	return &Validator{denylist: terms}
}

// Validate returns the trimmed query, or a *ValidationError.
func (v *Validator) Validate(q string) (string, error) {
	q = strings.TrimSpace(q)
	n := utf8.RuneCountInString(q)

	switch {
	case n == 0:
		return "", &ValidationError{Kind: Empty, Value: q}
	case n < MinLength:
		return "", &ValidationError{Kind: TooShort, Value: q}
	case n > MaxLength:
		return "", &ValidationError{Kind: TooLong, Value: q}
	}

	lower := strings.ToLower(q)
	for _, term := range v.denylist {
		if strings.Contains(lower, term) {
			return "", &ValidationError{Kind: Disallowed, Value: q}
		}
	}
	return q, nil
}

package id

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// shortLen is the number of characters shown for an ID in tables.
const shortLen = 8

var (
	// ErrNotFound means no ID matched.
	ErrNotFound = errors.New("not found")
	// ErrAmbiguous means a prefix matched more than one ID.
	ErrAmbiguous = errors.New("ambiguous id")
)

// New returns a fresh record ID.
func New() string {
	return uuid.NewString()
}

// Short returns the leading characters of an ID for display.
// "0b7e4f2a-93c1-4c55-..." -> "0b7e4f2a"
func Short(id string) string {
	if len(id) <= shortLen {
		return id
	}
	return id[:shortLen]
}

// Resolve returns the ID in ids equal to ref, or the only one that starts
// with ref.
func Resolve(ids []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty id: %w", ErrNotFound)
	}

	var match string
	n := 0
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			match = id
			n++
		}
	}

	switch n {
	case 0:
		return "", fmt.Errorf("id %q: %w", ref, ErrNotFound)
	case 1:
		return match, nil
	default:
		return "", fmt.Errorf("id %q matches %d records: %w", ref, n, ErrAmbiguous)
	}
}

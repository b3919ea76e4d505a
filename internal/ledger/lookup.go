package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/khata/internal/model"
)

// ErrAmbiguous is returned when an id prefix matches more than one entity.
var ErrAmbiguous = errors.New("ledger: ambiguous id")

// Kind names an entity collection for id lookup.
type Kind string

const (
	KindTransaction Kind = "transaction"
	KindGoal        Kind = "goal"
	KindLiability   Kind = "liability"
	KindPreset      Kind = "preset"
)

// IDs returns the ids of every entity of kind in s, in stored order.
func IDs(s model.Snapshot, kind Kind) []string {
	var ids []string
	switch kind {
	case KindTransaction:
		for _, t := range s.Transactions {
			ids = append(ids, t.ID)
		}
	case KindGoal:
		for _, g := range s.Goals {
			ids = append(ids, g.ID)
		}
	case KindLiability:
		for _, l := range s.Liabilities {
			ids = append(ids, l.ID)
		}
	case KindPreset:
		for _, p := range s.Presets {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Resolve expands a unique id prefix to the full id. An exact match always
// wins over prefix matches.
func Resolve(s model.Snapshot, kind Kind, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%s id: %w", kind, ErrNotFound)
	}

	var matches []string
	for _, id := range IDs(s, kind) {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q matches %d entries: %w", kind, prefix, len(matches), ErrAmbiguous)
	}
}

// ShortID returns the first eight characters of id for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

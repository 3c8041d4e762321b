// Package catalog manages the canonical-name universe the resolver matches
// utterances against: one ordered list of canonical identifier strings per
// entity category, loaded from the remote catalog at startup and held for
// the process lifetime.
package catalog

import (
	"context"
	"errors"
)

// Category identifies one canonical-name universe.
type Category string

const (
	// CategorySpecies lists canonical species names.
	CategorySpecies Category = "pokemon-species"

	// CategoryType lists canonical elemental type names.
	CategoryType Category = "type"

	// CategoryAbility lists canonical ability names.
	CategoryAbility Category = "ability"

	// CategoryVersion lists canonical game version names.
	CategoryVersion Category = "version"
)

// AllCategories returns every known category in load order.
func AllCategories() []Category {
	return []Category{CategorySpecies, CategoryType, CategoryAbility, CategoryVersion}
}

// IsValid reports whether c is a recognised category.
func (c Category) IsValid() bool {
	switch c {
	case CategorySpecies, CategoryType, CategoryAbility, CategoryVersion:
		return true
	}
	return false
}

// ErrUnknownCategory is returned for categories outside the closed set.
var ErrUnknownCategory = errors.New("catalog: unknown category")

// Store holds the canonical-name lists. Implementations must preserve the
// order names were put in (the resolver's tie-breaking is order-sensitive)
// and must be safe for concurrent use.
type Store interface {
	// Put replaces the name list for a category.
	Put(ctx context.Context, category Category, names []string) error

	// Names returns the name list for a category in insertion order. An
	// unloaded category yields an empty list, not an error.
	Names(ctx context.Context, category Category) ([]string, error)

	// Loaded reports whether every known category holds at least one name.
	// Used by readiness checks.
	Loaded(ctx context.Context) (bool, error)
}

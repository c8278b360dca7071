package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a catalog entity lookup by id fails.
// Handlers map it to a 404; it is never silently substituted.
var ErrNotFound = errors.New("catalog: entity not found")

// ErrEmptyProductSet is returned when filtering or substitution leaves
// zero products before an operation that needs at least one (unit
// lookup, series scope). It indicates bad input or a data gap.
var ErrEmptyProductSet = errors.New("catalog: empty product set")

// NotFoundError wraps ErrNotFound with the entity kind and id that missed
type NotFoundError struct {
	Kind string
	ID   uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("catalog: %s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func notFound(kind string, id uint) error {
	return &NotFoundError{Kind: kind, ID: id}
}

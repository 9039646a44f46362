package animate

import (
	"time"

	"github.com/pkg/errors"
)

// ErrEmptyRotation is returned when advancing or reading a Rotation with no items.
var ErrEmptyRotation = errors.New("empty rotation")

// A Rotation cycles through an ordered list of items, one step per period. The
// period is advisory: the owner calls Tick once per elapsed period.
type Rotation[T any] struct {
	items  []T
	index  int
	period time.Duration
}

// NewRotation creates a Rotation showing the first item.
func NewRotation[T any](items []T, period time.Duration) *Rotation[T] {
	r := new(Rotation[T])
	r.items = append([]T(nil), items...)
	r.index = 0
	r.period = period
	return r
}

// Tick advances to the next item, wrapping after the last.
func (r *Rotation[T]) Tick() error {
	if len(r.items) == 0 {
		return ErrEmptyRotation
	}

	r.index = (r.index + 1) % len(r.items)
	return nil
}

// Current returns the index of the visible item.
func (r *Rotation[T]) Current() (int, error) {
	if len(r.items) == 0 {
		return 0, ErrEmptyRotation
	}

	return r.index, nil
}

// Item returns the visible item.
func (r *Rotation[T]) Item() (T, error) {
	var zero T
	i, err := r.Current()
	if err != nil {
		return zero, err
	}

	return r.items[i], nil
}

// SetItems replaces the item list. An index past the end of the new list is
// clamped to the last item.
func (r *Rotation[T]) SetItems(items []T) {
	r.items = append(r.items[:0:0], items...)
	if r.index >= len(r.items) {
		r.index = len(r.items) - 1
	}
	if r.index < 0 {
		r.index = 0
	}
}

// Items returns a copy of the item list.
func (r *Rotation[T]) Items() []T {
	return append([]T(nil), r.items...)
}

// Len returns the number of items.
func (r *Rotation[T]) Len() int {
	return len(r.items)
}

// Period returns the interval between ticks.
func (r *Rotation[T]) Period() time.Duration {
	return r.period
}

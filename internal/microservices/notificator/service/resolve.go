package service

import (
	"errors"

	"restaurant-ops/internal/domain"
)

// Resolved is the outcome of a side lookup made while composing a
// notification. A failed lookup renders as placeholder text.
type Resolved[T any] struct {
	Value T
	Err   error
}

func Found[T any](v T) Resolved[T]         { return Resolved[T]{Value: v} }
func Missing[T any](err error) Resolved[T] { return Resolved[T]{Err: err} }

func resolveWith[T any](v T, err error) Resolved[T] {
	if err != nil {
		return Missing[T](err)
	}
	return Found(v)
}

// Render formats the value, or returns placeholder when the lookup failed or
// the formatted value is empty.
func (r Resolved[T]) Render(format func(T) string, placeholder string) string {
	if r.Err != nil {
		return placeholder
	}
	if s := format(r.Value); s != "" {
		return s
	}
	return placeholder
}

// Broken reports a failure other than absence, i.e. one worth logging.
func (r Resolved[T]) Broken() bool {
	return r.Err != nil && !errors.Is(r.Err, domain.ErrNotFound)
}

// Package docstore defines a small generic CRUD surface over named
// collections. Every record handed back to callers carries its storage
// identifier as a string id field.
package docstore

import (
	"context"
	"errors"
)

// DefaultLimit bounds List when the caller passes limit <= 0.
const DefaultLimit = 100

// FieldID is the normalized identifier field name.
const FieldID = "id"

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("docstore: duplicate key")

// Filter is an equality match on field names. An empty filter matches all.
type Filter map[string]any

// Patch holds the fields to overwrite on update.
type Patch map[string]any

// ByID builds the common single-record filter.
func ByID(id string) Filter {
	return Filter{FieldID: id}
}

// Collection describes a named collection and how to reach the record's id.
type Collection[T any] struct {
	Name string
	ID   func(*T) *string
}

// Store is implemented by every backend.
//
// GetOne and Update return (nil, nil) when nothing matches. A filter on id
// with a value the backend cannot parse as an identifier matches nothing.
type Store[T any] interface {
	Create(ctx context.Context, record *T) (*T, error)
	List(ctx context.Context, filter Filter, limit int) ([]T, error)
	GetOne(ctx context.Context, filter Filter) (*T, error)
	Update(ctx context.Context, filter Filter, patch Patch) (*T, error)
	Delete(ctx context.Context, filter Filter) (bool, error)
}

// EffectiveLimit applies DefaultLimit to non-positive values.
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}

// WithoutID returns a copy of patch minus the identifier field, which is
// never writable through Update.
func WithoutID(patch Patch) Patch {
	out := make(Patch, len(patch))
	for k, v := range patch {
		if k == FieldID {
			continue
		}
		out[k] = v
	}
	return out
}

// Package storage provides the durable key-value store the rest of the
// application persists into. Values are opaque serialized records keyed by
// string; callers own serialization and any default backfilling.
package storage

import (
	"context"
	"errors"
)

// Well-known record keys.
const (
	KeyTasks          = "tasks"
	KeyStudySessions  = "study_sessions"
	KeyCourses        = "courses"
	KeyCalendarEvents = "calendar_events"
)

// ErrKeyNotFound is returned by Get when no value exists for the key.
var ErrKeyNotFound = errors.New("key not found")

// Store is an async durable key-value store.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the value under key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

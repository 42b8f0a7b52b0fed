// Package store defines the path-addressed document store the service
// persists through. Paths are slash-separated ("users/ana",
// "leaderboard/ana/activity1"); values are JSON documents. The interface
// mirrors a hosted realtime database client: read-once fetch, write at
// path, atomic multi-path update, and subscribe-to-prefix with change
// notifications.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotFound is returned by Get when no document exists at the path.
var ErrNotFound = errors.New("document not found")

// Write is one element of a multi-path update. With Merge set, fields of
// Value (a struct or map) are merged into the existing document instead of
// replacing it.
type Write struct {
	Path  string
	Value any
	Merge bool
}

// Event notifies a watcher that the document at Path changed.
type Event struct {
	Path string
}

// Store is the persistence and pub/sub boundary.
type Store interface {
	// Get unmarshals the document at path into out.
	Get(ctx context.Context, path string, out any) error
	// Set replaces the document at path.
	Set(ctx context.Context, path string, value any) error
	// SetIfAbsent creates the document only when the path is vacant and
	// reports whether it was created.
	SetIfAbsent(ctx context.Context, path string, value any) (bool, error)
	// Update applies all writes together; partial application is not
	// observable through this interface.
	Update(ctx context.Context, writes []Write) error
	// Delete removes the document at path. Deleting a vacant path is not
	// an error.
	Delete(ctx context.Context, path string) error
	// List returns every document whose path starts with prefix, keyed by
	// full path.
	List(ctx context.Context, prefix string) (map[string]json.RawMessage, error)
	// Watch emits an event for every change under prefix until ctx ends or
	// cancel is called.
	Watch(ctx context.Context, prefix string) (<-chan Event, func(), error)
}

// Join builds a path from segments, ignoring empties.
func Join(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, "/")
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "/")
}

// HasPrefix reports whether path lies under prefix in the path tree.
func HasPrefix(path, prefix string) bool {
	if prefix == "" || path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}

// MergeDoc overlays the fields of value onto the existing raw document.
// Absent or invalid existing documents are treated as empty objects, an ad
// hoc shape check rather than schema enforcement.
func MergeDoc(existing json.RawMessage, value any) (json.RawMessage, error) {
	base := map[string]json.RawMessage{}
	if len(existing) > 0 {
		// Ignore documents that are not objects; the overlay wins.
		_ = json.Unmarshal(existing, &base)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	overlay := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &overlay); err != nil {
		return nil, err
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}

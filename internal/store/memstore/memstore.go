// Package memstore is the in-process Store used for tests and for running
// the service without external dependencies.
package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"cellquest-service/internal/store"
)

type watcher struct {
	prefix string
	ch     chan store.Event
}

// Store keeps documents in a map keyed by path and fans change events out
// to prefix watchers.
type Store struct {
	mu       sync.RWMutex
	docs     map[string]json.RawMessage
	watchers map[*watcher]struct{}
}

func New() *Store {
	return &Store{
		docs:     make(map[string]json.RawMessage),
		watchers: make(map[*watcher]struct{}),
	}
}

func (s *Store) Get(_ context.Context, path string, out any) error {
	s.mu.RLock()
	raw, ok := s.docs[path]
	s.mu.RUnlock()
	if !ok {
		return store.ErrNotFound
	}
	return json.Unmarshal(raw, out)
}

func (s *Store) Set(_ context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.docs[path] = raw
	s.notifyLocked(path)
	s.mu.Unlock()
	return nil
}

func (s *Store) SetIfAbsent(_ context.Context, path string, value any) (bool, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[path]; exists {
		return false, nil
	}
	s.docs[path] = raw
	s.notifyLocked(path)
	return true, nil
}

func (s *Store) Update(_ context.Context, writes []store.Write) error {
	// Marshal everything before touching the map so a bad value cannot
	// leave a partial update behind.
	prepared := make(map[string]json.RawMessage, len(writes))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range writes {
		if w.Merge {
			merged, err := store.MergeDoc(s.docs[w.Path], w.Value)
			if err != nil {
				return err
			}
			prepared[w.Path] = merged
			continue
		}
		raw, err := json.Marshal(w.Value)
		if err != nil {
			return err
		}
		prepared[w.Path] = raw
	}
	for path, raw := range prepared {
		s.docs[path] = raw
		s.notifyLocked(path)
	}
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	if _, ok := s.docs[path]; ok {
		delete(s.docs, path)
		s.notifyLocked(path)
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) List(_ context.Context, prefix string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]json.RawMessage)
	for path, raw := range s.docs {
		if store.HasPrefix(path, prefix) {
			cp := make(json.RawMessage, len(raw))
			copy(cp, raw)
			out[path] = cp
		}
	}
	return out, nil
}

func (s *Store) Watch(ctx context.Context, prefix string) (<-chan store.Event, func(), error) {
	w := &watcher{prefix: prefix, ch: make(chan store.Event, 16)}
	s.mu.Lock()
	s.watchers[w] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, w)
			s.mu.Unlock()
			close(w.ch)
		})
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return w.ch, cancel, nil
}

func (s *Store) notifyLocked(path string) {
	for w := range s.watchers {
		if !store.HasPrefix(path, w.prefix) {
			continue
		}
		select {
		case w.ch <- store.Event{Path: path}:
		default:
			// Watchers are snapshot-driven; dropping a backlogged event
			// loses nothing because the next recompute reads the full
			// current state.
		}
	}
}

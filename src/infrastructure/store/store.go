package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"memo-notes/src/domain"
	"memo-notes/src/metrics"

	"github.com/sirupsen/logrus"
)

// Collection names, also used as backend keys
const (
	Memos      = "memos"
	Categories = "categories"
	Tags       = "tags"
)

var (
	ErrLoad    = errors.New("failed to load collection")
	ErrPersist = errors.New("failed to persist collections")
)

// Data is the full content of the store
type Data struct {
	Memos      []domain.Memo
	Categories []domain.Category
	Tags       []domain.Tag
}

func (d *Data) clone() Data {
	memos := make([]domain.Memo, len(d.Memos))
	for i, m := range d.Memos {
		m.Tags = slices.Clone(m.Tags)
		memos[i] = m
	}
	return Data{
		Memos:      memos,
		Categories: slices.Clone(d.Categories),
		Tags:       slices.Clone(d.Tags),
	}
}

// Options configures a Store
type Options struct {
	// Seed provides the default categories and tags. DefaultSeed when nil.
	Seed *Seed
	// FailOnWriteError rolls a mutation back and returns ErrPersist when the
	// backend write fails. Otherwise the failure is logged and the in-memory
	// state stays authoritative.
	FailOnWriteError bool
	Metrics          *metrics.Collector
}

// Store owns the memo, category and tag collections and writes them to its
// backend after every mutation.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	logger  *logrus.Logger
	opts    Options
	data    Data

	lastPersistErr error
}

// New creates a store holding the seed data. Call Load to read the backend.
func New(backend Backend, logger *logrus.Logger, opts Options) *Store {
	if opts.Seed == nil {
		opts.Seed = DefaultSeed()
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		opts:    opts,
	}
	s.data = s.defaults()
	return s
}

func (s *Store) defaults() Data {
	return Data{
		Memos:      []domain.Memo{},
		Categories: nonNil(s.opts.Seed.categories()),
		Tags:       nonNil(s.opts.Seed.tags()),
	}
}

// Load reads every collection from the backend. A collection that was never
// written gets its default value silently. A collection that cannot be read
// or decoded also gets its default value, and the failure is returned
// wrapped in ErrLoad; the store stays usable either way.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := s.defaults()
	var errs []error

	memos, err := loadCollection(ctx, s.backend, Memos, defaults.Memos)
	if err != nil {
		errs = append(errs, err)
	}
	for i := range memos {
		if memos[i].Tags == nil {
			memos[i].Tags = []string{}
		}
	}
	categories, err := loadCollection(ctx, s.backend, Categories, defaults.Categories)
	if err != nil {
		errs = append(errs, err)
	}
	tags, err := loadCollection(ctx, s.backend, Tags, defaults.Tags)
	if err != nil {
		errs = append(errs, err)
	}

	s.data = Data{Memos: memos, Categories: categories, Tags: tags}

	s.opts.Metrics.SetRecords(Memos, len(memos))
	s.opts.Metrics.SetRecords(Categories, len(categories))
	s.opts.Metrics.SetRecords(Tags, len(tags))

	s.logger.WithFields(logrus.Fields{
		"memos":      len(memos),
		"categories": len(categories),
		"tags":       len(tags),
	}).Info("record store loaded")

	return errors.Join(errs...)
}

func loadCollection[T any](ctx context.Context, backend Backend, name string, fallback []T) ([]T, error) {
	raw, err := backend.Read(ctx, name)
	if err != nil {
		if errors.Is(err, ErrNotExist) {
			return fallback, nil
		}
		return fallback, fmt.Errorf("%w %s: %w", ErrLoad, name, err)
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return fallback, fmt.Errorf("%w %s: %w", ErrLoad, name, err)
	}
	return nonNil(items), nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// View runs fn with read access to the collections. fn must not retain or
// modify the slices.
func (s *Store) View(fn func(d *Data)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

// Mutate runs fn with write access to the collections and persists the
// result. If fn returns an error nothing is changed or written.
func (s *Store) Mutate(ctx context.Context, collection, operation string, fn func(d *Data) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.data.clone()
	if err := fn(&s.data); err != nil {
		s.data = before
		return err
	}

	if err := s.persist(ctx); err != nil {
		s.lastPersistErr = err
		s.opts.Metrics.ObservePersistFailure()
		entry := s.logger.WithError(err).WithFields(logrus.Fields{
			"collection": collection,
			"operation":  operation,
		})
		if s.opts.FailOnWriteError {
			s.data = before
			entry.Error("record store write failed, mutation rolled back")
			return err
		}
		entry.Warn("record store write failed, keeping in-memory state")
	} else {
		s.lastPersistErr = nil
	}

	s.opts.Metrics.ObserveMutation(collection, operation, s.size(collection))
	return nil
}

func (s *Store) size(collection string) int {
	switch collection {
	case Memos:
		return len(s.data.Memos)
	case Categories:
		return len(s.data.Categories)
	case Tags:
		return len(s.data.Tags)
	default:
		return 0
	}
}

// persist writes all three collections. Every collection is attempted even
// if an earlier one fails.
func (s *Store) persist(ctx context.Context) error {
	encoded, err := s.encode()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	var errs []error
	for _, name := range []string{Memos, Categories, Tags} {
		if err := s.backend.Write(ctx, name, encoded[name]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

func (s *Store) encode() (map[string][]byte, error) {
	out := make(map[string][]byte, 3)
	for name, v := range map[string]any{
		Memos:      s.data.Memos,
		Categories: s.data.Categories,
		Tags:       s.data.Tags,
	} {
		raw, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", name, err)
		}
		out[name] = raw
	}
	return out, nil
}

// Snapshot returns the collections encoded the same way they are persisted
func (s *Store) Snapshot() (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.encode()
}

// LastPersistError returns the error of the most recent persist, nil when
// it succeeded.
func (s *Store) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastPersistErr
}

package repository

import (
	"time"

	"github.com/google/uuid"
)

type config struct {
	now   func() time.Time
	newID func() string
}

// Option customises a repository
type Option func(*config)

// WithClock sets the time source used for memo timestamps
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		c.now = now
	}
}

// WithIDGenerator sets the generator used for new record ids
func WithIDGenerator(newID func() string) Option {
	return func(c *config) {
		c.newID = newID
	}
}

func newConfig(opts []Option) config {
	c := config{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

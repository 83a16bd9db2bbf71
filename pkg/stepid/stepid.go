// Package stepid hands out identifiers used to correlate the log lines of one
// agent invocation.
package stepid

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// Counter issues marker-prefixed, strictly increasing ids ("SJ1", "SJ2", ...).
// It is safe for concurrent use.
type Counter struct {
	marker string
	n      atomic.Uint64
}

// NewCounter returns a counter for the given marker.
func NewCounter(marker string) *Counter {
	return &Counter{marker: marker}
}

// Next returns the next id.
func (c *Counter) Next() string {
	return fmt.Sprintf("%s%d", c.marker, c.n.Add(1))
}

// Marker is the prefix of every id of c.
func (c *Counter) Marker() string { return c.marker }

// NewRunID returns a random id for one process run.
func NewRunID() string {
	return uuid.NewString()
}

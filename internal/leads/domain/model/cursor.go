package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const maxNanos = 999_999_999

var cursorPattern = regexp.MustCompile(`^(\d+):(\d+)$`)

var (
	ErrCursorFormat     = errors.New("cursor must match seconds:nanoseconds")
	ErrCursorOutOfRange = errors.New("cursor out of range")
)

// Cursor marks a position on the lead creation timeline as a
// seconds:nanoseconds pair.
type Cursor struct {
	Seconds int64
	Nanos   int32
}

// ParseCursor parses the "seconds:nanoseconds" wire form.
func ParseCursor(raw string) (*Cursor, error) {
	m := cursorPattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, ErrCursorFormat
	}
	secs, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: seconds: %v", ErrCursorOutOfRange, err)
	}
	nanos, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || nanos > maxNanos {
		return nil, fmt.Errorf("%w: nanoseconds must be between 0 and %d", ErrCursorOutOfRange, maxNanos)
	}
	return &Cursor{Seconds: secs, Nanos: int32(nanos)}, nil
}

// CursorFromTime converts a timestamp into a cursor.
func CursorFromTime(t time.Time) *Cursor {
	return &Cursor{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time returns the cursor as a UTC timestamp.
func (c *Cursor) Time() time.Time {
	return time.Unix(c.Seconds, int64(c.Nanos)).UTC()
}

func (c *Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Seconds, c.Nanos)
}

// PageRequest selects a window of one user's leads, newest first.
type PageRequest struct {
	// After keeps only leads created strictly later than the cursor.
	After *Cursor
	// Before keeps only leads created strictly earlier than the cursor.
	Before *Cursor
	Limit  int
}

// Contains reports whether t lies inside the cursor bounds.
func (p PageRequest) Contains(t time.Time) bool {
	if p.After != nil && !t.After(p.After.Time()) {
		return false
	}
	if p.Before != nil && !t.Before(p.Before.Time()) {
		return false
	}
	return true
}

package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCursor(t *testing.T) {
	tests := []struct {
		raw     string
		want    *Cursor
		wantErr bool
	}{
		{raw: "100:0", want: &Cursor{Seconds: 100, Nanos: 0}},
		{raw: "1690000000:123456789", want: &Cursor{Seconds: 1690000000, Nanos: 123456789}},
		{raw: "0:999999999", want: &Cursor{Seconds: 0, Nanos: 999999999}},
		{raw: "", wantErr: true},
		{raw: "100", wantErr: true},
		{raw: "100:", wantErr: true},
		{raw: ":5", wantErr: true},
		{raw: "-1:0", wantErr: true},
		{raw: "1.5:0", wantErr: true},
		{raw: "100:0:0", wantErr: true},
		{raw: "abc:def", wantErr: true},
		{raw: "1:1000000000", wantErr: true},
		{raw: "99999999999999999999:0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseCursor(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCursor_TimeRoundTrip(t *testing.T) {
	ts := time.Date(2023, 7, 22, 4, 26, 40, 512000000, time.UTC)
	c := CursorFromTime(ts)

	assert.Equal(t, ts.Unix(), c.Seconds)
	assert.Equal(t, int32(512000000), c.Nanos)
	assert.True(t, ts.Equal(c.Time()))
	assert.Equal(t, "1690000000:512000000", c.String())
}

func TestPageRequest_Contains(t *testing.T) {
	at := func(sec int64, nsec int64) time.Time { return time.Unix(sec, nsec).UTC() }

	open := PageRequest{}
	assert.True(t, open.Contains(at(1, 0)))

	after := PageRequest{After: &Cursor{Seconds: 100}}
	assert.False(t, after.Contains(at(100, 0)))
	assert.True(t, after.Contains(at(100, 1)))
	assert.False(t, after.Contains(at(99, 999999999)))

	before := PageRequest{Before: &Cursor{Seconds: 100}}
	assert.False(t, before.Contains(at(100, 0)))
	assert.True(t, before.Contains(at(99, 999999999)))

	window := PageRequest{After: &Cursor{Seconds: 100}, Before: &Cursor{Seconds: 102}}
	assert.True(t, window.Contains(at(101, 0)))
	assert.False(t, window.Contains(at(102, 0)))
}

func TestParseCursor_ErrorKinds(t *testing.T) {
	_, err := ParseCursor("abc")
	assert.ErrorIs(t, err, ErrCursorFormat)

	_, err = ParseCursor("1:1000000000")
	assert.ErrorIs(t, err, ErrCursorOutOfRange)

	_, err = ParseCursor("99999999999999999999:0")
	assert.ErrorIs(t, err, ErrCursorOutOfRange)
}

//go:build unit

package icalfeed

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, _ := time.Parse("2006-01-02", s)
	return t
}

const sampleFeed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a1\r\n" +
	"DTSTART;VALUE=DATE:20260605\r\n" +
	"DTEND;VALUE=DATE:20260608\r\n" +
	"SUMMARY:Reserved\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a2\r\n" +
	"DTSTART:20260610T150000Z\r\n" +
	"DTEND:20260612T100000Z\r\n" +
	"SUMMARY:Long summary that is\r\n" +
	"  folded\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a3\r\n" +
	"DTSTART;VALUE=DATE:20260701\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:a4\r\n" +
	"DTSTART;VALUE=DATE:20260801\r\n" +
	"DTEND;VALUE=DATE:20260805\r\n" +
	"STATUS:CANCELLED\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:broken\r\n" +
	"DTSTART:garbage\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestParse(t *testing.T) {
	events, skipped, err := Parse(strings.NewReader(sampleFeed))

	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, events, 3)

	assert.Equal(t, "a1", events[0].UID)
	assert.Equal(t, day("2026-06-05"), events[0].Dates.Start())
	assert.Equal(t, day("2026-06-08"), events[0].Dates.End())

	assert.Equal(t, "Long summary that is folded", events[1].Summary)
	assert.Equal(t, day("2026-06-10"), events[1].Dates.Start())
	assert.Equal(t, day("2026-06-12"), events[1].Dates.End())

	// missing DTEND covers one day
	assert.Equal(t, day("2026-07-01"), events[2].Dates.Start())
	assert.Equal(t, day("2026-07-02"), events[2].Dates.End())
}

func TestParseEdgeCases(t *testing.T) {
	t.Run("not a calendar", func(t *testing.T) {
		_, _, err := Parse(strings.NewReader("<html>maintenance</html>"))
		assert.ErrorIs(t, err, ErrNotCalendar)
	})

	t.Run("empty calendar", func(t *testing.T) {
		events, skipped, err := Parse(strings.NewReader("BEGIN:VCALENDAR\nEND:VCALENDAR\n"))
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Zero(t, skipped)
	})

	t.Run("same-day date-time event keeps one night", func(t *testing.T) {
		feed := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nDTSTART:20260605T100000\nDTEND:20260605T180000\nEND:VEVENT\nEND:VCALENDAR\n"
		events, _, err := Parse(strings.NewReader(feed))
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, 1, events[0].Dates.Nights())
	})

	t.Run("date value with time part is skipped", func(t *testing.T) {
		feed := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nDTSTART;VALUE=DATE:20260605T100000\nEND:VEVENT\nEND:VCALENDAR\n"
		events, skipped, err := Parse(strings.NewReader(feed))
		require.NoError(t, err)
		assert.Empty(t, events)
		assert.Equal(t, 1, skipped)
	})

	t.Run("unterminated event is dropped", func(t *testing.T) {
		feed := "BEGIN:VCALENDAR\nBEGIN:VEVENT\nDTSTART;VALUE=DATE:20260605\n"
		events, _, err := Parse(strings.NewReader(feed))
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

package icalfeed

import (
	"bufio"
	"io"
	"strings"
	"time"

	"booking-engine/internal/domain/availability"
	"booking-engine/internal/pkg/errs"
)

var ErrNotCalendar = errs.New("feed is not an iCalendar document")

// Event is one VEVENT reduced to what availability needs.
type Event struct {
	UID     string
	Summary string
	Status  string
	Dates   availability.DateRange
}

// Parse reads VEVENTs from an iCalendar stream. Events without a usable DTSTART are skipped
// and counted in skipped; a document with no VCALENDAR is an error.
func Parse(r io.Reader) (events []Event, skipped int, err error) {
	lines, err := unfold(r)
	if err != nil {
		return nil, 0, errs.Wrap(err, "read calendar feed")
	}

	var (
		inCalendar bool
		current    map[string]property
	)
	for _, line := range lines {
		name, prop, ok := parseLine(line)
		if !ok {
			continue
		}
		switch {
		case name == "BEGIN" && strings.EqualFold(prop.value, "VCALENDAR"):
			inCalendar = true
		case name == "BEGIN" && strings.EqualFold(prop.value, "VEVENT"):
			current = map[string]property{}
		case name == "END" && strings.EqualFold(prop.value, "VEVENT"):
			if current == nil {
				continue
			}
			ev, ok := toEvent(current)
			current = nil
			if !ok {
				skipped++
				continue
			}
			if strings.EqualFold(ev.Status, "CANCELLED") {
				continue
			}
			events = append(events, ev)
		case current != nil:
			if _, seen := current[name]; !seen {
				current[name] = prop
			}
		}
	}
	if !inCalendar {
		return nil, skipped, ErrNotCalendar
	}
	return events, skipped, nil
}

// Blocks returns the date ranges of the feed's events.
func Blocks(events []Event) []availability.DateRange {
	out := make([]availability.DateRange, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.Dates)
	}
	return out
}

type property struct {
	params map[string]string
	value  string
}

// unfold joins RFC 5545 continuation lines (leading space or tab) onto the previous line.
func unfold(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if (strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += line[1:]
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

func parseLine(line string) (string, property, bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", property{}, false
	}
	head, value := line[:colon], line[colon+1:]

	parts := strings.Split(head, ";")
	prop := property{value: strings.TrimSpace(value)}
	for _, p := range parts[1:] {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		if prop.params == nil {
			prop.params = map[string]string{}
		}
		prop.params[strings.ToUpper(k)] = strings.Trim(v, `"`)
	}
	return strings.ToUpper(parts[0]), prop, true
}

func toEvent(props map[string]property) (Event, bool) {
	start, ok := parseDate(props["DTSTART"])
	if !ok {
		return Event{}, false
	}

	end := start.AddDate(0, 0, 1)
	if p, has := props["DTEND"]; has {
		e, ok := parseDate(p)
		if !ok {
			return Event{}, false
		}
		if e.After(start) {
			end = e
		}
	}

	dates, err := availability.NewDateRange(start, end)
	if err != nil {
		return Event{}, false
	}
	return Event{
		UID:     props["UID"].value,
		Summary: props["SUMMARY"].value,
		Status:  props["STATUS"].value,
		Dates:   dates,
	}, true
}

// parseDate accepts VALUE=DATE (YYYYMMDD) and date-time (YYYYMMDDTHHMMSS[Z]) values.
// Date-times keep their calendar date; the clock time is dropped.
func parseDate(p property) (time.Time, bool) {
	v := p.value
	if len(v) < 8 {
		return time.Time{}, false
	}
	if len(v) > 8 && v[8] != 'T' {
		return time.Time{}, false
	}
	if strings.EqualFold(p.params["VALUE"], "DATE") && len(v) != 8 {
		return time.Time{}, false
	}
	if len(v) > 8 {
		layout := "20060102T150405"
		if strings.HasSuffix(v, "Z") {
			layout += "Z"
		}
		if _, err := time.Parse(layout, v); err != nil {
			return time.Time{}, false
		}
	}
	d, err := time.Parse("20060102", v[:8])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

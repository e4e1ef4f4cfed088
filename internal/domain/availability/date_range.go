package availability

import (
	"sort"
	"time"

	"booking-engine/internal/pkg/errs"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidRange = errs.Mark(errs.New("range start must be before end"), errs.ErrValidation)
	ErrInvalidDate  = errs.Mark(errs.New("date must be formatted as YYYY-MM-DD"), errs.ErrValidation)
)

// DateRange is a half-open span of calendar days [start, end).
// Both bounds are UTC midnights.
type DateRange struct {
	start time.Time
	end   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	s, e := truncate(start), truncate(end)
	if !s.Before(e) {
		return DateRange{}, ErrInvalidRange
	}
	return DateRange{start: s, end: e}, nil
}

func MustDateRange(start, end time.Time) DateRange {
	r, err := NewDateRange(start, end)
	if err != nil {
		panic(err)
	}
	return r
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errs.Mark(err, ErrInvalidDate)
	}
	return t, nil
}

func ParseDateRange(from, to string) (DateRange, error) {
	s, err := ParseDate(from)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDate(to)
	if err != nil {
		return DateRange{}, err
	}
	return NewDateRange(s, e)
}

func (r DateRange) Start() time.Time { return r.start }
func (r DateRange) End() time.Time   { return r.end }
func (r DateRange) IsZero() bool     { return r.start.IsZero() && r.end.IsZero() }

// Nights is the number of days covered, counting the start day and excluding the end day.
func (r DateRange) Nights() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

func (r DateRange) Overlaps(o DateRange) bool {
	return r.start.Before(o.end) && o.start.Before(r.end)
}

func (r DateRange) Contains(day time.Time) bool {
	d := truncate(day)
	return !d.Before(r.start) && d.Before(r.end)
}

// Clip returns the intersection with window; ok is false when they do not overlap.
func (r DateRange) Clip(window DateRange) (DateRange, bool) {
	if !r.Overlaps(window) {
		return DateRange{}, false
	}
	s, e := r.start, r.end
	if s.Before(window.start) {
		s = window.start
	}
	if e.After(window.end) {
		e = window.end
	}
	return DateRange{start: s, end: e}, true
}

// Days lists each day in the range, in order.
func (r DateRange) Days() []time.Time {
	days := make([]time.Time, 0, r.Nights())
	for d := r.start; d.Before(r.end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

func (r DateRange) String() string {
	return r.start.Format(DateLayout) + "/" + r.end.Format(DateLayout)
}

// Union coalesces overlapping and adjacent ranges into a minimal, start-ordered, disjoint set.
func Union(ranges []DateRange) []DateRange {
	if len(ranges) == 0 {
		return []DateRange{}
	}
	sorted := make([]DateRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].start.Equal(sorted[j].start) {
			return sorted[i].end.Before(sorted[j].end)
		}
		return sorted[i].start.Before(sorted[j].start)
	})

	merged := []DateRange{sorted[0]}
	for _, r := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !r.start.After(last.end) {
			if r.end.After(last.end) {
				last.end = r.end
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Conflicts returns the members of unavailable that overlap stay.
func Conflicts(unavailable []DateRange, stay DateRange) []DateRange {
	var out []DateRange
	for _, r := range unavailable {
		if r.Overlaps(stay) {
			out = append(out, r)
		}
	}
	return out
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

package category

import (
	"errors"
	"time"
)

// ErrInvertedRange reports a range whose start lies after its end.
var ErrInvertedRange = errors.New("range start is after range end")

// TimeRange is an inclusive interval of capture times.
type TimeRange struct {
	start time.Time
	end   time.Time
}

// NewTimeRange validates start <= end.
func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if start.After(end) {
		return TimeRange{}, ErrInvertedRange
	}
	return TimeRange{start: start, end: end}, nil
}

func (r TimeRange) Start() time.Time { return r.start }

func (r TimeRange) End() time.Time { return r.end }

// Contains reports whether t lies within the range, both ends included.
func (r TimeRange) Contains(t time.Time) bool {
	return !t.Before(r.start) && !t.After(r.end)
}

// Overlaps applies the boundary-asymmetric test
//
//	(a.start <= b.start && a.end > b.start) || (b.start <= a.start && b.end > a.start)
//
// so two ranges that merely touch (a.end == b.start) do not overlap.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return (!r.start.After(other.start) && r.end.After(other.start)) ||
		(!other.start.After(r.start) && other.end.After(r.start))
}

// Category is a named, ordered set of non-overlapping ranges.
type Category struct {
	name   string
	ranges []TimeRange
}

// New returns an empty category.
func New(name string) *Category {
	return &Category{name: name}
}

func (c *Category) Name() string { return c.name }

// Ranges returns a copy of the stored ranges in insertion order.
func (c *Category) Ranges() []TimeRange {
	out := make([]TimeRange, len(c.ranges))
	copy(out, c.ranges)
	return out
}

// AddRange appends r unless it overlaps a stored range, in which case the
// category is left unchanged and false is returned.
func (c *Category) AddRange(r TimeRange) bool {
	for _, existing := range c.ranges {
		if existing.Overlaps(r) {
			return false
		}
	}
	c.ranges = append(c.ranges, r)
	return true
}

// Contains reports whether any stored range contains t.
func (c *Category) Contains(t time.Time) bool {
	for _, r := range c.ranges {
		if r.Contains(t) {
			return true
		}
	}
	return false
}

// Categories is evaluated in order; earlier entries take precedence.
type Categories []*Category

// Match returns the name of the first category containing t.
func (cs Categories) Match(t time.Time) (string, bool) {
	for _, c := range cs {
		if c != nil && c.Contains(t) {
			return c.name, true
		}
	}
	return "", false
}

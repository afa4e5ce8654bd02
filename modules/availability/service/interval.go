package service

import (
	"fmt"
	"sort"
	"time"
)

// interval is a half-open [start, end) span of absolute instants. Wall-clock
// construction happens in the organizer's location; comparisons are
// location-independent.
type interval struct {
	start time.Time
	end   time.Time
}

func (iv interval) overlaps(o interval) bool {
	return iv.start.Before(o.end) && iv.end.After(o.start)
}

func (iv interval) valid() bool {
	return iv.end.After(iv.start)
}

// parseClock reads "HH:MM" or "HH:MM:SS" wall-clock strings.
func parseClock(s string) (hour int, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid clock value %q", s)
		}
	}
	return t.Hour(), t.Minute(), nil
}

// at anchors a wall-clock time on the calendar date of day in day's location.
func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// startOfDay returns local midnight of day.
func startOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
}

// mergeIntervals collapses overlapping or touching spans. The input is not
// modified; the result is sorted by start.
func mergeIntervals(ivs []interval) []interval {
	if len(ivs) <= 1 {
		out := make([]interval, len(ivs))
		copy(out, ivs)
		return out
	}
	sorted := make([]interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start.Before(sorted[j].start) })

	merged := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.start.After(last.end) {
			if iv.end.After(last.end) {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// subtractIntervals removes blocks from win, returning the free sub-intervals
// in order. blocks must already be merged and sorted.
func subtractIntervals(win interval, blocks []interval) []interval {
	var free []interval
	cursor := win.start
	for _, b := range blocks {
		if !b.end.After(cursor) {
			continue
		}
		if !b.start.Before(win.end) {
			break
		}
		if b.start.After(cursor) {
			free = append(free, interval{start: cursor, end: minTime(b.start, win.end)})
		}
		if b.end.After(cursor) {
			cursor = b.end
		}
	}
	if cursor.Before(win.end) {
		free = append(free, interval{start: cursor, end: win.end})
	}
	return free
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// weekdayIndex maps time.Weekday to the 0=Monday..6=Sunday convention used
// by availability rules.
func weekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// isDST reports whether t is in daylight saving time in its location, by
// comparing its UTC offset to the location's standard (minimum) offset.
func isDST(t time.Time) bool {
	_, offset := t.Zone()
	_, jan := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location()).Zone()
	_, jul := time.Date(t.Year(), time.July, 1, 0, 0, 0, 0, t.Location()).Zone()
	std := jan
	if jul < std {
		std = jul
	}
	return offset > std
}

// Package vote converts between the editable point assignment of a guest and
// the wire form exchanged with the party service.
package vote

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrInvalidPoints = errors.New("invalid point value")
	ErrDuplicateAct  = errors.New("act assigned more than once")
)

// Points is the fixed scale, highest first.
var Points = [10]int{12, 10, 8, 7, 6, 5, 4, 3, 2, 1}

// IsPoints reports whether p is one of the ten point values.
func IsPoints(p int) bool {
	for _, v := range Points {
		if v == p {
			return true
		}
	}
	return false
}

// Assignment maps a point value to an act id. It may be partial while the
// guest is still editing.
type Assignment map[int]string

// Entry is one assigned point value.
type Entry struct {
	Points int
	ActID  string
}

func (a Assignment) Lookup(points int) (string, bool) {
	actID, ok := a[points]
	if !ok || actID == "" {
		return "", false
	}
	return actID, true
}

// Set gives points to actID. An act holds at most one point value, so a
// previous assignment of the same act is dropped.
func (a Assignment) Set(points int, actID string) error {
	if !IsPoints(points) {
		return fmt.Errorf("%w: %d", ErrInvalidPoints, points)
	}
	if actID == "" {
		delete(a, points)
		return nil
	}
	for p, id := range a {
		if id == actID && p != points {
			delete(a, p)
		}
	}
	a[points] = actID
	return nil
}

func (a Assignment) Clear(points int) {
	delete(a, points)
}

// IsComplete reports whether all ten point values are assigned.
func (a Assignment) IsComplete() bool {
	return IsComplete(a)
}

func IsComplete(a Assignment) bool {
	for _, p := range Points {
		if _, ok := a.Lookup(p); !ok {
			return false
		}
	}
	return true
}

// Validate checks the invariants the service does not necessarily enforce:
// only known point values, and no act targeted twice. Completeness is not
// required.
func (a Assignment) Validate() error {
	seen := make(map[string]int, len(a))
	for _, p := range Points {
		actID, ok := a.Lookup(p)
		if !ok {
			continue
		}
		if prev, dup := seen[actID]; dup {
			return fmt.Errorf("%w: %q has %d and %d points", ErrDuplicateAct, actID, prev, p)
		}
		seen[actID] = p
	}
	for p := range a {
		if !IsPoints(p) {
			return fmt.Errorf("%w: %d", ErrInvalidPoints, p)
		}
	}
	return nil
}

// Entries lists assigned points from 12 down to 1, skipping gaps.
func (a Assignment) Entries() []Entry {
	out := make([]Entry, 0, len(Points))
	for _, p := range Points {
		if actID, ok := a.Lookup(p); ok {
			out = append(out, Entry{Points: p, ActID: actID})
		}
	}
	return out
}

func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for p, id := range a {
		out[p] = id
	}
	return out
}

// Encode returns the wire form keyed by the decimal point value. Unassigned
// points are omitted.
func Encode(a Assignment) map[string]string {
	out := make(map[string]string, len(a))
	for _, p := range Points {
		if actID, ok := a.Lookup(p); ok {
			out[strconv.Itoa(p)] = actID
		}
	}
	return out
}

// Decode reads a wire mapping. Keys that are not a point value are reported
// in the error; the returned assignment still holds every valid entry so it
// can be displayed.
func Decode(wire map[string]string) (Assignment, error) {
	out := make(Assignment, len(wire))
	var errs []error
	for key, actID := range wire {
		p, err := strconv.Atoi(key)
		if err != nil || !IsPoints(p) || strconv.Itoa(p) != key {
			errs = append(errs, fmt.Errorf("%w: key %q", ErrInvalidPoints, key))
			continue
		}
		if actID == "" {
			continue
		}
		out[p] = actID
	}
	return out, errors.Join(errs...)
}

// Package session implements the anonymous customer's order tracker: a small
// deduplicated set of order ids that stands in for authentication on the
// self-service lookup and cancel paths. The set lives on the client (cookie);
// the core services receive it as an explicit value and never read ambient
// state themselves.
package session

import (
	"sort"
	"strconv"
	"strings"
)

// CookieName is the cookie the public handlers use to persist the tracker
// across requests within one browsing session.
const CookieName = "qrdine_orders"

// OrderSet is the set of order ids an anonymous session has created.
type OrderSet struct {
	ids map[int64]struct{}
}

// NewOrderSet creates a tracker seeded with the given ids.
func NewOrderSet(ids ...int64) *OrderSet {
	s := &OrderSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add records an order id. Adding an id that is already present is a no-op.
func (s *OrderSet) Add(id int64) {
	if id <= 0 {
		return
	}
	s.ids[id] = struct{}{}
}

// Contains reports whether the session created the given order.
func (s *OrderSet) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of tracked orders.
func (s *OrderSet) Len() int {
	return len(s.ids)
}

// IDs returns the tracked ids in ascending order.
func (s *OrderSet) IDs() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Encode renders the set as a cookie value ("3.7.12").
func (s *OrderSet) Encode() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ".")
}

// Decode parses a cookie value produced by Encode. Malformed or non-positive
// entries are skipped rather than failing the whole set: a corrupt cookie
// should degrade to "fewer tracked orders", never to an error page.
func Decode(value string) *OrderSet {
	s := NewOrderSet()
	if value == "" {
		return s
	}
	for _, part := range strings.Split(value, ".") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		s.Add(id)
	}
	return s
}

// Package merge folds per-component translation maps into a single
// per-language map.
package merge

import "sort"

// Acceptor decides whether a translation key is kept.
type Acceptor interface {
	Accepts(key string) bool
}

// Duplicate describes a key that was delivered by more than one component.
// The later component wins.
type Duplicate struct {
	Key string
	// Component is the component whose value replaced the earlier one.
	Component string
	// Previous is the component that delivered the replaced value.
	Previous string
}

// Merger accumulates translations component by component. Components must
// be added in their fixed order; on conflicts the last one added wins.
type Merger struct {
	accept  Acceptor
	entries map[string]string
	origin  map[string]string // key -> component
}

// New creates a Merger. A nil acceptor keeps every key.
func New(accept Acceptor) *Merger {
	return &Merger{
		accept:  accept,
		entries: make(map[string]string),
		origin:  make(map[string]string),
	}
}

// Add merges the entries of one component. Keys rejected by the acceptor
// are discarded. Keys already present are overwritten and reported as
// duplicates. Entries are applied in sorted key order.
func (m *Merger) Add(component string, entries map[string]string) (kept int, dups []Duplicate) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if m.accept != nil && !m.accept.Accepts(k) {
			continue
		}
		if prev, ok := m.origin[k]; ok {
			dups = append(dups, Duplicate{Key: k, Component: component, Previous: prev})
		}
		m.entries[k] = entries[k]
		m.origin[k] = component
		kept++
	}
	return kept, dups
}

// Len returns the number of merged keys.
func (m *Merger) Len() int {
	return len(m.entries)
}

// Origin returns the component the current value of key came from.
func (m *Merger) Origin(key string) (string, bool) {
	c, ok := m.origin[key]
	return c, ok
}

// Result returns the merged translations. The map is owned by the Merger.
func (m *Merger) Result() map[string]string {
	return m.entries
}

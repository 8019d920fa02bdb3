package extension

import (
	"sort"
	"strings"
)

// Registry is the accumulated discovery result set, grouped by extension kind
// and keyed by extension identity within each kind.
type Registry struct {
	byKind map[Kind]map[string]Metadata
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byKind: make(map[Kind]map[string]Metadata)}
}

// Add inserts m unless an entry with the same (kind, identity) pair already
// exists. It reports whether the entry was inserted; the first entry added for
// an identity always wins.
func (r *Registry) Add(m Metadata) bool {
	byID, ok := r.byKind[m.Kind]
	if !ok {
		byID = make(map[string]Metadata)
		r.byKind[m.Kind] = byID
	}
	if _, exists := byID[m.ID]; exists {
		return false
	}
	byID[m.ID] = m
	return true
}

// Merge inserts every entry of other whose (kind, identity) pair is not
// already present. Entries already present are left untouched, so merge order
// decides the winner on collisions.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for _, byID := range other.byKind {
		for _, m := range byID {
			r.Add(m)
		}
	}
}

// Lookup returns the entry registered under (kind, id), if any.
func (r *Registry) Lookup(kind Kind, id string) (Metadata, bool) {
	m, ok := r.byKind[kind][id]
	return m, ok
}

// ByKind returns all entries of the given kind, sorted by identity for
// deterministic output.
func (r *Registry) ByKind(kind Kind) []Metadata {
	byID := r.byKind[kind]
	out := make([]Metadata, 0, len(byID))
	for _, m := range byID {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the total number of registered extensions across all kinds.
func (r *Registry) Count() int {
	n := 0
	for _, byID := range r.byKind {
		n += len(byID)
	}
	return n
}

// ForModule returns the subset of entries whose Source matches the given
// module path, compared case-insensitively like every other path in the host.
func (r *Registry) ForModule(modulePath string) *Registry {
	sub := NewRegistry()
	for _, byID := range r.byKind {
		for _, m := range byID {
			if strings.EqualFold(m.Source, modulePath) {
				sub.Add(m)
			}
		}
	}
	return sub
}

// Clone returns a shallow copy of the registry. Metadata values are copied;
// Settings maps are shared, which is safe because entries are never mutated
// after registration.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()
	c.Merge(r)
	return c
}

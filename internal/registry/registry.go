// Package registry assigns identifiers to every entity the pipeline creates.
// It replaces the ad hoc per-collection counters of earlier tooling with a
// single object that owns all identity state for a run.
package registry

import (
	"sync"

	"github.com/DrZ199/Nelsonbook/internal/textutil"
)

// Kind identifies an entity family with its own id counter.
type Kind string

const (
	KindVolume    Kind = "volume"
	KindPart      Kind = "part"
	KindChapter   Kind = "chapter"
	KindSection   Kind = "section"
	KindBlock     Kind = "block"
	KindCondition Kind = "condition"
	KindDrug      Kind = "drug"
	KindDosage    Kind = "dosage"
)

// Registry hands out monotonically increasing int64 ids per kind and resolves
// drug and condition names to stable ids. Ids start at 1 and are never reused
// or reclaimed within a run. All methods are safe for concurrent use so a
// parallelized content pass shares one serialized view of the name maps.
type Registry struct {
	mu         sync.Mutex
	counters   map[Kind]int64
	drugs      map[string]int64
	conditions map[string]int64
}

// New creates an empty registry with all counters at zero.
func New() *Registry {
	return &Registry{
		counters:   make(map[Kind]int64),
		drugs:      make(map[string]int64),
		conditions: make(map[string]int64),
	}
}

// NextID returns a previously unused id for the given kind and advances its
// counter.
func (r *Registry) NextID(kind Kind) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[kind]++
	return r.counters[kind]
}

// Count returns how many ids have been issued for the given kind.
func (r *Registry) Count(kind Kind) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[kind]
}

// GetOrCreateDrug returns the id registered for the drug name, creating a new
// id on first sight. The boolean is true when the id was newly created. Names
// are keyed by their normalized form, so casing and punctuation variants of
// the same name share one id.
func (r *Registry) GetOrCreateDrug(name string) (int64, bool) {
	return r.getOrCreate(r.drugs, KindDrug, name)
}

// GetOrCreateCondition returns the id registered for the condition name,
// creating a new id on first sight. The boolean is true when the id was newly
// created.
func (r *Registry) GetOrCreateCondition(name string) (int64, bool) {
	return r.getOrCreate(r.conditions, KindCondition, name)
}

// LookupCondition returns the id for a condition name already registered, if any.
func (r *Registry) LookupCondition(name string) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.conditions[textutil.TokenizeAndSort(name)]
	return id, ok
}

func (r *Registry) getOrCreate(byName map[string]int64, kind Kind, name string) (int64, bool) {
	key := textutil.TokenizeAndSort(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := byName[key]; ok {
		return id, false
	}
	r.counters[kind]++
	id := r.counters[kind]
	byName[key] = id
	return id, true
}

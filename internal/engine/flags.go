package engine

import "sync"

// FlagSet is a mutable feature-flag registry keyed by phenomenon
// identifiers. Unknown names default to enabled, which keeps the
// vocabulary forward compatible.
type FlagSet struct {
	mu       sync.RWMutex
	disabled map[string]bool
}

// NewFlagSet builds a FlagSet with everything enabled.
func NewFlagSet() *FlagSet {
	return &FlagSet{disabled: make(map[string]bool)}
}

// Enabled satisfies FlagFunc.
func (f *FlagSet) Enabled(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return !f.disabled[name]
}

// Set switches one flag.
func (f *FlagSet) Set(name string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if enabled {
		delete(f.disabled, name)
	} else {
		f.disabled[name] = true
	}
}

// States reports the current value for each of the given names.
func (f *FlagSet) States(names []string) map[string]bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make(map[string]bool, len(names))
	for _, n := range names {
		out[n] = !f.disabled[n]
	}
	return out
}

package modload

import "sync"

// ResolveFunc is the fallback lookup the host loader calls when a dependency
// name is otherwise unresolvable. It returns the resolved handle, or false
// when the name stays unresolved.
type ResolveFunc func(name string) (*Handle, bool)

// HookPoint is the capability the resolver session needs from a loader hook:
// install a fallback callback, tear it down, and let the host loader consult
// it. Only one callback may occupy the slot at a time; Install panics on a
// second install because overlapping resolver sessions are a programmer error.
type HookPoint interface {
	Install(fn ResolveFunc)
	Uninstall()
	Resolve(name string) (*Handle, bool)
}

// slot is the shared single-occupancy implementation behind both hook styles.
type slot struct {
	mu sync.Mutex
	fn ResolveFunc
}

func (s *slot) Install(fn ResolveFunc) {
	if fn == nil {
		panic("modload: nil fallback resolver")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fn != nil {
		panic("modload: fallback resolver already installed")
	}
	s.fn = fn
}

// Uninstall clears the slot. It is safe to call on an empty slot so that
// teardown paths can run unconditionally.
func (s *slot) Uninstall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fn = nil
}

func (s *slot) Resolve(name string) (*Handle, bool) {
	s.mu.Lock()
	fn := s.fn
	s.mu.Unlock()
	// The callback runs outside the slot lock: resolving a name may trigger
	// the loader to consult the hook again on the same goroutine.
	if fn == nil {
		return nil, false
	}
	return fn(name)
}

// processSlot is the legacy process-wide hook installation point.
var processSlot = &slot{}

// ProcessHook returns the legacy process-wide hook slot shared by the whole
// host process.
func ProcessHook() HookPoint {
	return processSlot
}

// ScopedHook is the modern per-loader hook. Each instance owns an independent
// slot, which is what lets tests run isolated resolver sessions in parallel.
type ScopedHook struct {
	slot
}

// NewScopedHook creates an independent hook slot.
func NewScopedHook() *ScopedHook {
	return &ScopedHook{}
}

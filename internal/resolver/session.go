package resolver

import "github.com/vk/pluginhost/internal/modload"

// Session wraps the install/uninstall of the host-loader fallback hook around
// one discovery pass. Close always runs the uninstall and then clears the
// outcome cache, in that order, so no stale handle survives the hook that
// produced it.
type Session struct {
	resolver *Resolver
	hook     modload.HookPoint
	closed   bool
}

// NewSession installs the resolver into the given hook slot and returns the
// session guarding it. It panics if the slot is already occupied: overlapping
// sessions on one hook are a programmer error.
func (r *Resolver) NewSession(hook modload.HookPoint) *Session {
	hook.Install(r.Resolve)
	return &Session{resolver: r, hook: hook}
}

// Close uninstalls the hook and clears the outcome cache. It is idempotent so
// that deferred teardown composes with early explicit closes.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.hook.Uninstall()
	s.resolver.clearOutcomes()
}

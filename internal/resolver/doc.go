// Package resolver supplies the fallback search strategy the host loader
// consults when a module dependency cannot be found through its default
// rules. It owns an ordered, case-insensitively deduplicated directory list
// and a per-pass memoized outcome cache.
//
// The outcome cache is tri-state (pending, resolved, failed). The pending
// sentinel is what makes loader re-entry safe: resolving a name may cause the
// loader to request the same name again before the first attempt completes,
// and that inner request is answered "unresolved" from the cache instead of
// recursing into another directory search.
package resolver

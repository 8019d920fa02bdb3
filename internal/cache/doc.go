// Package cache implements the extension discovery cache: it decides which
// module files to scan, memoizes discovered extensions so repeated requests
// are cheap, and brackets every discovery pass with a resolver session so a
// module's own dependencies can be found outside the loader's default search
// locations.
//
// Two critical sections exist. The cache mutex serializes search-scope
// registration, the completion state, the registry, and whole discovery
// passes (the fallback hook is a single slot, so passes must not overlap).
// The resolver owns the second one for its outcome cache.
package cache

// Package extension defines the extension model of the host: the kinds of
// pluggable functionality a module may contribute, the metadata describing a
// single extension, and the Registry that accumulates discovery results.
//
// The Registry is a plain data structure with no internal locking. The plugin
// cache owns all concurrent access to it; everything handed out to callers is
// a snapshot.
package extension

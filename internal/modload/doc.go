// Package modload abstracts the host's binary-module loader. The host ships
// with two recognized module-file forms: shared-library modules (".so") and
// out-of-process executable modules (".exe").
//
// The package also owns the fallback-resolver hook: the single slot the host
// loader consults when a dependency name cannot be found through its normal
// search rules. Two implementations of the slot exist, a legacy process-wide
// one and a per-loader one; the resolution algorithm is identical against
// either.
//
// Actual code loading (dlopen, process spawn) is deliberately out of scope
// here: Load stops at validating the file and constructing a Handle.
package modload

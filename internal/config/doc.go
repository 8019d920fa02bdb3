// Package config defines the format-agnostic configuration model of the
// host: the host-level settings file and the per-module extension manifest.
// Format-specific parsing lives behind the Loader interface, with the HCL
// implementation in internal/hcl.
package config

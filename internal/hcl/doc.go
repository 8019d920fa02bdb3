// Package hcl is the HCL implementation of the host's configuration
// surfaces: the host settings file consumed at startup and the per-module
// extension manifests consumed by the discoverer.
package hcl

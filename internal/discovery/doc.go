// Package discovery implements the production Discoverer: it introspects
// binary extension modules by reading the HCL manifest shipped alongside each
// module file and translating the declared entries into registry metadata.
//
// The discoverer is stateless; all caching responsibility lives in the plugin
// cache that invokes it.
package discovery

// Package app contains the host's composition root. It wires the plugin
// cache to its production collaborators, seeds the built-in extensions,
// configures logging from the host configuration, and exposes the Run
// lifecycle the CLI drives.
package app

// Package config provides a small map-backed configuration type with
// typed accessors, loadable from YAML or JSON files. It configures the
// monitoring surface of the production graph; graph structure itself is
// always established by wiring code, never by configuration.
package config

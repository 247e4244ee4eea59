// Package internal contains the implementation packages behind the tackweld
// CLI. They are unavailable to external modules; the public surface is the
// template value model in pkg/tw.
//
// # Package Organization
//
//   - scanner: glob matching and discovery of template source files
//   - parser: classification of source lines into marker, comment and body
//   - registry: component definitions, redefinition conflicts and checksums
//   - build: the extraction pipeline and atomic artifact writer
//   - watcher: debounced file watching that re-runs extraction
//   - validation: markup and slot checks over extracted bodies
//   - bindings: generation of Go constants for extracted component IDs
//   - config: configuration loading through viper
//   - logging: structured leveled logging
//   - errors: typed errors carrying codes and locations
//   - version: build metadata
//
// # Data Flow
//
// The scanner yields source paths in a stable order. The parser turns each
// file into component definitions, which the registry merges. A merge that
// redefines an ID is a conflict unless redefinition is allowed, in which
// case the last definition wins. The build package writes one artifact per
// component, and pkg/tw loads those artifacts back as templates.
package internal

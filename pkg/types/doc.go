// Package types defines the set-card entities, the diameter catalog, the
// store configuration and the error taxonomy shared by the store, renderer,
// exporter and CLI.
package types

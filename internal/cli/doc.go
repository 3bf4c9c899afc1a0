// Package cli defines the Cobra command tree for the reactkit CLI. Each file
// in this package registers one top-level command (create, healthcheck,
// doctor, etc.) with the root command. Command implementations delegate to
// internal packages and only handle flags, output formatting and exit status.
package cli

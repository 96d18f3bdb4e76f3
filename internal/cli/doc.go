// Package cli provides the command-line helpers shared by the authenticator
// commands: error types with exit codes, coloured status messages, a progress
// spinner and a query-parameter table.
package cli

// Package cli is responsible for parsing command-line arguments and flags.
// It translates the raw user input into a validated configuration object
// that the core application can use to run.
package cli

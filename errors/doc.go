// Package errors provides the structured error type shared by every datakit
// package. Errors carry a machine-readable code so callers can tell a
// misconfigured analyzer apart from a chain that has already terminated.
package errors

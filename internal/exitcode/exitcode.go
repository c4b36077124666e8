// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by the reminder CLI.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown filter, row out of range).
	UserError = 1

	// AuthError indicates missing or unusable Google credentials, or a bad config.
	AuthError = 2

	// BackendError indicates a persistence backend failure.
	BackendError = 3
)

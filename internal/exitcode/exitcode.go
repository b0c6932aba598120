// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes shared by vatask and provision.
const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error: bad arguments, invalid input or
	// missing connection settings.
	UserError = 1

	// AuthError indicates the site could not be authenticated against.
	AuthError = 2

	// BackendError indicates a failed store request.
	BackendError = 3
)

package mimic

import "github.com/AndreyAkinshin/mimic/internal/errors"

// Exit codes used by harnesses built on mimic. These constants allow
// wrapper scripts to check exit codes symbolically.
const (
	// ExitSuccess indicates that no case failed.
	ExitSuccess = errors.ExitSuccess

	// ExitFailure indicates that at least one case failed.
	ExitFailure = errors.ExitTestsFailed

	// ExitUsage indicates invalid command-line arguments.
	ExitUsage = errors.ExitConfigError

	// ExitEnvironment indicates the report could not be set up, e.g. the
	// log file could not be created.
	ExitEnvironment = errors.ExitEnvironmentError
)

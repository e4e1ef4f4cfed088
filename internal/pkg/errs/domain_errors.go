package errs

import "errors"

// Error taxonomy shared by the domain, usecase and handler layers.
var (
	// Bad input shape or range, always user-correctable
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")

	// Business-rule conflicts
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDateUnavailable  = errors.New("date unavailable")

	// Risk scorer rejection
	ErrSubmissionRejected = errors.New("submission rejected")

	// Retryable gateway failures
	ErrGatewayTimeout = errors.New("gateway timeout")
	ErrGateway        = errors.New("gateway error")

	// State change not legal from the current state
	ErrInvalidTransition = errors.New("invalid transition")

	ErrUnauthorized = errors.New("unauthorized")

	ErrDatabaseOperationFailed = errors.New("database operation failed")
)

var taxonomy = []error{
	ErrValidation,
	ErrNotFound,
	ErrCapacityExceeded,
	ErrDateUnavailable,
	ErrSubmissionRejected,
	ErrGatewayTimeout,
	ErrGateway,
	ErrInvalidTransition,
	ErrUnauthorized,
	ErrDatabaseOperationFailed,
}

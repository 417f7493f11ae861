package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound            = errors.New("entity not found")
	ErrAlreadyExists       = errors.New("entity already exists")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrJobNotCancellable   = errors.New("job is not in a cancellable state")
	ErrJobAlreadyRunning   = errors.New("job already has an active executor")
	ErrTripUnresolved      = errors.New("no trip id resolvable after structure phase")
	ErrMalformedResponse   = errors.New("model response is not valid JSON")
	ErrInvalidExecContext  = errors.New("invalid executor context passed to repository")
	ErrReadDatabaseRow     = errors.New("failed to read database row")
	ErrRateLimited         = errors.New("too many requests")
)

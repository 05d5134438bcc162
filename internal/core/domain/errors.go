package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Handlers map these to HTTP codes.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrInvalid         = errors.New("invalid request")
)

var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", ErrUnauthenticated)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", ErrUnauthenticated)

	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthenticated)
	ErrIdentityNotFound   = fmt.Errorf("%w: identity", ErrNotFound)
	ErrIdentityExists     = fmt.Errorf("%w: login already registered", ErrConflict)

	ErrServiceRequestNotFound = fmt.Errorf("%w: service request", ErrNotFound)
	ErrPatientNotFound        = fmt.Errorf("%w: patient", ErrNotFound)

	ErrNotPending        = fmt.Errorf("%w: service request is no longer pending", ErrConflict)
	ErrPaymentCollected  = fmt.Errorf("%w: payment already collected", ErrConflict)
	ErrIdempotencyInUse  = fmt.Errorf("%w: idempotency key is being processed", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: transition not allowed in current state", ErrForbidden)
)

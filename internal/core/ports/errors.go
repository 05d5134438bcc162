package ports

import "errors"

// ErrGuardRejected is returned by ServiceRequestRepository.Transition when
// the record is missing or does not satisfy the guard.
var ErrGuardRejected = errors.New("conditional update matched no record")

// Package apperror defines the error taxonomy shared by every component.
// Component errors wrap one of these sentinels so the HTTP layer can map
// them to a status with errors.Is.
package apperror

import "errors"

var (
	// ErrInvalidInput marks malformed identifiers, codes or payloads. Never retried.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks an absent code or resource.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a retryable creation conflict, e.g. a short code collision.
	ErrConflict = errors.New("conflict")
	// ErrEmptyCollection marks an operation on a logically empty set.
	ErrEmptyCollection = errors.New("empty collection")
	// ErrUnauthenticated marks a request without a caller identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden marks a mutation attempted by someone other than the owner.
	ErrForbidden = errors.New("forbidden")
	// ErrInternal marks storage or cache failures.
	ErrInternal = errors.New("internal error")
)

// Kind returns the taxonomy sentinel err wraps, or ErrInternal if none.
func Kind(err error) error {
	for _, kind := range []error{
		ErrInvalidInput,
		ErrNotFound,
		ErrConflict,
		ErrEmptyCollection,
		ErrUnauthenticated,
		ErrForbidden,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	return ErrInternal
}

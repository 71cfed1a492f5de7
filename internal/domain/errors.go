package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict, e.g. a registration
	// with an email that is already taken.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthenticated indicates the action requires a logged-in identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrBadCredentials indicates a login or registration rejected by the
	// upstream with a 400-class status.
	ErrBadCredentials = errors.New("bad credentials")
	// ErrOrderClosed indicates a mutation attempted on a checked-out order.
	ErrOrderClosed = errors.New("order closed")
	// ErrUpstream indicates the upstream backend could not be reached or
	// returned an unusable response. Read paths degrade to an empty or
	// anonymous view but callers must still see the failure.
	ErrUpstream = errors.New("upstream unavailable")
)

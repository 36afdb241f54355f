package models

import "errors"

// Assignment engine error taxonomy. Controllers map these onto HTTP status
// codes; the engine never treats any of them as fatal to the process.
var (
	// ErrNotFound means a referenced entity id does not exist. Never retried.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidState means the operation violates the team/victim/incident
	// state machine, e.g. assigning a non-Free team. Never retried.
	ErrInvalidState = errors.New("invalid state for operation")

	// ErrConflict means an optimistic-concurrency write lost a race. Retried
	// once for single-entity operations; sweeps drop the item and continue.
	ErrConflict = errors.New("optimistic concurrency conflict")

	// ErrNoCandidate means scoring found no eligible team or victim. Bulk
	// operations surface this as an empty result instead.
	ErrNoCandidate = errors.New("no eligible candidate")
)

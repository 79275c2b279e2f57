package vars

import "errors"

var (
	// ErrNameConflict is returned by Panel.Add when the name already exists.
	// Put does not return it; Put is create-or-update.
	ErrNameConflict = errors.New("variable name already exists")

	// ErrNotFound is returned by operations that require an existing variable.
	ErrNotFound = errors.New("variable not found")

	// ErrReentrantMutation is returned when a change listener tries to
	// mutate the store during notification dispatch.
	ErrReentrantMutation = errors.New("reentrant store mutation during notification")

	// ErrPersistenceWriteFailed wraps save failures. The in-memory store
	// remains authoritative and the mutation is not rolled back; the next
	// successful save captures it.
	ErrPersistenceWriteFailed = errors.New("failed to persist variables")

	// ErrPersistenceCorrupt marks a quarantined variables file.
	ErrPersistenceCorrupt = errors.New("variables file is corrupt")
)

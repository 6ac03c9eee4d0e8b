// ABOUTME: Error values for the soundpool API
// ABOUTME: Covers initialization and lookup error cases
package soundpool

import "errors"

var (
	// ErrAlreadyInitialized is returned when Init is called twice
	ErrAlreadyInitialized = errors.New("soundpool: already initialized")

	// ErrNotInitialized is returned when an operation runs before Init
	ErrNotInitialized = errors.New("soundpool: not initialized")

	// ErrUnknownSound is returned when a sound name was never loaded
	ErrUnknownSound = errors.New("soundpool: unknown sound")
)

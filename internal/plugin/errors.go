package plugin

import "errors"

// Plugin system errors.
var (
	// ErrAlreadyStarted is returned when starting an item scriptable that
	// already ran.
	ErrAlreadyStarted = errors.New("item scriptable already started")

	// ErrScriptableClosed is returned when starting a closed scriptable.
	ErrScriptableClosed = errors.New("item scriptable is closed")
)

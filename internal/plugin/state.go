package plugin

// State represents the lifecycle state of a script plugin.
type State int

// Plugin states. Loading happens exactly once, at construction; Loaded and
// Failed are terminal for the lifetime of the loader.
const (
	// StateUnloaded - the script has not been loaded.
	StateUnloaded State = iota

	// StateLoading - the script is being evaluated.
	StateLoading

	// StateLoaded - the script produced a usable handler object.
	StateLoaded

	// StateFailed - loading failed; the host skips this plugin.
	StateFailed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IsUsable returns true if the plugin can contribute to the pipeline.
func (s State) IsUsable() bool {
	return s == StateLoaded
}

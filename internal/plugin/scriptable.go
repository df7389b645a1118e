package plugin

import (
	plua "github.com/fanxy121/CopyQ/internal/plugin/lua"
)

// ItemScriptable is a per-item scripting instance. Start evaluates the
// plugin's source text again in a brand-new isolated context that shares
// no state with the plugin-level sandbox or with any other instance.
type ItemScriptable struct {
	source   string
	origin   string
	messages *MessageBridge

	state   *plua.State
	started bool
	closed  bool
}

// Start evaluates the script in a fresh sandbox. Evaluation errors are
// this instance's own concern: they are reported through the plugin's
// message bridge and returned, but never affect the owning loader.
func (s *ItemScriptable) Start() error {
	if s.closed {
		return ErrScriptableClosed
	}
	if s.started {
		return ErrAlreadyStarted
	}
	s.started = true

	s.state = plua.NewState(
		plua.WithFaultHandler(func(err error) {
			s.messages.Send(err.Error(), MessageException)
		}),
		plua.WithPrintHandler(func(text string) {
			s.messages.Send(text, MessageNote)
		}),
	)

	return s.state.Load(s.source, s.origin)
}

// Started reports whether Start has run.
func (s *ItemScriptable) Started() bool {
	return s.started
}

// State returns the instance's sandbox, or nil before Start.
func (s *ItemScriptable) State() *plua.State {
	return s.state
}

// Close releases the instance's sandbox.
func (s *ItemScriptable) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.state != nil {
		s.state.Close()
		s.state = nil
	}
}

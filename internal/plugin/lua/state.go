package lua

import (
	"fmt"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// FactorySymbol is the fixed name of the script entry point. If a script
// defines a global function with this name it is called with no arguments
// and its return value becomes the handler object.
const FactorySymbol = "copyq_script"

// State owns one isolated Lua execution context for a single script.
//
// gopher-lua's LState is not goroutine-safe. The mutex protects against
// concurrent access from Go code, but one script call always executes to
// completion; there is no preemption or cancellation of in-flight Lua code.
type State struct {
	L *lua.LState

	mu sync.Mutex

	sandbox *Sandbox
	handler *lua.LTable

	onFault func(err error)
	onPrint func(text string)

	closed bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithFaultHandler sets the callback invoked for every uncaught script
// fault (evaluation errors, exceptions raised during property resolution
// or member calls). The state always recovers; the callback is the only
// way faults surface.
func WithFaultHandler(fn func(err error)) StateOption {
	return func(s *State) {
		s.onFault = fn
	}
}

// WithPrintHandler sets the callback receiving script print() output.
func WithPrintHandler(fn func(text string)) StateOption {
	return func(s *State) {
		s.onPrint = fn
	}
}

// NewState creates a new sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	state := &State{}
	for _, opt := range opts {
		opt(state)
	}

	L := lua.NewState(lua.Options{
		SkipOpenLibs: true, // opened selectively below
	})
	state.L = L

	openSafeLibraries(L)

	state.sandbox = NewSandbox(L, state.emitPrint)
	state.sandbox.Install()

	return state
}

// openSafeLibraries opens only safe Lua standard libraries. io, os, debug
// and package stay closed, so scripts cannot touch the filesystem, spawn
// processes or load modules.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Load evaluates the script source once and resolves the handler object.
//
// Empty source leaves the state inert: IsLoaded reports false and no
// further calls are attempted. After a successful evaluation the factory
// symbol is looked up; if it is a function it is called with zero
// arguments and its result becomes the handler object. Without a factory,
// the top-level evaluation result serves as the handler object if it is a
// table. Any uncaught fault clears the handler object and is reported
// through the fault handler.
func (s *State) Load(source, origin string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	s.handler = nil

	if strings.TrimSpace(source) == "" {
		return nil
	}

	topLevel, err := s.eval(source, origin)
	if err != nil {
		s.reportFault(err)
		return err
	}

	obj, err := s.resolveHandler(topLevel)
	if err != nil {
		s.reportFault(err)
		return err
	}
	s.handler = obj
	return nil
}

// eval compiles and runs the source, returning the first top-level return
// value (LNil if the chunk returns nothing).
func (s *State) eval(source, origin string) (result lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = lua.LNil, fmt.Errorf("lua panic: %v", r)
		}
	}()

	fn, err := s.L.Load(strings.NewReader(source), origin)
	if err != nil {
		return lua.LNil, err
	}

	top := s.L.GetTop()
	s.L.Push(fn)
	if err := s.L.PCall(0, lua.MultRet, nil); err != nil {
		s.L.SetTop(top)
		return lua.LNil, err
	}

	result = lua.LNil
	if s.L.GetTop() > top {
		result = s.L.Get(top + 1)
	}
	s.L.SetTop(top)
	return result, nil
}

// resolveHandler applies the factory contract to the evaluated script.
func (s *State) resolveHandler(topLevel lua.LValue) (*lua.LTable, error) {
	entry := s.L.GetGlobal(FactorySymbol)

	var obj lua.LValue
	switch entry.Type() {
	case lua.LTFunction:
		result, err := s.callProtected(entry.(*lua.LFunction))
		if err != nil {
			return nil, err
		}
		obj = result
	case lua.LTNil:
		obj = topLevel
	default:
		// A non-callable entry point still counts as the handler value.
		obj = entry
	}

	switch v := obj.(type) {
	case *lua.LTable:
		return v, nil
	case *lua.LNilType, nil:
		return nil, nil
	default:
		// Conservative: a primitive handler value is a load failure, not
		// something to coerce.
		return nil, fmt.Errorf("script handler is %s, expected table", obj.Type())
	}
}

// callProtected calls fn with the given arguments, recovering panics and
// restoring the stack. At most one result is returned.
func (s *State) callProtected(fn *lua.LFunction, args ...lua.LValue) (result lua.LValue, err error) {
	top := s.L.GetTop()
	defer func() {
		if r := recover(); r != nil {
			s.L.SetTop(top)
			result, err = lua.LNil, fmt.Errorf("lua panic: %v", r)
		}
	}()

	s.L.Push(fn)
	for _, arg := range args {
		s.L.Push(arg)
	}
	if err := s.L.PCall(len(args), 1, nil); err != nil {
		s.L.SetTop(top)
		return lua.LNil, err
	}

	result = lua.LNil
	if s.L.GetTop() > top {
		result = s.L.Get(top + 1)
	}
	s.L.SetTop(top)
	return result, nil
}

// IsLoaded reports whether the script produced a usable handler object.
func (s *State) IsLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler != nil
}

// Handler returns the handler object, or nil if the state is not loaded.
// The handler is owned by the state and must not be used after Close.
func (s *State) Handler() *lua.LTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handler
}

// CallMember calls a member function of the handler object with the given
// arguments. Faults are reported through the fault handler and returned.
func (s *State) CallMember(fn *lua.LFunction, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return lua.LNil, ErrStateClosed
	}

	result, err := s.callProtected(fn, args...)
	if err != nil {
		s.reportFault(err)
		return lua.LNil, err
	}
	return result, nil
}

// LuaState returns the underlying gopher-lua state. Direct access
// bypasses the mutex; callers must not race with other State operations.
func (s *State) LuaState() *lua.LState {
	return s.L
}

// Close releases the Lua state. After Close, IsLoaded reports false and
// all operations fail with ErrStateClosed.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.handler = nil
	s.L.Close()
	s.closed = true
}

// reportFault forwards a fault to the fault handler, if any. Must be
// called with the mutex held.
func (s *State) reportFault(err error) {
	if s.onFault != nil && err != nil {
		s.onFault(err)
	}
}

// emitPrint forwards script print output.
func (s *State) emitPrint(text string) {
	if s.onPrint != nil {
		s.onPrint(text)
	}
}

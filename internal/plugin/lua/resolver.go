package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// Resolve resolves a named member of obj as either a plain value or the
// result of a zero-argument call.
//
// A missing member is not a failure: Resolve returns ok=false without
// reporting anything. A callable member is invoked with zero arguments
// and its result returned. A fault raised during the call is reported
// through the state's fault handler, the stack is restored so subsequent
// calls are unaffected, and Resolve returns ok=false.
//
// This uniform convention lets a script declare every metadata field
// either as a constant or as a function computing it lazily.
func (s *State) Resolve(obj *lua.LTable, name string) (lua.LValue, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || obj == nil {
		return lua.LNil, false
	}

	v := obj.RawGetString(name)
	switch val := v.(type) {
	case *lua.LNilType:
		return lua.LNil, false
	case *lua.LFunction:
		result, err := s.callProtected(val)
		if err != nil {
			s.reportFault(err)
			return lua.LNil, false
		}
		if result == lua.LNil {
			return lua.LNil, false
		}
		return result, true
	default:
		return v, true
	}
}

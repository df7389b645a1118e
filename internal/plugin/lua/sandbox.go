package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Sandbox restricts what script code can reach inside one Lua state.
//
// States are created with only the base, table, string and math libraries
// open, so io, os, debug and package never exist. Install removes the
// remaining load-anything escape hatches (including require, which the
// base library registers even without package) and redirects print so
// script output reaches the host instead of stdout.
type Sandbox struct {
	L *lua.LState

	print func(text string)
}

// NewSandbox creates a sandbox for the Lua state. print receives the
// joined output of each print() call; it may be nil.
func NewSandbox(L *lua.LState, print func(text string)) *Sandbox {
	return &Sandbox{L: L, print: print}
}

// Install applies the sandbox restrictions.
func (s *Sandbox) Install() {
	// Functions that load and execute arbitrary code. require comes from
	// the base library, not package.
	dangerousFuncs := []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
	}
	for _, name := range dangerousFuncs {
		s.L.SetGlobal(name, lua.LNil)
	}

	s.installPrint()
}

// installPrint replaces print with a version that forwards output to the
// host. Arguments are converted with tostring semantics and joined with
// tabs, matching standard print.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		top := L.GetTop()
		parts := make([]string, 0, top)
		for i := 1; i <= top; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		if s.print != nil {
			s.print(strings.Join(parts, "\t"))
		}
		return 0
	}))
}

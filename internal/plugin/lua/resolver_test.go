package lua

import (
	"strings"
	"testing"

	glua "github.com/yuin/gopher-lua"
)

func loadHandler(t *testing.T, state *State, script string) *glua.LTable {
	t.Helper()
	if err := state.Load(script, "resolver_test.lua"); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	h := state.Handler()
	if h == nil {
		t.Fatal("Handler() = nil")
	}
	return h
}

func TestResolvePlainValue(t *testing.T) {
	state := NewState()
	defer state.Close()

	h := loadHandler(t, state, `return { name = "Plain" }`)

	v, ok := state.Resolve(h, "name")
	if !ok {
		t.Fatal("Resolve(name) not ok")
	}
	if v != glua.LString("Plain") {
		t.Errorf("Resolve(name) = %v, want Plain", v)
	}
}

func TestResolveFunctionValue(t *testing.T) {
	state := NewState()
	defer state.Close()

	// The resolver must not care whether a field is a constant or a
	// zero-argument function computing it.
	h := loadHandler(t, state, `
return {
    name = function() return "Computed" end,
}
`)

	v, ok := state.Resolve(h, "name")
	if !ok {
		t.Fatal("Resolve(name) not ok")
	}
	if v != glua.LString("Computed") {
		t.Errorf("Resolve(name) = %v, want Computed", v)
	}
}

func TestResolveMissing(t *testing.T) {
	var faults int
	state := NewState(WithFaultHandler(func(err error) { faults++ }))
	defer state.Close()

	h := loadHandler(t, state, `return {}`)

	// Absence is not failure: no fault is reported.
	if _, ok := state.Resolve(h, "author"); ok {
		t.Error("Resolve(author) ok for missing member")
	}
	if faults != 0 {
		t.Errorf("got %d faults for missing member, want 0", faults)
	}
}

func TestResolveThrowingFunction(t *testing.T) {
	var faults []string
	state := NewState(WithFaultHandler(func(err error) {
		faults = append(faults, err.Error())
	}))
	defer state.Close()

	h := loadHandler(t, state, `
return {
    name = function() error("metadata failure") end,
    author = "Still Fine",
}
`)

	if _, ok := state.Resolve(h, "name"); ok {
		t.Error("Resolve of throwing function reported ok")
	}
	if len(faults) != 1 {
		t.Fatalf("got %d faults, want 1", len(faults))
	}
	if !strings.Contains(faults[0], "metadata failure") {
		t.Errorf("fault = %q, want mention of metadata failure", faults[0])
	}

	// Exception state is cleared: subsequent resolution works.
	v, ok := state.Resolve(h, "author")
	if !ok || v != glua.LString("Still Fine") {
		t.Errorf("Resolve(author) after fault = %v, %v", v, ok)
	}
	if len(faults) != 1 {
		t.Errorf("unexpected additional faults: %v", faults)
	}
}

func TestResolveFunctionReturningNil(t *testing.T) {
	state := NewState()
	defer state.Close()

	h := loadHandler(t, state, `
return {
    name = function() end,
}
`)

	if _, ok := state.Resolve(h, "name"); ok {
		t.Error("Resolve ok for function returning nothing")
	}
}

func TestResolveNonStringValues(t *testing.T) {
	state := NewState()
	defer state.Close()

	h := loadHandler(t, state, `
return {
    count = 7,
    flag = true,
    formats = {"image/png", "image/gif"},
}
`)

	v, ok := state.Resolve(h, "count")
	if !ok || v != glua.LNumber(7) {
		t.Errorf("Resolve(count) = %v, %v", v, ok)
	}

	v, ok = state.Resolve(h, "flag")
	if !ok || v != glua.LTrue {
		t.Errorf("Resolve(flag) = %v, %v", v, ok)
	}

	v, ok = state.Resolve(h, "formats")
	if !ok {
		t.Fatal("Resolve(formats) not ok")
	}
	if _, isTable := v.(*glua.LTable); !isTable {
		t.Errorf("Resolve(formats) = %T, want table", v)
	}
}

func TestResolveNilObject(t *testing.T) {
	state := NewState()
	defer state.Close()

	if _, ok := state.Resolve(nil, "name"); ok {
		t.Error("Resolve on nil object reported ok")
	}
}

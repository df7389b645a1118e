package lua

import (
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/fanxy121/CopyQ/internal/item"
)

// Bridge converts values between Go and Lua for one state.
type Bridge struct {
	L *lua.LState
}

// NewBridge creates a Bridge for the given Lua state.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// RecordToTable marshals an item record into a Lua table mapping each
// format to its payload as a Lua string. Lua strings are byte strings, so
// binary payloads pass through unchanged.
func (b *Bridge) RecordToTable(r *item.Record) *lua.LTable {
	t := b.L.NewTable()
	for _, format := range r.Formats() {
		payload, _ := r.Get(format)
		t.RawSetString(format, lua.LString(payload))
	}
	return t
}

// TableToRecord unmarshals a script-produced table back into a record.
//
// Lua tables have no iteration order, so ordering is recovered from base:
// formats that existed before the script call keep their position, and
// script-added formats follow in sorted order. Entries whose key is not a
// string or whose value is not a string or number are ignored.
func (b *Bridge) TableToRecord(t *lua.LTable, base *item.Record) *item.Record {
	entries := make(map[string][]byte)
	t.ForEach(func(k, v lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			return
		}
		if payload, ok := payloadBytes(v); ok {
			entries[string(key)] = payload
		}
	})

	rec := item.NewRecord()
	if base != nil {
		for _, format := range base.Formats() {
			if payload, ok := entries[format]; ok {
				rec.Set(format, payload)
				delete(entries, format)
			}
		}
	}

	added := make([]string, 0, len(entries))
	for format := range entries {
		added = append(added, format)
	}
	sort.Strings(added)
	for _, format := range added {
		rec.Set(format, entries[format])
	}

	return rec
}

// payloadBytes converts a Lua value to payload bytes. Strings convert
// directly; numbers use their canonical text form.
func payloadBytes(v lua.LValue) ([]byte, bool) {
	switch val := v.(type) {
	case lua.LString:
		return []byte(val), true
	case lua.LNumber:
		return []byte(val.String()), true
	default:
		return nil, false
	}
}

// ToString coerces a Lua value to a Go string. Strings and numbers
// convert; everything else reports false.
func ToString(v lua.LValue) (string, bool) {
	switch val := v.(type) {
	case lua.LString:
		return string(val), true
	case lua.LNumber:
		return val.String(), true
	default:
		return "", false
	}
}

// ToStringSlice coerces a Lua value to an ordered string slice. A table
// yields its array part in order; a single string yields a one-element
// slice; everything else yields nil.
func ToStringSlice(v lua.LValue) []string {
	switch val := v.(type) {
	case *lua.LTable:
		n := val.Len()
		out := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			if s, ok := ToString(val.RawGetInt(i)); ok {
				out = append(out, s)
			}
		}
		return out
	case lua.LString:
		return []string{string(val)}
	default:
		return nil
	}
}

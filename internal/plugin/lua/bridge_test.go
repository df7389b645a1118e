package lua

import (
	"reflect"
	"testing"

	glua "github.com/yuin/gopher-lua"

	"github.com/fanxy121/CopyQ/internal/item"
)

func TestRecordTableRoundTrip(t *testing.T) {
	state := NewState()
	defer state.Close()
	bridge := NewBridge(state.LuaState())

	rec := item.NewRecord()
	rec.Set("text/plain", []byte("hello"))
	rec.Set("image/png", []byte{0x89, 0x50, 0x00, 0xff})
	rec.Set("text/html", []byte("<b>hi</b>"))

	table := bridge.RecordToTable(rec)
	back := bridge.TableToRecord(table, rec)

	if !rec.Equal(back) {
		t.Errorf("round trip mismatch:\n got %v\nwant %v", back.Formats(), rec.Formats())
	}
}

func TestTableToRecordKeepsBaseOrder(t *testing.T) {
	state := NewState()
	defer state.Close()
	bridge := NewBridge(state.LuaState())

	base := item.NewRecord()
	base.Set("c", []byte("3"))
	base.Set("a", []byte("1"))
	base.Set("b", []byte("2"))

	table := bridge.RecordToTable(base)
	back := bridge.TableToRecord(table, base)

	want := []string{"c", "a", "b"}
	if got := back.Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestTableToRecordAddedKeysSorted(t *testing.T) {
	state := NewState()
	defer state.Close()
	bridge := NewBridge(state.LuaState())

	base := item.NewRecord()
	base.Set("text/plain", []byte("x"))

	table := bridge.RecordToTable(base)
	table.RawSetString("zz/extra", glua.LString("z"))
	table.RawSetString("aa/extra", glua.LString("a"))

	back := bridge.TableToRecord(table, base)

	want := []string{"text/plain", "aa/extra", "zz/extra"}
	if got := back.Formats(); !reflect.DeepEqual(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestTableToRecordDroppedKeys(t *testing.T) {
	state := NewState()
	defer state.Close()
	bridge := NewBridge(state.LuaState())

	base := item.NewRecord()
	base.Set("keep", []byte("1"))
	base.Set("drop", []byte("2"))

	table := bridge.RecordToTable(base)
	table.RawSetString("drop", glua.LNil)

	back := bridge.TableToRecord(table, base)

	if back.Has("drop") {
		t.Error("removed key survived unmarshaling")
	}
	if !back.Has("keep") {
		t.Error("kept key lost")
	}
}

func TestTableToRecordIgnoresUnsupported(t *testing.T) {
	state := NewState()
	defer state.Close()
	bridge := NewBridge(state.LuaState())

	table := state.LuaState().NewTable()
	table.RawSetString("text/plain", glua.LString("ok"))
	table.RawSetString("number", glua.LNumber(5))
	table.RawSetString("nested", state.LuaState().NewTable())
	table.RawSetString("flag", glua.LTrue)
	table.RawSetInt(1, glua.LString("array entry"))

	back := bridge.TableToRecord(table, nil)

	if !back.Has("text/plain") {
		t.Error("string payload lost")
	}
	payload, _ := back.Get("number")
	if string(payload) != "5" {
		t.Errorf("number payload = %q, want %q", payload, "5")
	}
	if back.Has("nested") || back.Has("flag") {
		t.Error("unsupported values should be ignored")
	}
	if back.Len() != 2 {
		t.Errorf("Len() = %d, want 2", back.Len())
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in     glua.LValue
		want   string
		wantOK bool
	}{
		{glua.LString("text"), "text", true},
		{glua.LNumber(3), "3", true},
		{glua.LTrue, "", false},
		{glua.LNil, "", false},
	}

	for _, tt := range tests {
		got, ok := ToString(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ToString(%v) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestToStringSlice(t *testing.T) {
	state := NewState()
	defer state.Close()

	table := state.LuaState().NewTable()
	table.Append(glua.LString("image/png"))
	table.Append(glua.LString("image/gif"))

	want := []string{"image/png", "image/gif"}
	if got := ToStringSlice(table); !reflect.DeepEqual(got, want) {
		t.Errorf("ToStringSlice(table) = %v, want %v", got, want)
	}

	if got := ToStringSlice(glua.LString("text/plain")); !reflect.DeepEqual(got, []string{"text/plain"}) {
		t.Errorf("ToStringSlice(string) = %v", got)
	}

	if got := ToStringSlice(glua.LNumber(1)); got != nil {
		t.Errorf("ToStringSlice(number) = %v, want nil", got)
	}
	if got := ToStringSlice(glua.LNil); got != nil {
		t.Errorf("ToStringSlice(nil) = %v, want nil", got)
	}
}

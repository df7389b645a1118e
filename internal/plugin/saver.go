package plugin

import (
	"fmt"
	"io"

	lua "github.com/yuin/gopher-lua"

	"github.com/fanxy121/CopyQ/internal/item"
)

// scriptSaver decorates an inner saver with a script's optional transform
// hooks. It holds non-owning references to the inner saver and to the
// loader whose handler object supplies the hooks; it must not outlive
// either.
//
// The inner saver always runs first and its invariants are preserved
// unconditionally. Script behavior is layered on top as a strictly
// additive, best-effort transform: a malformed or throwing script
// degrades to "no transform", never to data loss.
type scriptSaver struct {
	inner  item.Saver
	loader *ScriptLoader
}

// SaveItems passes through to the inner saver.
func (s *scriptSaver) SaveItems(tab string, items []*item.Record, w io.Writer) error {
	return s.inner.SaveItems(tab, items, w)
}

// CanRemoveItems passes through to the inner saver.
func (s *scriptSaver) CanRemoveItems(items []*item.Record) error {
	return s.inner.CanRemoveItems(items)
}

// CanMoveItems passes through to the inner saver.
func (s *scriptSaver) CanMoveItems(items []*item.Record) bool {
	return s.inner.CanMoveItems(items)
}

// ItemsRemovedByUser passes through to the inner saver.
func (s *scriptSaver) ItemsRemovedByUser(items []*item.Record) {
	s.inner.ItemsRemovedByUser(items)
}

// CopyItem obtains the inner saver's record first, then applies the
// script's copyItem hook if present.
func (s *scriptSaver) CopyItem(tab string, data *item.Record) (*item.Record, error) {
	rec, err := s.inner.CopyItem(tab, data)
	if err != nil {
		return nil, err
	}
	s.apply("copyItem", rec)
	return rec, nil
}

// TransformItemData lets the inner saver transform the record in place,
// then applies the script's transformItemData hook if present.
func (s *scriptSaver) TransformItemData(tab string, data *item.Record) error {
	if err := s.inner.TransformItemData(tab, data); err != nil {
		return err
	}
	s.apply("transformItemData", data)
	return nil
}

// apply invokes the named script hook with the record marshaled into the
// script's value representation. A table result replaces the record; an
// absent result, an invalid result, or a fault keeps the record
// unchanged.
func (s *scriptSaver) apply(fnName string, rec *item.Record) {
	h := s.loader.lstate.Handler()
	if h == nil {
		return
	}
	fn, ok := h.RawGetString(fnName).(*lua.LFunction)
	if !ok {
		return
	}

	arg := s.loader.bridge.RecordToTable(rec)
	result, err := s.loader.lstate.CallMember(fn, arg)
	if err != nil {
		// Fault already reported through the loader's message bridge.
		return
	}

	switch v := result.(type) {
	case *lua.LTable:
		rec.ReplaceWith(s.loader.bridge.TableToRecord(v, rec))
	case *lua.LNilType:
		// No return value: keep the record as-is.
	default:
		s.loader.messages.Send(
			fmt.Sprintf("%s returned %s, expected table", fnName, result.Type()),
			MessageError,
		)
	}
}

// isFunction reports whether a Lua value is callable as a hook.
func isFunction(v lua.LValue) bool {
	_, ok := v.(*lua.LFunction)
	return ok
}

// Package plugin loads user-authored Lua scripts as item pipeline
// plugins.
//
// Each script file gets one ScriptLoader. The loader evaluates the script
// once in a sandboxed state (see the lua subpackage), resolves the
// handler object produced by the copyq_script entry point, and exposes
// plugin metadata through optional members of that object. Members may be
// plain values or zero-argument functions; the host does not care which.
//
// When the host needs to persist or transform an item it asks a loader
// (or the Registry) to wrap the currently active saver. The resulting
// decorator delegates to the inner saver first and then applies the
// script's copyItem/transformItemData hooks, replacing the record only
// when the hook returns a valid one. Script faults degrade to "no
// transform" and surface as warnings through the MessageBridge; nothing
// a script does can abort the pipeline or crash the host.
//
// Lifecycle: Unloaded -> Loading -> {Loaded | Failed}. Loading happens
// exactly once, at construction. A Failed loader behaves like an unloaded
// one and is skipped by the host.
package plugin

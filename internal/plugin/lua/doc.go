// Package lua wraps the gopher-lua runtime for script plugins.
//
// Each script runs in its own sandboxed State. Loading evaluates the
// script source once and resolves the handler object produced by the
// copyq_script entry point. The Bridge converts item records and other
// values between Go and Lua, and Resolve probes optional members of the
// handler object with a uniform value-or-zero-arg-call convention.
//
// A State is not safe for concurrent use; the host must serialize all
// operations on one State. Independent States share nothing.
package lua

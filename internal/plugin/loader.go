package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fanxy121/CopyQ/internal/item"
	"github.com/fanxy121/CopyQ/internal/logging"
	plua "github.com/fanxy121/CopyQ/internal/plugin/lua"
)

const (
	// Priority orders script loaders against built-in ones when several
	// can handle the same item. Every script loader uses this value.
	Priority = 20

	// IconCog is the host's default icon for script plugins. Scripts do
	// not customize it.
	IconCog = "cog"
)

// identityPattern matches characters replaced by underscores when
// deriving a plugin identity from a file name.
var identityPattern = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// ScriptLoader is the top-level entity for one script file. It owns the
// script's sandbox and handler object, exposes plugin metadata, and
// constructs saver decorators and per-item scripting instances on demand.
//
// The identity and source are fixed at construction. Loading happens
// exactly once, at construction; a loader that did not reach StateLoaded
// contributes nothing and is skipped by the host.
type ScriptLoader struct {
	id       string
	baseName string
	source   string
	origin   string

	state    State
	lstate   *plua.State
	bridge   *plua.Bridge
	messages *MessageBridge
}

// NewScriptLoader reads a script file and loads it. A read failure is
// logged and yields a Failed loader; it is never fatal to the host.
func NewScriptLoader(scriptPath string, sink logging.Sink) *ScriptLoader {
	source, err := os.ReadFile(scriptPath)
	if err != nil {
		l := newLoader("", scriptPath, sink)
		l.messages.Send(fmt.Sprintf("Failed to open %q: %v", scriptPath, err), MessageError)
		l.state = StateFailed
		return l
	}
	return NewScriptLoaderFromSource(string(source), scriptPath, sink)
}

// NewScriptLoaderFromSource loads a script from in-memory source text.
// originPath determines the plugin identity and display-name fallback.
func NewScriptLoaderFromSource(source, originPath string, sink logging.Sink) *ScriptLoader {
	l := newLoader(source, originPath, sink)
	l.load()
	return l
}

func newLoader(source, originPath string, sink logging.Sink) *ScriptLoader {
	name := filepath.Base(originPath)
	ext := filepath.Ext(name)

	// Only the extension's text is dropped for the identity; its dot stays
	// and becomes an underscore like any other special character.
	idBase := strings.TrimSuffix(name, strings.TrimPrefix(ext, "."))

	l := &ScriptLoader{
		baseName: strings.TrimSuffix(name, ext),
		id:       identityPattern.ReplaceAllString(idBase, "_"),
		source:   source,
		origin:   originPath,
		state:    StateUnloaded,
	}
	l.messages = NewMessageBridge(l.id, sink)
	return l
}

// load evaluates the script once and settles the terminal state.
func (l *ScriptLoader) load() {
	l.state = StateLoading

	l.lstate = plua.NewState(
		plua.WithFaultHandler(func(err error) {
			l.messages.Send(err.Error(), MessageException)
		}),
		plua.WithPrintHandler(func(text string) {
			l.messages.Send(text, MessageNote)
		}),
	)
	l.bridge = plua.NewBridge(l.lstate.LuaState())

	if err := l.lstate.Load(l.source, l.origin); err != nil {
		// The fault handler already reported the details.
		l.state = StateFailed
		return
	}

	if !l.lstate.IsLoaded() {
		if strings.TrimSpace(l.source) != "" {
			l.messages.Send("script does not provide a handler object", MessageNote)
		}
		l.state = StateFailed
		return
	}

	l.state = StateLoaded
}

// State returns the loader's lifecycle state.
func (l *ScriptLoader) State() State {
	return l.state
}

// IsLoaded returns true only if the script produced a handler object.
func (l *ScriptLoader) IsLoaded() bool {
	return l.state == StateLoaded
}

// Priority returns the fixed ordering constant for script loaders.
func (l *ScriptLoader) Priority() int {
	return Priority
}

// Identity returns the stable identifier derived from the script's file
// name: the name with the extension's text removed (its dot remains) and
// every character outside [A-Za-z0-9_] replaced by an underscore, so
// "my plugin!.lua" yields "my_plugin__".
func (l *ScriptLoader) Identity() string {
	return l.id
}

// Name returns the plugin's display name, falling back to the script
// file's base name.
func (l *ScriptLoader) Name() string {
	return l.stringValue("name", l.baseName)
}

// Author returns the plugin author, if declared.
func (l *ScriptLoader) Author() string {
	return l.stringValue("author", "")
}

// Description returns the plugin description, if declared.
func (l *ScriptLoader) Description() string {
	return l.stringValue("description", "")
}

// Icon returns the host's default plugin icon.
func (l *ScriptLoader) Icon() string {
	return IconCog
}

// FormatsToSave returns the MIME formats the plugin wants persisted, in
// script order. Unresolved or invalid values yield an empty slice.
func (l *ScriptLoader) FormatsToSave() []string {
	if !l.IsLoaded() {
		return nil
	}
	v, ok := l.lstate.Resolve(l.lstate.Handler(), "formatsToSave")
	if !ok {
		return nil
	}
	return plua.ToStringSlice(v)
}

// WrapSaver composes a saver decorator around inner if the handler object
// defines a copyItem or transformItemData hook. Otherwise inner is
// returned unchanged; the decorator is only introduced when it has work
// to do. The chain is rebuilt on every call, never mutated.
func (l *ScriptLoader) WrapSaver(inner item.Saver) item.Saver {
	if !l.IsLoaded() {
		return inner
	}
	h := l.lstate.Handler()
	if !isFunction(h.RawGetString("copyItem")) && !isFunction(h.RawGetString("transformItemData")) {
		return inner
	}
	return &scriptSaver{inner: inner, loader: l}
}

// CreateItemScriptable returns a fresh per-item scripting instance that
// evaluates the same source text in its own isolated context. Errors
// during that evaluation are the instance's own concern; they never
// affect this loader's state.
func (l *ScriptLoader) CreateItemScriptable() *ItemScriptable {
	return &ItemScriptable{
		source:   l.source,
		origin:   l.origin,
		messages: l.messages,
	}
}

// Close releases the plugin's sandbox. The loader must not be used after
// Close.
func (l *ScriptLoader) Close() {
	if l.lstate != nil {
		l.lstate.Close()
	}
}

// stringValue resolves a handler member as text, falling back when the
// member is absent, faults, or yields an empty or non-text value.
func (l *ScriptLoader) stringValue(name, fallback string) string {
	if !l.IsLoaded() {
		return fallback
	}
	v, ok := l.lstate.Resolve(l.lstate.Handler(), name)
	if !ok {
		return fallback
	}
	s, ok := plua.ToString(v)
	if !ok || s == "" {
		return fallback
	}
	return s
}

package plugin

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/fanxy121/CopyQ/internal/item"
	"github.com/fanxy121/CopyQ/internal/logging"
)

// Registry discovers script plugins on the filesystem and keeps the
// loaders that reached StateLoaded.
type Registry struct {
	paths   []string
	sink    logging.Sink
	loaders []*ScriptLoader
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithPaths sets the script search paths.
func WithPaths(paths ...string) RegistryOption {
	return func(r *Registry) {
		r.paths = paths
	}
}

// NewRegistry creates a registry delivering plugin diagnostics to sink.
func NewRegistry(sink logging.Sink, opts ...RegistryOption) *Registry {
	r := &Registry{sink: sink}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Discover scans the search paths for *.lua scripts and loads each one.
// Loaders that fail to load are dropped after reporting; a missing search
// path is not an error. Loaders are ordered by priority, then identity.
func (r *Registry) Discover() []*ScriptLoader {
	r.closeLoaders()

	for _, basePath := range r.paths {
		entries, err := os.ReadDir(basePath)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
				continue
			}
			loader := NewScriptLoader(filepath.Join(basePath, entry.Name()), r.sink)
			if !loader.IsLoaded() {
				loader.Close()
				continue
			}
			r.loaders = append(r.loaders, loader)
		}
	}

	sort.Slice(r.loaders, func(i, j int) bool {
		if r.loaders[i].Priority() != r.loaders[j].Priority() {
			return r.loaders[i].Priority() < r.loaders[j].Priority()
		}
		return r.loaders[i].Identity() < r.loaders[j].Identity()
	})

	return r.Loaders()
}

// Loaders returns the loaded plugins in priority order.
func (r *Registry) Loaders() []*ScriptLoader {
	return append([]*ScriptLoader{}, r.loaders...)
}

// WrapSaver builds the full saver chain: every loaded plugin that has
// transform hooks decorates the previously active saver. The chain is
// assembled freshly on each call.
func (r *Registry) WrapSaver(inner item.Saver) item.Saver {
	saver := inner
	for _, loader := range r.loaders {
		saver = loader.WrapSaver(saver)
	}
	return saver
}

// Close releases all loaders.
func (r *Registry) Close() {
	r.closeLoaders()
}

func (r *Registry) closeLoaders() {
	for _, loader := range r.loaders {
		loader.Close()
	}
	r.loaders = nil
}

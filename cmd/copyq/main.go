// Package main is the entry point for the copyq script-plugin host.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/fanxy121/CopyQ/internal/item"
	"github.com/fanxy121/CopyQ/internal/logging"
	"github.com/fanxy121/CopyQ/internal/plugin"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

type options struct {
	PluginPaths []string
	LogLevel    string
	Tab         string
	Transform   bool
	Copy        bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	logger := logging.NewLogger(logging.Config{
		Level:  logging.ParseLevel(opts.LogLevel),
		Output: os.Stderr,
		Prefix: "copyq",
	})

	registry := plugin.NewRegistry(logger, plugin.WithPaths(opts.PluginPaths...))
	defer registry.Close()

	loaders := registry.Discover()
	logger.Debug("loaded %d script plugin(s)", len(loaders))

	switch {
	case opts.Transform, opts.Copy:
		if err := runItems(registry, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	default:
		listPlugins(loaders)
	}

	return 0
}

// listPlugins prints metadata for every loaded plugin.
func listPlugins(loaders []*plugin.ScriptLoader) {
	for _, l := range loaders {
		fmt.Printf("%s (priority %d)\n", l.Identity(), l.Priority())
		fmt.Printf("  name:        %s\n", l.Name())
		if author := l.Author(); author != "" {
			fmt.Printf("  author:      %s\n", author)
		}
		if desc := l.Description(); desc != "" {
			fmt.Printf("  description: %s\n", desc)
		}
		if formats := l.FormatsToSave(); len(formats) > 0 {
			fmt.Printf("  formats:     %v\n", formats)
		}
	}
}

// runItems reads item JSON lines from stdin, pushes each through the
// composed saver chain and writes the result to stdout.
func runItems(registry *plugin.Registry, opts options) error {
	saver := registry.WrapSaver(item.NewJSONSaver())

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		rec, err := item.UnmarshalJSON(line)
		if err != nil {
			return err
		}

		if opts.Copy {
			rec, err = saver.CopyItem(opts.Tab, rec)
		} else {
			err = saver.TransformItemData(opts.Tab, rec)
		}
		if err != nil {
			return err
		}

		out, err := item.MarshalJSON(rec)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}

	return scanner.Err()
}

func parseFlags() options {
	// A .env file may supply defaults; a missing file is fine.
	_ = godotenv.Load()

	var opts options
	var pluginPath string
	var showVersion bool

	flag.StringVar(&pluginPath, "plugins", os.Getenv("COPYQ_PLUGIN_PATH"), "Script plugin directories (path-list separated)")
	flag.StringVar(&opts.LogLevel, "log-level", envOr("COPYQ_LOG_LEVEL", "note"), "Log level (debug, note, warning, error)")
	flag.StringVar(&opts.Tab, "tab", "clipboard", "Tab name passed to savers")
	flag.BoolVar(&opts.Transform, "transform", false, "Transform item JSON lines from stdin")
	flag.BoolVar(&opts.Copy, "copy", false, "Apply copyItem hooks to item JSON lines from stdin")
	flag.BoolVar(&showVersion, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "copyq - script-extensible clipboard item pipeline\n\n")
		fmt.Fprintf(os.Stderr, "Usage: copyq [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  copyq -plugins ./scripts\n")
		fmt.Fprintf(os.Stderr, "  copyq -plugins ./scripts -transform < items.jsonl\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("copyq %s (%s)\n", version, commit)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "debug", "note", "warning", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q\n", opts.LogLevel)
		os.Exit(1)
	}

	if pluginPath != "" {
		opts.PluginPaths = filepath.SplitList(pluginPath)
	}

	return opts
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

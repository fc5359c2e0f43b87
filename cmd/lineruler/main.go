// Package main is the entry point for lineruler.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/lineruler/internal/config"
	"github.com/dshills/lineruler/internal/logging"
	"github.com/dshills/lineruler/internal/renderer"
	"github.com/dshills/lineruler/internal/renderer/a11y"
	"github.com/dshills/lineruler/internal/renderer/backend"
	"github.com/dshills/lineruler/internal/renderer/dirty"
	"github.com/dshills/lineruler/internal/watcher"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// defaultWidth is used when the output is not a terminal.
const defaultWidth = 80

var errUsage = errors.New("usage error")

type options struct {
	ConfigPath  string
	Width       int
	Wrap        int
	WrapWord    bool
	NoWrap      bool
	Locale      string
	LogLevel    string
	A11y        bool
	View        bool
	Watch       bool
	ShowVersion bool
	Files       []string

	// set records which flags were given explicitly.
	set map[string]bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.ShowVersion {
		fmt.Fprintf(stdout, "lineruler %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: loading configuration: %v\n", err)
		return 1
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	log := logging.New(logging.Options{
		Output: stderr,
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: logging.ParseFormat(cfg.Logging.Format),
	})

	text, path, err := readInput(opts.Files, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	doc := renderer.NewDocument(text, cfg.Layout)
	ruler, err := renderer.New(doc, cfg.Ruler, renderer.WithLogger(logging.WithComponent(log, "ruler")))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.View {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := view(ctx, cfg, doc, ruler, path, opts.Watch, log); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	width := opts.Width
	if width <= 0 {
		width = terminalWidth(stdout)
	}
	doc.SetViewWidth(width - ruler.Columns())
	ruler.Invalidate(dirty.ReasonResized)

	if opts.A11y {
		err = writeAccessibility(stdout, ruler)
	} else {
		err = renderer.WriteNumbered(stdout, doc, ruler)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("lineruler", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	fs.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	fs.IntVar(&opts.Width, "width", 0, "Output width in cells (0 = terminal width)")
	fs.IntVar(&opts.Wrap, "wrap", 0, "Wrap column (0 = output width)")
	fs.BoolVar(&opts.WrapWord, "wrap-word", true, "Wrap at word boundaries")
	fs.BoolVar(&opts.NoWrap, "no-wrap", false, "Disable soft wrapping")
	fs.StringVar(&opts.Locale, "locale", "", "Locale for numbers and accessibility labels")
	fs.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.BoolVar(&opts.A11y, "a11y", false, "Print accessibility records as JSON")
	fs.BoolVar(&opts.View, "view", false, "Open the interactive viewer")
	fs.BoolVar(&opts.Watch, "watch", false, "Reload the file when it changes (with -view)")
	fs.BoolVar(&opts.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&opts.ShowVersion, "v", false, "Show version information (shorthand)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "lineruler - number the lines of a text file, including wrapped rows\n\n")
		fmt.Fprintf(stderr, "Usage: lineruler [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  lineruler notes.txt               Print numbered lines\n")
		fmt.Fprintf(stderr, "  lineruler -width 60 < notes.txt   Wrap to 60 cells\n")
		fmt.Fprintf(stderr, "  lineruler -a11y notes.txt         Dump accessibility records\n")
		fmt.Fprintf(stderr, "  lineruler -view -watch notes.txt  Follow a file interactively\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	opts.Files = fs.Args()

	if len(opts.Files) > 1 {
		return opts, fmt.Errorf("%w: at most one file may be given", errUsage)
	}
	if opts.Watch && !opts.View {
		return opts, fmt.Errorf("%w: -watch requires -view", errUsage)
	}
	if opts.Watch && (len(opts.Files) == 0 || opts.Files[0] == "-") {
		return opts, fmt.Errorf("%w: -watch requires a file", errUsage)
	}
	if opts.A11y && opts.View {
		return opts, fmt.Errorf("%w: -a11y and -view are exclusive", errUsage)
	}
	return opts, nil
}

// applyFlags overrides configuration with explicitly given flags.
func applyFlags(cfg *config.Config, opts options) {
	if opts.set["wrap"] {
		cfg.Layout.WrapWidth = opts.Wrap
	}
	if opts.set["wrap-word"] {
		cfg.Layout.WrapAtWord = opts.WrapWord
	}
	if opts.set["no-wrap"] {
		cfg.Layout.NoWrap = opts.NoWrap
	}
	if opts.set["locale"] {
		cfg.Ruler.Locale = opts.Locale
	}
	if opts.set["log-level"] {
		cfg.Logging.Level = opts.LogLevel
	}
}

// readInput reads the named file, or stdin when no file (or "-") is given.
func readInput(files []string, stdin io.Reader) (text, path string, err error) {
	if len(files) == 0 || files[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "", nil
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		return "", "", err
	}
	return string(data), files[0], nil
}

func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func writeAccessibility(w io.Writer, ruler *renderer.Ruler) error {
	data, err := a11y.Export(ruler.AccessibilityRecords())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func view(ctx context.Context, cfg config.Config, doc *renderer.Document, ruler *renderer.Ruler, path string, watch bool, log logging.Logger) error {
	theme, err := backend.ThemeFromConfig(cfg.Colors)
	if err != nil {
		return err
	}
	v, err := backend.NewTerminalViewer(doc, ruler, theme, log)
	if err != nil {
		return fmt.Errorf("creating terminal: %w", err)
	}
	if err := v.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer v.Fini()

	if watch {
		w, err := watcher.New(path, func(watcher.Event) {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Warn("reload failed", "path", path, "error", err)
				return
			}
			if err := v.Reload(string(data)); err != nil {
				log.Warn("reload dropped", "error", err)
			}
		}, watcher.WithLogger(log))
		if err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		defer w.Close()
	}

	return v.Run(ctx)
}

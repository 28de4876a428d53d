package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"

	"github.com/convdesk/convdesk/internal/config"
	"github.com/convdesk/convdesk/internal/logger"
	"github.com/convdesk/convdesk/internal/search"
	"github.com/convdesk/convdesk/internal/store"
	"github.com/convdesk/convdesk/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func fatal(format string, args ...any) {
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	configPath := flag.String("config", "", "Config file (default ~/.convdesk/config.yaml)")
	dbPath := flag.String("db", "", "SQLite database (default ~/.convdesk/convdesk.db)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("convdesk", version)
		os.Exit(0)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fatal("convdesk is interactive and needs a terminal")
	}

	stateDir, err := config.DefaultDir()
	if err != nil {
		fatal("%v", err)
	}
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		fatal("creating %s: %v", stateDir, err)
	}

	// One instance per state directory. A second UI on the same SQLite
	// file would fight the first over the write lock.
	lock := flock.New(filepath.Join(stateDir, "app.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		fatal("acquiring instance lock: %v", err)
	}
	if !locked {
		fatal("another convdesk instance is already running")
	}
	defer lock.Unlock()

	path := *configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			fatal("%v", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		fatal("%v", err)
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = filepath.Join(stateDir, "convdesk.db")
	}

	logDir := filepath.Join(stateDir, "logs")
	log, err := logger.New(logDir, cfg.LogLevel)
	if err != nil {
		fatal("opening session log: %v", err)
	}
	defer log.Close()
	log.Info(fmt.Sprintf("convdesk %s starting, db=%s", version, cfg.Database.Path))

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		fatal("%v", err)
	}
	defer st.Close()
	if err := st.Init(); err != nil {
		fatal("initializing database: %v", err)
	}
	if err := st.Seed(context.Background()); err != nil {
		fatal("seeding database: %v", err)
	}

	engine := search.New(st, logDir)

	app := tui.NewApp(cfg, st, engine, log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error(fmt.Sprintf("tui: %v", err))
		fatal("%v", err)
	}
	log.Info("convdesk exiting")
}

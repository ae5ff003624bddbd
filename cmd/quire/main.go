package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mveigas/quire/internal/config"
	"github.com/mveigas/quire/internal/document"
	"github.com/mveigas/quire/internal/history"
	"github.com/mveigas/quire/internal/pager"
	"github.com/mveigas/quire/internal/render"
	"github.com/mveigas/quire/internal/tui"
	"github.com/mveigas/quire/internal/watch"
)

func main() {
	configPath := flag.String("config", "", "config file (default: <user config dir>/quire/config.toml)")
	watchMode := flag.String("watch", "", "change detection, poll or notify (default from config)")
	interval := flag.Duration("interval", 0, "poll interval, eg. 500ms (default from config)")
	noHistory := flag.Bool("no-history", false, "do not restore or save reading positions")
	forget := flag.Bool("forget", false, "drop the saved position for the document and exit")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("usage: quire [flags] <document>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	path, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		fmt.Println("failed to resolve document path:", err)
		os.Exit(1)
	}

	// The TUI owns the terminal; stray log writes would garble it.
	if debugPath := os.Getenv("QUIRE_DEBUG"); debugPath != "" {
		logFile, err := tea.LogToFile(debugPath, "quire")
		if err != nil {
			fmt.Println("failed to open debug log:", err)
			os.Exit(1)
		}
		defer logFile.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Println("failed to load config:", err)
		os.Exit(1)
	}
	if *watchMode != "" {
		cfg.Watch.Mode = *watchMode
	}
	if *interval != 0 {
		cfg.Watch.Interval = config.Duration(*interval)
	}
	if *noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		fmt.Println("invalid options:", err)
		os.Exit(1)
	}

	historyPath := cfg.History.Path
	if historyPath == "" && (*forget || cfg.History.Enabled) {
		historyPath, err = history.DefaultPath()
		if err != nil {
			fmt.Println("failed to resolve history path:", err)
			os.Exit(1)
		}
	}

	if *forget {
		if err := forgetPosition(historyPath, path); err != nil {
			fmt.Println("failed to forget position:", err)
			os.Exit(1)
		}
		fmt.Println("forgot saved position for", path)
		return
	}

	handle, err := document.Open(path)
	if err != nil {
		fmt.Println("failed to open document:", err)
		os.Exit(1)
	}
	defer handle.Close()

	session := pager.NewSession(handle, render.New())

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(historyPath)
		if err != nil {
			fmt.Println("history disabled:", err)
		} else {
			defer store.Close()
			if page, err := store.Position(path); err == nil {
				// A saved page that no longer exists is dropped here.
				session.Goto(page)
			}
		}
	}

	watcher, probe, err := buildWatcher(context.Background(), path, cfg.Watch)
	if err != nil {
		fmt.Println("failed to start watcher:", err)
		os.Exit(1)
	}
	defer watcher.Stop()

	reconciler, err := pager.NewReconciler(session, probe)
	if err != nil {
		fmt.Println("failed to fingerprint document:", err)
		os.Exit(1)
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Session:    session,
			Reconciler: reconciler,
			Watcher:    watcher,
			History:    store,
		}),
		opts...,
	)

	if _, err := program.Run(); err != nil {
		fmt.Println("program error:", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	defaultPath, err := config.DefaultPath()
	if err != nil {
		// No resolvable config dir means no config file; run on defaults.
		return config.Default(), nil
	}
	return config.Load(defaultPath)
}

// buildWatcher starts the watcher for the configured mode and picks the
// matching fingerprint probe. Poll ticks run the probe every interval,
// so polling stats the file; notify signals are rare, so they can
// afford a content hash that also catches same-size rewrites.
func buildWatcher(ctx context.Context, path string, wc config.WatchConfig) (watch.Watcher, pager.Prober, error) {
	if wc.Mode == config.ModeNotify {
		notifier, err := watch.NewNotifier(path, wc.Debounce.Std())
		if err == nil {
			if err = notifier.Start(ctx); err == nil {
				return notifier, watch.NewHashProbe(path), nil
			}
		}
		log.Printf("[watch] notify unavailable, polling instead: %v", err)
	}
	poller := watch.NewPoller(wc.Interval.Std())
	if err := poller.Start(ctx); err != nil {
		return nil, nil, err
	}
	return poller, watch.NewStatProbe(path), nil
}

func forgetPosition(historyPath, docPath string) error {
	store, err := history.Open(historyPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Forget(docPath)
}

// Command ls-jiazi is a terminal orrery that labels simulated time with the
// sexagenary calendar and the 24 solar terms.
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
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-jiazi/internal/config"
	"github.com/litescript/ls-jiazi/internal/cycle"
	"github.com/litescript/ls-jiazi/internal/logging"
	"github.com/litescript/ls-jiazi/internal/orbit"
	"github.com/litescript/ls-jiazi/internal/scene"
	"github.com/litescript/ls-jiazi/internal/state"
	"github.com/litescript/ls-jiazi/internal/timeutil"
	"github.com/litescript/ls-jiazi/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	jsonPath      string
	cycleName     string
	cyclesMode    bool
	watchInterval time.Duration
)

const (
	minWatch = 1 * time.Second
	maxWatch = 1 * time.Hour
)

func main() {
	atFlag := flag.String("at", "", "Simulated start instant, RFC3339 (default now)")
	configPath := flag.String("config", "", "YAML config file")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "Write logs to this file (TUI logs are discarded otherwise)")
	lat := flag.Float64("lat", 0, "Observer latitude in degrees, north positive")
	lon := flag.Float64("lon", 0, "Observer longitude in degrees, east positive")
	flag.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	flag.StringVar(&jsonPath, "json", "", "Export JSON frame to file (use - for stdout)")
	flag.StringVar(&cycleName, "cycle", "", "Resolve a cycle name such as 壬寅 and print its year and body")
	flag.BoolVar(&cyclesMode, "cycles", false, "Print the 60-entry cycle table")
	flag.DurationVar(&watchInterval, "watch", 0, "Repeat headless output at interval (e.g., 30s)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			fatal(err)
		}
	}

	latSet, lonSet := false, false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "lat":
			latSet = true
		case "lon":
			lonSet = true
		}
	})
	if latSet != lonSet {
		fatal(errors.New("-lat and -lon must be given together"))
	}
	if latSet {
		cfg.SetObserver(*lat, *lon, "")
		if err := cfg.Validate(); err != nil {
			fatal(err)
		}
	}

	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	}
	path := cfg.Log.File
	if *logFile != "" {
		path = *logFile
	}

	clock := timeutil.RealClock{}
	start := clock.Now()
	if *atFlag != "" {
		t, err := time.Parse(time.RFC3339, *atFlag)
		if err != nil {
			fatal(fmt.Errorf("parse -at: %w", err))
		}
		start = t
	}

	// Create context with cancellation
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	requested := summaryMode || jsonPath != "" || cycleName != "" || cyclesMode
	headless, summary := selectMode(requested, summaryMode, isTTY)
	summaryMode = summary

	logger, closer, err := openLogger(path, logging.ParseLevel(level), headless)
	if err != nil {
		fatal(err)
	}
	defer closer.Close()

	composer, err := buildComposer(cfg, logger)
	if err != nil {
		fatal(err)
	}

	stateCfg := state.DefaultConfig()
	stateCfg.SpeedDaysPerSecond = cfg.Playback.SpeedDaysPerSecond
	stateCfg.Playing = cfg.Playback.Playing
	stateMgr := state.NewManager(stateCfg, start)

	if headless {
		if !requested {
			logger.Info("stdout is not a terminal, printing summary instead of the TUI")
		}
		if err := runHeadless(ctx, composer, stateMgr, clock, *atFlag != "", isTTY, logger); err != nil {
			fatal(err)
		}
		return
	}

	camCfg, err := cfg.CameraConfig()
	if err != nil {
		fatal(err)
	}

	model := ui.New(ui.Options{
		State:    stateMgr,
		Composer: composer,
		Camera:   camCfg,
		Clock:    clock,
		Log:      logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Run TUI (blocks until quit)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// selectMode decides between the TUI and headless output. The TUI needs a
// terminal on stdout; without one the summary is printed instead.
func selectMode(requested, summary, isTTY bool) (headless, printSummary bool) {
	if requested {
		return true, summary
	}
	if !isTTY {
		return true, true
	}
	return false, summary
}

// watchSeparator is written between repeated headless outputs. A terminal
// is cleared so each frame redraws in place; pipes and files get a blank line.
func watchSeparator(isTTY bool) string {
	if isTTY {
		return "\033[H\033[2J"
	}
	return "\n"
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openLogger picks the log destination. The TUI owns the terminal, so
// without a log file its logs are dropped.
func openLogger(path string, level logging.Level, headless bool) (*logging.Logger, io.Closer, error) {
	if path != "" {
		return logging.OpenFile(path, level)
	}
	if headless {
		return logging.New(level), nopCloser{}, nil
	}
	return logging.Discard(), nopCloser{}, nil
}

func buildComposer(cfg *config.Config, logger *logging.Logger) (*scene.Composer, error) {
	epoch, err := cfg.EpochTime()
	if err != nil {
		return nil, err
	}
	params, err := cfg.OrbitParams()
	if err != nil {
		return nil, err
	}
	model, err := orbit.NewModel(epoch, params, logger.With("orbit"))
	if err != nil {
		return nil, fmt.Errorf("orbit model: %w", err)
	}
	return scene.NewComposer(model, cfg.ObserverLocation(), logger.With("scene")), nil
}

// runHeadless handles all headless modes without starting TUI.
func runHeadless(ctx context.Context, composer *scene.Composer, stateMgr *state.Manager, clock timeutil.Clock, pinned, isTTY bool, logger *logging.Logger) error {

	outputOnce := func() error {
		refYear := clock.Now().Year()

		if cycleName != "" {
			entry, body, err := cycle.Resolve(cycleName, refYear)
			if err != nil {
				return err
			}
			elem, _ := cycle.ElementOf(entry.Name)
			fmt.Fprintf(os.Stdout, "%s  #%d  %d  %s  → %s\n", entry.Name, entry.CycleIndex, entry.AnchorYear, elem, body.DisplayName())
		}

		if cyclesMode {
			scene.WriteCycleTable(os.Stdout, cycle.Generate(refYear))
		}

		if jsonPath == "" && !summaryMode {
			return nil
		}
		frame := composer.Compose(stateMgr.SimTime())

		// Export JSON if requested
		if jsonPath != "" {
			export := scene.Export(frame)
			if jsonPath == "-" {
				if err := export.WriteJSON(os.Stdout); err != nil {
					return fmt.Errorf("write JSON to stdout: %w", err)
				}
			} else if err := writeJSONFile(jsonPath, export); err != nil {
				return err
			}
		}

		// Print summary table if requested
		if summaryMode {
			scene.WriteSummaryTable(os.Stdout, frame)
		}
		return nil
	}

	// Single run
	if watchInterval == 0 {
		return outputOnce()
	}

	if watchInterval < minWatch {
		watchInterval = minWatch
	} else if watchInterval > maxWatch {
		watchInterval = maxWatch
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	stateMgr.SetTickInterval(watchInterval)
	logger.Debug("headless: watching every %s", stateMgr.TickInterval())

	ticker := time.NewTicker(stateMgr.TickInterval())
	defer ticker.Stop()

	last := clock.Now()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("headless: shutting down")
			return nil
		case <-ticker.C:
			now := clock.Now()
			switch {
			case stateMgr.Playing():
				stateMgr.Advance(now.Sub(last))
			case !pinned:
				stateMgr.SetSimTime(now)
			}
			last = now
			fmt.Fprint(os.Stdout, watchSeparator(isTTY))
			if err := outputOnce(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeJSONFile(path string, export *scene.FrameExport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create JSON file: %w", err)
	}
	defer f.Close()
	if err := export.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

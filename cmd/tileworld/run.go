package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/samdwyer/tileworld/internal/config"
	"github.com/samdwyer/tileworld/internal/game"
	"github.com/samdwyer/tileworld/internal/gfx"
	tscreen "github.com/samdwyer/tileworld/internal/platform/term"
	"github.com/samdwyer/tileworld/internal/platform/window"
	"github.com/samdwyer/tileworld/internal/storage"
	"github.com/samdwyer/tileworld/internal/telemetry"
)

var (
	flagBackend string
	flagMode    string
	flagZoom    float64
	flagFPS     int
	flagHUD     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Open the world (default command)",
	Long: `Build the layered world and draw it until the window is closed.

Keys (both backends):
  arrows   pan the viewport one tile
  + / -    zoom in / out
  q, Esc   quit`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBackend, "backend", "", "Backend: window or terminal")
	cmd.Flags().StringVar(&flagMode, "mode", "", "Render mode: viewport or direct")
	cmd.Flags().Float64Var(&flagZoom, "zoom", 0, "Viewport zoom factor")
	cmd.Flags().IntVar(&flagFPS, "fps", 0, "Frame rate when the display reports none")
	cmd.Flags().BoolVar(&flagHUD, "hud", false, "Show the camera line (terminal backend)")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = flagBackend
	}
	if flags.Changed("mode") {
		cfg.Render.Mode = flagMode
	}
	if flags.Changed("zoom") {
		cfg.Viewport.Zoom = flagZoom
	}
	if flags.Changed("fps") {
		cfg.Render.FallbackFPS = flagFPS
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		logger.Debug("running without tracing", "reason", err)
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error("telemetry shutdown failed", "error", err)
			}
		}()
	}

	backend, logFile, err := openBackend(cfg, logger)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}

	opts, err := game.OptionsFromConfig(cfg)
	if err != nil {
		backend.Close()
		return err
	}
	g, err := game.New(ctx, backend, opts, logger)
	if err != nil {
		backend.Close()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	stats, runErr := g.Run(ctx)
	if err := g.Close(); err != nil {
		logger.Error("closing backend failed", "error", err)
	}
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if cfg.Storage.Enabled {
		recordRun(cfg, backend.Name(), opts, stats, logger)
	}
	return runErr
}

// openBackend creates the configured backend. The terminal backend takes
// over the tty, so logging moves to the log file first; the returned file
// is nil otherwise and must be closed after the backend.
func openBackend(cfg config.Config, logger *log.Logger) (game.Backend, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendTerminal:
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return nil, nil, errors.New("the terminal backend needs a tty on stdout")
		}
		logFile, err := redirectLog(logger, cfg.LogFile)
		if err != nil {
			return nil, nil, err
		}
		screen, err := tscreen.NewScreen()
		if err != nil {
			if logFile != nil {
				logger.SetOutput(os.Stderr)
				logFile.Close()
			}
			return nil, nil, fmt.Errorf("failed to open terminal: %w", err)
		}
		b := tscreen.New(screen)
		b.ShowHUD = flagHUD
		if logFile == nil {
			return b, nil, nil
		}
		return b, logFile, nil
	default:
		return window.New(cfg.Window.Title, gfx.Size{W: cfg.Window.Width, H: cfg.Window.Height}), nil, nil
	}
}

// redirectLog points logger at path. An empty path leaves it alone and
// returns a nil file.
func redirectLog(logger *log.Logger, path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return f, nil
}

func recordRun(cfg config.Config, backend string, opts game.Options, stats game.Stats, logger *log.Logger) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open statistics database", "error", err)
		return
	}
	defer store.Close()

	_, err = store.SaveRun(storage.Run{
		Backend:      backend,
		Mode:         opts.Mode.String(),
		WorldWidth:   opts.WorldWidth,
		WorldHeight:  opts.WorldHeight,
		Frames:       stats.Frames,
		Overruns:     stats.Overruns,
		BlitFailures: stats.BlitFailures,
		TargetFPS:    stats.TargetFPS,
		AvgFrameTime: stats.AverageFrameTime(),
		AvgFPS:       stats.AverageFPS(),
		Wall:         stats.Wall,
	})
	if err != nil {
		logger.Warn("could not record run", "error", err)
	}
}

package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	navinadapter "qrnav/internal/modules/navigate/adapter/in"
	navoutadapter "qrnav/internal/modules/navigate/adapter/out"
	navdomain "qrnav/internal/modules/navigate/domain"
	navout "qrnav/internal/modules/navigate/port/out"
	navservice "qrnav/internal/modules/navigate/service"
	navusecase "qrnav/internal/modules/navigate/usecase"
	routeinadapter "qrnav/internal/modules/route/adapter/in"
	routeoutadapter "qrnav/internal/modules/route/adapter/out"
	routeservice "qrnav/internal/modules/route/service"
	routeusecase "qrnav/internal/modules/route/usecase"
	scaninadapter "qrnav/internal/modules/scan/adapter/in"
	scanoutadapter "qrnav/internal/modules/scan/adapter/out"
	scandomain "qrnav/internal/modules/scan/domain"
	scanout "qrnav/internal/modules/scan/port/out"
	scanservice "qrnav/internal/modules/scan/service"
	scanusecase "qrnav/internal/modules/scan/usecase"
	voiceinadapter "qrnav/internal/modules/voice/adapter/in"
	voiceoutadapter "qrnav/internal/modules/voice/adapter/out"
	voiceout "qrnav/internal/modules/voice/port/out"
	voiceservice "qrnav/internal/modules/voice/service"
	voiceusecase "qrnav/internal/modules/voice/usecase"
	"qrnav/internal/platform/clock"
	"qrnav/internal/platform/config"
	"qrnav/internal/platform/id"
	"qrnav/internal/platform/logging"
	uiapp "qrnav/internal/ui/app"
)

type Options struct {
	// Headless skips arrow media; guidance is text and voice only.
	Headless bool
}

type App struct {
	Config config.Config
	Logger hclog.Logger

	RouteCLI    routeinadapter.CLIHandler
	ScanCLI     scaninadapter.CLIHandler
	VoiceCLI    voiceinadapter.CLIHandler
	NavigateCLI navinadapter.CLIHandler
	NavigateTUI navinadapter.TUIHandler

	closers []io.Closer
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	logger, logCloser, err := logging.New(cfg.LogPath, cfg.Settings.Log.Level)
	if err != nil {
		return nil, err
	}
	app := &App{Config: cfg, Logger: logger, closers: []io.Closer{logCloser}}

	projector, err := routeoutadapter.NewSQLiteTableProjector(cfg.DBPath, clock.SystemClock{})
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("new route projector: %w", err)
	}
	routeUC := routeusecase.NewInteractor(routeservice.NewRouteService(
		routeoutadapter.NewYAMLTableSource(cfg.Settings.Routes.Path),
		projector,
	))
	if out, err := routeUC.Reindex(ctx); err != nil {
		logger.Warn("route table not loaded, using built-in table", "path", cfg.Settings.Routes.Path, "error", err)
	} else {
		logger.Info("route table loaded", "source", out.Source, "instructions", out.Instructions)
	}

	clk := clock.Monotonic{}
	scanUC := scanusecase.NewInteractor(scanservice.NewScanner(
		newCamera(cfg.Settings.Camera, clk),
		scanoutadapter.NewZXingDecoder(),
		scanoutadapter.NewRouteCatalog(routeUC),
		scandomain.NewTracker(cfg.Settings.Scan.Cooldown),
		clk,
		logger,
	))

	voiceUC := voiceusecase.NewInteractor(voiceservice.NewVoiceService(
		newVoiceEngine(cfg.Settings.Voice, logger),
		cfg.Settings.Voice.QueueSize,
		cfg.Settings.Voice.Timeout,
		logger,
	))
	app.closers = append(app.closers, voiceUC)

	var opener navout.MediaOpener
	if !opts.Headless {
		opener = navoutadapter.NewMediaLibrary(navoutadapter.MediaLibraryConfig{
			Dir:  cfg.Settings.Media.Dir,
			Size: cfg.Settings.Media.Size,
		})
	}
	player := navservice.NewPlayer(opener, logger)
	navigator := navservice.NewNavigator(
		navdomain.NewState(),
		navoutadapter.NewScanRunner(scanUC),
		navoutadapter.NewRouteResolver(routeUC),
		id.ULID{},
		logger,
	)
	coordinator := navservice.NewCoordinator(player, navoutadapter.NewVoiceSpeaker(voiceUC), cfg.Settings.Voice.Enabled)
	navUC := navusecase.NewInteractor(navigator, coordinator, player)
	// navigation stops before the voice queue drains
	app.closers = append(app.closers, navUC)

	app.RouteCLI = routeinadapter.NewCLIHandler(routeUC)
	app.ScanCLI = scaninadapter.NewCLIHandler(scanUC)
	app.VoiceCLI = voiceinadapter.NewCLIHandler(voiceUC)
	app.NavigateCLI = navinadapter.NewCLIHandler(navUC)
	app.NavigateTUI = navinadapter.NewTUIHandler(navUC)
	return app, nil
}

// Close releases components in reverse construction order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.NavigateTUI, app.Config.Settings.Media.FrameInterval)
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func newCamera(cfg config.CameraSettings, clk clock.Clock) scanout.CameraOpener {
	if cfg.Source == config.CameraSourceFrames {
		return scanoutadapter.NewFrameDirCamera(cfg.FrameDir, cfg.Interval, cfg.Loop, clk)
	}
	return scanoutadapter.NewFFmpegCamera(scanoutadapter.FFmpegCameraConfig{
		Format: cfg.Format,
		Device: cfg.Device,
		Width:  cfg.Width,
		Height: cfg.Height,
	}, clk)
}

func newVoiceEngine(cfg config.VoiceSettings, logger hclog.Logger) voiceout.Engine {
	switch cfg.Engine {
	case config.VoiceEngineCommand:
		return voiceoutadapter.NewCommandEngine(cfg.Command)
	case config.VoiceEnginePlugin:
		return voiceoutadapter.NewPluginEngine(cfg.Plugin, logger)
	default:
		return voiceoutadapter.NewSilentEngine()
	}
}

// Command webframe runs a headless browser session against the simulated
// engine and prints the event traffic. It exists to exercise the full
// adapter stack end to end: helper-process dispatch, engine bootstrap,
// session management, event callbacks, page queries and the shutdown gate.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"webframe/pkg/bootstrap"
	"webframe/pkg/engine"
	"webframe/pkg/engine/enginesim"
	"webframe/pkg/webview"
)

var (
	urlFlag      = flag.String("url", "https://example.com", "initial URL to load")
	widthFlag    = flag.Int("width", 1024, "browser width in logical pixels")
	heightFlag   = flag.Int("height", 768, "browser height in logical pixels")
	scaleFlag    = flag.Float64("scale", 1.0, "device scale factor")
	settingsFlag = flag.String("settings", "", "path to a YAML settings file")
	verboseFlag  = flag.Bool("v", false, "verbose logging")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	launcher := enginesim.NewLauncher(nil)
	boot := bootstrap.New(launcher)

	// Helper-process dispatch must happen before anything else, flag
	// parsing included: when the engine re-executes us as a subprocess,
	// that subprocess carries engine flags and must not run the host
	// logic below.
	if helper, err := boot.ExecProcess(os.Args); helper || err != nil {
		return err
	}
	flag.Parse()

	log, err := newLogger(*verboseFlag)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	launcher.SetLogger(log)
	boot.SetLogger(log)

	settings := bootstrap.Settings{}
	if *settingsFlag != "" {
		settings, err = bootstrap.LoadSettings(*settingsFlag)
		if err != nil {
			return err
		}
	}
	if err := boot.Init(settings); err != nil {
		return err
	}
	defer boot.Shutdown()

	eng := launcher.Engine()
	mgr := webview.NewManager(eng)

	b, err := mgr.Create(webview.Options{
		URL:               *urlFlag,
		Width:             *widthFlag,
		Height:            *heightFlag,
		DeviceScaleFactor: *scaleFlag,
		Logger:            log,
		Tracker:           boot,
		Callbacks: webview.BrowserCallbacks{
			OnCreated: func() {
				log.Info("browser created")
			},
			OnAddressChanged: func(f *webview.Frame, url string) {
				log.Info("address changed", zap.String("url", url))
			},
			OnTitleChanged: func(title string) {
				log.Info("title changed", zap.String("title", title))
			},
			OnLoadEnd: func(f *webview.Frame) {
				log.Info("load finished", zap.String("url", f.URL()))
			},
			OnConsoleMessage: func(message string, level engine.LogSeverity, source string, line int) {
				log.Info("console", zap.String("message", message), zap.String("source", source), zap.Int("line", line))
			},
			OnQuery: func(f *webview.Frame, request string, persistent bool, h *webview.QueryHandle) {
				log.Info("query", zap.Int64("id", h.ID()), zap.String("request", request))
				h.Succeed(fmt.Sprintf("echo: %s", request))
			},
			OnClosed: func() {
				log.Info("browser closed")
			},
		},
	})
	if err != nil {
		return err
	}

	// Script a short page session against the simulator.
	sim := eng.Browsers()
	if len(sim) != 1 {
		return fmt.Errorf("expected one simulated browser, got %d", len(sim))
	}
	page := sim[0]
	mainFrame := page.Main()

	page.EmitLoadStart(mainFrame)
	page.EmitAddressChange(mainFrame, *urlFlag)
	page.EmitTitleChange("Example Domain")
	page.EmitLoadingStateChange(false, false, false)
	page.EmitLoadEnd(mainFrame, 200)
	page.EmitConsoleMessage(engine.LogSeverityInfo, "hello from the page", "about:blank", 1)

	rec, handled := page.EmitQuery(mainFrame, 1, "version", false)
	if !handled {
		return fmt.Errorf("query was not handled")
	}
	eng.Sync()
	if got := rec.Successes(); len(got) == 1 {
		log.Info("query answered", zap.String("response", got[0]))
	}

	log.Info("session finished", zap.String("browser_id", b.ID()))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mgr.Shutdown(ctx)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

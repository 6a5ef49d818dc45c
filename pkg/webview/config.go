package webview

import (
	"errors"

	"go.uber.org/zap"

	"webframe/pkg/engine"
)

// BrowserTracker counts alive browsers for ordered process shutdown.
// *bootstrap.Bootstrap satisfies it.
type BrowserTracker interface {
	BrowserCreated()
	BrowserDestroyed()
}

// Options configures a browser session.
type Options struct {
	// ID identifies the session. The Manager assigns one when blank.
	ID string

	// URL is loaded as soon as the engine browser exists.
	URL string

	Width             int
	Height            int
	DeviceScaleFactor float64
	FrameRate         int

	// Focus requests input focus once the first page load completes.
	Focus bool

	// CloseAfterCreate tears the browser down immediately after creation
	// completes. Pending navigation is still applied first.
	CloseAfterCreate bool

	// InjectJavaScript is evaluated in every frame before page scripts run.
	InjectJavaScript string

	Callbacks BrowserCallbacks

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Tracker, when set, is notified of browser create/close for shutdown
	// ordering.
	Tracker BrowserTracker
}

func (o Options) withDefaults() Options {
	if o.Width == 0 {
		o.Width = 800
	}
	if o.Height == 0 {
		o.Height = 600
	}
	if o.DeviceScaleFactor == 0 {
		o.DeviceScaleFactor = 1.0
	}
	if o.FrameRate == 0 {
		o.FrameRate = 30
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Validate checks whether the options are usable.
func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return errors.New("width and height must be greater than zero")
	}
	if o.DeviceScaleFactor <= 0 {
		return errors.New("device_scale_factor must be greater than zero")
	}
	if o.FrameRate <= 0 || o.FrameRate > 240 {
		return errors.New("frame_rate must be in (0, 240]")
	}
	return nil
}

func (o Options) engineOptions() engine.BrowserOptions {
	return engine.BrowserOptions{
		Width:             o.Width,
		Height:            o.Height,
		DeviceScaleFactor: o.DeviceScaleFactor,
		FrameRate:         o.FrameRate,
		BackgroundColor:   0xffffffff,
		InjectJavaScript:  o.InjectJavaScript,
	}
}

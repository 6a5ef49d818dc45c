package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"webframe/pkg/engine/enginesim"
)

func newBootstrap(t *testing.T) *Bootstrap {
	t.Helper()
	b := New(enginesim.NewLauncher(nil))
	t.Cleanup(b.Shutdown)
	return b
}

func TestBootstrapLifecycle(t *testing.T) {
	b := newBootstrap(t)
	require.Equal(t, StateNew, b.State())
	require.False(t, b.Ready())

	require.NoError(t, b.Init(Settings{}))
	require.Equal(t, StateReady, b.State())
	require.True(t, b.Ready())

	require.Error(t, b.Init(Settings{}), "second Init must fail")

	b.Shutdown()
	require.Equal(t, StateDown, b.State())
	require.False(t, b.Ready())
}

func TestBootstrapShutdownWithoutInit(t *testing.T) {
	b := New(enginesim.NewLauncher(nil))
	b.Shutdown()
	require.Equal(t, StateDown, b.State())
}

func TestBootstrapHelperDispatch(t *testing.T) {
	b := newBootstrap(t)

	helper, err := b.ExecProcess([]string{"webframe", "--type=renderer"})
	require.NoError(t, err)
	require.True(t, helper)

	helper, err = b.ExecProcess([]string{"webframe", "-url", "https://example.com"})
	require.NoError(t, err)
	require.False(t, helper)
}

func TestBootstrapShutdownWaitsForBrowsers(t *testing.T) {
	b := newBootstrap(t)
	require.NoError(t, b.Init(Settings{}))

	b.BrowserCreated()
	b.BrowserCreated()
	require.Equal(t, 2, b.AliveBrowsers())

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Shutdown()
	}()

	select {
	case <-b.ShuttingDown():
	case <-time.After(5 * time.Second):
		t.Fatal("ShuttingDown never signalled")
	}

	b.BrowserDestroyed()
	select {
	case <-done:
		t.Fatal("Shutdown returned with a browser still alive")
	case <-time.After(50 * time.Millisecond):
	}

	b.BrowserDestroyed()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Shutdown never finished")
	}
	require.Equal(t, StateDown, b.State())
}

func TestBootstrapRejectsBrowsersOutsideReady(t *testing.T) {
	b := newBootstrap(t)
	require.Panics(t, func() { b.BrowserCreated() }, "before Init")

	require.NoError(t, b.Init(Settings{}))
	b.Shutdown()
	require.Panics(t, func() { b.BrowserCreated() }, "after Shutdown")
}

func TestBrowserDestroyedUnderflow(t *testing.T) {
	b := newBootstrap(t)
	require.NoError(t, b.Init(Settings{}))
	require.Panics(t, func() { b.BrowserDestroyed() })
}

func TestSettingsValidate(t *testing.T) {
	cases := []struct {
		name    string
		s       Settings
		wantErr bool
	}{
		{"empty", Settings{}, false},
		{"absolute paths", Settings{CachePath: "/var/cache/webframe/profile", RootCachePath: "/var/cache/webframe"}, false},
		{"relative cache path", Settings{CachePath: "cache"}, true},
		{"relative root path", Settings{RootCachePath: "cache"}, true},
		{"cache outside root", Settings{CachePath: "/tmp/elsewhere", RootCachePath: "/var/cache/webframe"}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.s.Validate()
			if tc.wantErr && err == nil {
				t.Fatal("expected an error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: de-DE\ncache_path: /var/cache/webframe/profile\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	require.Equal(t, "de-DE", s.Locale)
	require.Equal(t, "/var/cache/webframe/profile", s.CachePath)
}

func TestLoadSettingsUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("locale: en-US\nsurprise: true\n"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestSettingsDefaults(t *testing.T) {
	s := Settings{}.withDefaults()
	require.Equal(t, "en-US", s.Locale)
}

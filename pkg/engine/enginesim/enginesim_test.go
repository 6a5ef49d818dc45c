package enginesim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"webframe/pkg/engine"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestOnLoopAffinity(t *testing.T) {
	e := New()
	defer e.Close()

	if e.OnLoop() {
		t.Fatal("test goroutine must not be the UI loop")
	}
	var onLoop bool
	e.Run(func() { onLoop = e.OnLoop() })
	if !onLoop {
		t.Fatal("task did not run on the UI loop")
	}
}

func TestPostOrdering(t *testing.T) {
	e := New()
	defer e.Close()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		e.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		})
	}
	e.Sync()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 100)
	for i, v := range got {
		if v != i {
			t.Fatalf("task %d ran out of order (got %d)", i, v)
		}
	}
}

func TestRunFromLoopPanics(t *testing.T) {
	e := New()
	defer e.Close()

	var panicked bool
	e.Run(func() {
		defer func() { panicked = recover() != nil }()
		e.Run(func() {})
	})
	if !panicked {
		t.Fatal("expected Run on the loop to panic")
	}
}

func TestPostAfterCloseDropped(t *testing.T) {
	e := New()
	e.Close()

	ran := false
	e.Post(func() { ran = true })
	if ran {
		t.Fatal("task ran after close")
	}
}

func TestCloseIdempotent(t *testing.T) {
	e := New()
	e.Close()
	e.Close()
}

// nopClient satisfies engine.Client and counts creations.
type nopClient struct {
	engine.Client
	created int
}

func (c *nopClient) OnAfterCreated(b engine.Browser) { c.created++ }

func TestCreateBrowser(t *testing.T) {
	e := New()
	defer e.Close()

	c := &nopClient{}
	e.CreateBrowser(engine.BrowserOptions{Width: 640, Height: 480}, c)
	e.Sync()

	require.Equal(t, 1, c.created)
	require.Len(t, e.Browsers(), 1)
}

func TestHeldCreation(t *testing.T) {
	e := New(WithHeldCreation())
	defer e.Close()

	c := &nopClient{}
	e.CreateBrowser(engine.BrowserOptions{}, c)
	e.Sync()
	require.Zero(t, c.created)
	require.Empty(t, e.Browsers())

	e.CompleteCreation()
	require.Equal(t, 1, c.created)
	require.Len(t, e.Browsers(), 1)
}

func TestBrowserCommandsEnforceAffinity(t *testing.T) {
	e := New()
	defer e.Close()

	c := &nopClient{}
	e.CreateBrowser(engine.BrowserOptions{}, c)
	e.Sync()
	b := e.Browsers()[0]

	require.Panics(t, func() { b.GoBack() })
	require.Panics(t, func() { b.Host().SetFocus(true) })

	e.Run(func() {
		b.GoBack()
		b.Host().SetFocus(true)
	})
	backs, _ := b.HistoryMoves()
	require.Equal(t, 1, backs)
	require.Equal(t, []bool{true}, b.Host().(*Host).FocusCalls())
}

package webview

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"webframe/pkg/engine"
)

// Manager tracks active browser sessions for one engine.
type Manager struct {
	eng      engine.Engine
	mu       sync.Mutex
	sessions map[string]*Browser
}

// NewManager creates a Manager backed by the provided engine.
func NewManager(eng engine.Engine) *Manager {
	return &Manager{
		eng:      eng,
		sessions: make(map[string]*Browser),
	}
}

// Create allocates a new browser session. A blank Options.ID gets a
// generated identifier.
func (m *Manager) Create(opts Options) (*Browser, error) {
	if m == nil || m.eng == nil {
		return nil, ErrUnavailable
	}
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	m.mu.Lock()
	if _, exists := m.sessions[opts.ID]; exists {
		m.mu.Unlock()
		return nil, ErrSessionExists
	}
	m.mu.Unlock()

	b, err := NewBrowser(m.eng, opts)
	if err != nil {
		return nil, WrapEngineError("create_browser", "browser creation rejected", err)
	}

	m.mu.Lock()
	m.sessions[opts.ID] = b
	m.mu.Unlock()
	return b, nil
}

// Get returns a session by ID.
func (m *Manager) Get(id string) (*Browser, bool) {
	if m == nil {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.sessions[id]
	return b, ok
}

// Close requests teardown of one session and removes it from the registry.
// Close completion is asynchronous; wait on the browser's Done channel if
// ordering matters.
func (m *Manager) Close(id string) error {
	if m == nil {
		return ErrUnavailable
	}
	m.mu.Lock()
	b, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok || b == nil {
		return ErrBrowserClosed
	}
	b.Destroy()
	return nil
}

// Shutdown requests teardown of every session and waits until each confirms
// close or the context ends.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	sessions := make([]*Browser, 0, len(m.sessions))
	for _, b := range m.sessions {
		sessions = append(sessions, b)
	}
	m.sessions = make(map[string]*Browser)
	m.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	for _, b := range sessions {
		if b == nil {
			continue
		}
		b.Destroy()
		g.Go(func() error {
			select {
			case <-b.Done():
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	return g.Wait()
}

// Package shutdown tears the session down in reverse registration order:
// GUI loops first, then the render session, so no redraw can race a released
// device handle.
package shutdown

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"bayer-bender/internal/logger"
)

const component = "ShutdownManager"

// componentTimeout bounds how long one component may take to stop before the
// manager moves on.
const componentTimeout = 10 * time.Second

type entry struct {
	name string
	stop func()
}

type Manager struct {
	mu      sync.Mutex
	entries []entry
	log     logger.Logger
	done    chan struct{}
}

func NewManager(log logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop{}
	}
	return &Manager{
		log:  log,
		done: make(chan struct{}),
	}
}

// Register adds a named stop function. Components stop in reverse
// registration order.
func (m *Manager) Register(name string, stop func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry{name: name, stop: stop})
}

// Listen triggers Shutdown on SIGINT/SIGTERM.
func (m *Manager) Listen() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		sig := <-sigChan
		m.log.Info(component, "shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})
		m.Shutdown()
	}()
}

// Shutdown stops every registered component once, newest first.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}

	m.log.Info(component, "shutdown sequence initiated", map[string]interface{}{
		"components": len(m.entries),
	})

	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]

		finished := make(chan struct{})
		go func() {
			defer close(finished)
			e.stop()
		}()

		select {
		case <-finished:
		case <-time.After(componentTimeout):
			m.log.Warning(component, "component shutdown timeout", map[string]interface{}{
				"component": e.name,
			})
		}
	}

	m.log.Info(component, "shutdown sequence completed", nil)
}

// Done is closed once shutdown begins.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

package engine

import (
	"sync"
	"sync/atomic"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// snapshot bundles one consistent generation of rule engine + control catalog.
type snapshot struct {
	engine   *Engine
	controls map[string]core.Control
}

// CatalogManager hands out a consistent (engine, controls) pair and lets the
// catalog sync task swap both atomically.
type CatalogManager struct {
	current atomic.Pointer[snapshot]
	mu      sync.Mutex
}

func NewManager(rules []core.Rule, controls map[string]core.Control) *CatalogManager {
	m := &CatalogManager{}
	m.current.Store(&snapshot{
		engine:   New(rules),
		controls: controls,
	})
	return m
}

// GetEngine returns the current rule engine.
func (m *CatalogManager) GetEngine() *Engine {
	return m.current.Load().engine
}

// GetControls returns the current control catalog, keyed by control id.
// Callers must treat the map as read-only.
func (m *CatalogManager) GetControls() map[string]core.Control {
	return m.current.Load().controls
}

// Update swaps in a new catalog generation. In-flight computations keep the
// snapshot they started with.
func (m *CatalogManager) Update(rules []core.Rule, controls map[string]core.Control) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current.Store(&snapshot{
		engine:   New(rules),
		controls: controls,
	})
}

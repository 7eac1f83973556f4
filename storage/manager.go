package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNoAdapter  = errors.New("no adapter registered for connection type")
	ErrNoDriver   = errors.New("no driver registered for dialect")
	ErrNotStarted = errors.New("storage manager not started")
)

const migrateTimeout = 30 * time.Second

type Manager struct {
	adapter Adapter
	driver  Driver
}

func NewManager() *Manager {
	return &Manager{}
}

// Start selects the adapter and driver for conn. A nil conn leaves the
// manager unstarted.
func (m *Manager) Start(conn any) error {
	if conn == nil {
		return nil
	}
	a, err := RegistryAdapter(conn)
	if err != nil {
		return err
	}
	d, err := RegistryDriver(a)
	if err != nil {
		return err
	}
	m.adapter = a
	m.driver = d
	return nil
}

func (m *Manager) Adapter() Adapter { return m.adapter }
func (m *Manager) Driver() Driver   { return m.driver }
func (m *Manager) Started() bool    { return m.driver != nil }

func (m *Manager) Dialect() string {
	if m.adapter == nil {
		return ""
	}
	return m.adapter.Dialect()
}

// Build runs pending migrations.
func (m *Manager) Build() error {
	if m.driver == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	return m.driver.Migrate(ctx)
}

func (m *Manager) Events() (EventRepo, error) {
	if m.driver == nil {
		return nil, ErrNotStarted
	}
	return m.driver.Events(), nil
}

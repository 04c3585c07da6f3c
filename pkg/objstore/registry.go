// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"fmt"
	"sync"
)

// Config contains everything needed to construct a Store. Fields that a
// given backend does not use are ignored by its factory.
type Config struct {
	Type      StoreType         `json:"type"`
	Endpoint  string            `json:"endpoint,omitempty"`
	Bucket    string            `json:"bucket,omitempty"`
	Region    string            `json:"region,omitempty"`
	AccessKey string            `json:"access_key,omitempty"`
	SecretKey string            `json:"secret_key,omitempty"`
	Token     string            `json:"token,omitempty"`
	AllowHTTP bool              `json:"allow_http,omitempty"`
	S3ViaRoot bool              `json:"s3_via_root,omitempty"`
	Options   map[string]string `json:"options,omitempty"`
}

// Factory creates a Store from config
type Factory func(cfg Config) (Store, error)

// Registry holds registered store factories
var (
	registryMu sync.RWMutex
	registry   = make(map[StoreType]Factory)
)

// Register adds a factory for a store type. Implementations call this
// from init(), so importing a backend package makes its type available.
func Register(t StoreType, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = f
}

// Open creates a Store from config
func Open(cfg Config) (Store, error) {
	registryMu.RLock()
	f, ok := registry[cfg.Type]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
	return f(cfg)
}

// Manager tracks multiple named stores
type Manager struct {
	mu      sync.RWMutex
	stores  map[string]Store
	configs map[string]Config
}

// NewManager creates a store manager
func NewManager() *Manager {
	return &Manager{
		stores:  make(map[string]Store),
		configs: make(map[string]Config),
	}
}

// Add creates and registers a store under id
func (m *Manager) Add(id string, cfg Config) error {
	store, err := Open(cfg)
	if err != nil {
		return fmt.Errorf("create store %s: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.stores[id]; exists {
		old.Close()
	}

	m.stores[id] = store
	m.configs[id] = cfg
	return nil
}

// AddMemory adds an in-memory store under id
func (m *Manager) AddMemory(id string) error {
	return m.Add(id, Config{Type: StoreTypeMemory})
}

// Get retrieves a store by ID
func (m *Manager) Get(id string) (Store, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.stores[id]
	return s, ok
}

// Remove closes and removes a store
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[id]; ok {
		s.Close()
		delete(m.stores, id)
		delete(m.configs, id)
	}
	return nil
}

// List returns all store IDs
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.stores))
	for id := range m.stores {
		ids = append(ids, id)
	}
	return ids
}

// Close closes all stores
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.stores {
		s.Close()
	}
	m.stores = make(map[string]Store)
	m.configs = make(map[string]Config)
	return nil
}

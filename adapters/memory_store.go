package adapters

import (
	"context"
	"errors"
	"sync"

	"github.com/satriahrh/voicesync/domain/entities"
)

// MemoryStore is an in-memory implementation of both SettingsStore and
// WorkspaceStore. It is used for development, seeded deployments and tests.
type MemoryStore struct {
	mu         sync.RWMutex
	settings   entities.AdminSettings
	workspaces map[string]entities.WorkspaceAgentBinding // workspace id -> binding
	order      []string                                  // insertion order of workspace ids
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		workspaces: make(map[string]entities.WorkspaceAgentBinding),
	}
}

// Load implements SettingsStore interface
func (m *MemoryStore) Load(ctx context.Context) (*entities.AdminSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modifications
	settings := m.settings
	settings.VoiceProfiles = m.settings.VoiceProfiles.Clone()
	return &settings, nil
}

// Save implements SettingsStore interface
func (m *MemoryStore) Save(ctx context.Context, settings *entities.AdminSettings) error {
	if settings == nil {
		return errors.New("settings cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.settings = *settings
	m.settings.VoiceProfiles = settings.VoiceProfiles.Clone()
	return nil
}

// ListAll implements WorkspaceStore interface
func (m *MemoryStore) ListAll(ctx context.Context) ([]entities.WorkspaceAgentBinding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]entities.WorkspaceAgentBinding, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, m.workspaces[id])
	}
	return result, nil
}

// PutWorkspace creates or replaces a workspace binding
func (m *MemoryStore) PutWorkspace(binding entities.WorkspaceAgentBinding) error {
	if binding.WorkspaceID == "" {
		return errors.New("workspace ID cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workspaces[binding.WorkspaceID]; !exists {
		m.order = append(m.order, binding.WorkspaceID)
	}
	m.workspaces[binding.WorkspaceID] = binding
	return nil
}

// DeleteWorkspace removes a workspace binding
func (m *MemoryStore) DeleteWorkspace(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.workspaces[id]; !exists {
		return errors.New("workspace not found")
	}
	delete(m.workspaces, id)
	for i, wid := range m.order {
		if wid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

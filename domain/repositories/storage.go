package repositories

import (
	"context"

	"github.com/satriahrh/voicesync/domain/entities"
)

// SettingsStore persists the admin settings document
type SettingsStore interface {
	// Load returns the current settings. A store without a document returns
	// empty settings, not an error.
	Load(ctx context.Context) (*entities.AdminSettings, error)
	// Save replaces the settings document
	Save(ctx context.Context, settings *entities.AdminSettings) error
}

// WorkspaceStore lists the workspace agent bindings
type WorkspaceStore interface {
	ListAll(ctx context.Context) ([]entities.WorkspaceAgentBinding, error)
}

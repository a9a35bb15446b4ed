package repositories

import (
	"context"

	"github.com/satriahrh/voicesync/domain/entities"
)

// AgentAPI abstracts the external agent platform
type AgentAPI interface {
	// UpdateAgent replaces the voice related configuration of one agent
	UpdateAgent(ctx context.Context, agentID string, payload *entities.AgentPayload) error
}

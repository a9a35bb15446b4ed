package api

import (
	"context"
	"time"

	"github.com/satriahrh/voicesync/domain/entities"
	"github.com/satriahrh/voicesync/usecase"
)

// VoiceProfileManager is the use case surface the API exposes
type VoiceProfileManager interface {
	Settings(ctx context.Context) (*entities.AdminSettings, error)
	UpdateVoiceProfiles(ctx context.Context, profiles entities.VoiceProfiles, syncAgents bool) (*usecase.UpdateResult, error)
	Resync(ctx context.Context, token string) (usecase.SyncReport, error)
	PreviewAgentUpdate(ctx context.Context, profileID string) (*entities.AgentPayload, error)
}

// AdminAuthRequest represents the request payload for admin authentication
type AdminAuthRequest struct {
	APIKey  string `json:"apiKey"`
	Subject string `json:"subject,omitempty"`
}

// AdminAuthResponse represents the response payload for admin authentication
type AdminAuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// UpdateVoiceProfilesRequest replaces the voice profile list
type UpdateVoiceProfilesRequest struct {
	VoiceProfiles entities.VoiceProfiles `json:"voiceProfiles"`
	Sync          bool                   `json:"sync"`
}

// SyncReportResponse is the outcome of a retried sync
type SyncReportResponse struct {
	SyncToken string `json:"syncToken"`
	usecase.SyncReport
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

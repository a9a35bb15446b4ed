package usecase

import (
	"fmt"

	"github.com/satriahrh/voicesync/domain/entities"
)

// MatchStrategy decides which profile field is compared against a binding's
// selected voice id.
type MatchStrategy string

const (
	// MatchSelectedVoice compares the ElevenLabs selected voice for every
	// provider. Google Live profiles have no such field and never match.
	MatchSelectedVoice MatchStrategy = "selected-voice"
	// MatchProviderVoice compares the voice identity of each provider: the
	// ElevenLabs selected voice or the Google Live voice name.
	MatchProviderVoice MatchStrategy = "provider-voice"
)

// ParseMatchStrategy parses a configured strategy name. Empty selects the default.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch MatchStrategy(s) {
	case "", MatchSelectedVoice:
		return MatchSelectedVoice, nil
	case MatchProviderVoice:
		return MatchProviderVoice, nil
	default:
		return "", fmt.Errorf("unknown voice match strategy %q", s)
	}
}

// Key returns the voice id bindings are matched against, or "" when the
// profile has none.
func (m MatchStrategy) Key(p entities.VoiceProfile) string {
	if m == MatchProviderVoice && p.VoiceConfig.Provider == entities.ProviderGoogleLive {
		if p.VoiceConfig.GoogleLive == nil || p.VoiceConfig.GoogleLive.Voice == "" {
			return string(entities.LiveVoicePuck)
		}
		return string(p.VoiceConfig.GoogleLive.Voice)
	}
	return p.VoiceConfig.SelectedVoice()
}

// AgentSyncTask is one agent to update with one profile
type AgentSyncTask struct {
	AgentID     string
	WorkspaceID string
	Profile     entities.VoiceProfile
}

// Resolver finds the agents affected by changed profiles
type Resolver struct {
	strategy MatchStrategy
}

// NewResolver creates a resolver using the given match strategy
func NewResolver(strategy MatchStrategy) *Resolver {
	if strategy == "" {
		strategy = MatchSelectedVoice
	}
	return &Resolver{strategy: strategy}
}

// Strategy returns the match strategy in use
func (r *Resolver) Strategy() MatchStrategy {
	return r.strategy
}

// Resolve returns one task per binding bound to a changed profile. A binding
// holds the voice id the workspace was configured with, so it is matched on
// the key of the stored version, and also on the key of the edited version to
// cover workspaces rebound ahead of the edit. Tasks always carry the edited
// version. Bindings without an agent are skipped; an empty key matches
// nothing.
func (r *Resolver) Resolve(changes []ProfileChange, bindings []entities.WorkspaceAgentBinding) []AgentSyncTask {
	var tasks []AgentSyncTask
	for _, change := range changes {
		beforeKey := r.strategy.Key(change.Before)
		afterKey := r.strategy.Key(change.After)
		if beforeKey == "" && afterKey == "" {
			continue
		}
		for _, b := range bindings {
			if b.AssociatedAgentID == "" || b.SelectedVoiceID == "" {
				continue
			}
			if b.SelectedVoiceID != beforeKey && b.SelectedVoiceID != afterKey {
				continue
			}
			tasks = append(tasks, AgentSyncTask{
				AgentID:     b.AssociatedAgentID,
				WorkspaceID: b.WorkspaceID,
				Profile:     change.After,
			})
		}
	}
	return tasks
}

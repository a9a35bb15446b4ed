package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/satriahrh/voicesync/domain/entities"
)

type agentCall struct {
	AgentID string
	Payload *entities.AgentPayload
}

// fakeAgentAPI records every update and fails the agents listed in failing
type fakeAgentAPI struct {
	mu      sync.Mutex
	calls   []agentCall
	failing map[string]error
}

func (f *fakeAgentAPI) UpdateAgent(ctx context.Context, agentID string, payload *entities.AgentPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, agentCall{AgentID: agentID, Payload: payload})
	if err, ok := f.failing[agentID]; ok {
		return err
	}
	return nil
}

func (f *fakeAgentAPI) Calls() []agentCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]agentCall(nil), f.calls...)
}

// fakeSettingsStore keeps the settings in memory and can be told to fail
type fakeSettingsStore struct {
	mu       sync.Mutex
	settings entities.AdminSettings
	loadErr  error
	saveErr  error
	saves    int
}

func (f *fakeSettingsStore) Load(ctx context.Context) (*entities.AdminSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := f.settings
	out.VoiceProfiles = f.settings.VoiceProfiles.Clone()
	return &out, nil
}

func (f *fakeSettingsStore) Save(ctx context.Context, settings *entities.AdminSettings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.settings = *settings
	f.settings.VoiceProfiles = settings.VoiceProfiles.Clone()
	return nil
}

type fakeWorkspaceStore struct {
	bindings []entities.WorkspaceAgentBinding
	err      error
}

func (f *fakeWorkspaceStore) ListAll(ctx context.Context) ([]entities.WorkspaceAgentBinding, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.bindings, nil
}

type syncOutcome struct {
	token  string
	report SyncReport
	err    error
}

// recordingObserver forwards every sync outcome to a channel
type recordingObserver struct {
	outcomes chan syncOutcome
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{outcomes: make(chan syncOutcome, 16)}
}

func (o *recordingObserver) SyncCompleted(token string, report SyncReport) {
	o.outcomes <- syncOutcome{token: token, report: report}
}

func (o *recordingObserver) SyncAbandoned(token string, err error) {
	o.outcomes <- syncOutcome{token: token, err: err}
}

var errAgentDown = errors.New("agent platform returned 503")

func elevenLabs(id, voice string) entities.VoiceProfile {
	return entities.VoiceProfile{
		ID:   id,
		Name: "profile " + id,
		VoiceConfig: entities.VoiceConfig{
			Provider:   entities.ProviderElevenLabs,
			ElevenLabs: &entities.ElevenLabsVoice{SelectedVoice: voice},
		},
	}
}

func googleLive(id string, voice entities.LiveVoice) entities.VoiceProfile {
	return entities.VoiceProfile{
		ID:   id,
		Name: "profile " + id,
		VoiceConfig: entities.VoiceConfig{
			Provider:   entities.ProviderGoogleLive,
			GoogleLive: &entities.GoogleLiveVoice{Voice: voice},
		},
	}
}

func binding(workspaceID, agentID, voiceID string) entities.WorkspaceAgentBinding {
	return entities.WorkspaceAgentBinding{
		WorkspaceID:       workspaceID,
		AssociatedAgentID: agentID,
		SelectedVoiceID:   voiceID,
	}
}

package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/satriahrh/voicesync/domain/entities"
	"github.com/satriahrh/voicesync/domain/repositories"
	"github.com/satriahrh/voicesync/internal/agentconfig"
)

// SyncObserver is notified when a background sync ends
type SyncObserver interface {
	SyncCompleted(token string, report SyncReport)
	SyncAbandoned(token string, err error)
}

type nopObserver struct{}

func (nopObserver) SyncCompleted(string, SyncReport) {}
func (nopObserver) SyncAbandoned(string, error)      {}

// ServiceConfig tunes the background sync of VoiceProfileService
type ServiceConfig struct {
	// SyncTimeout bounds one background sync run
	SyncTimeout time.Duration
	// SnapshotSize is the number of sync baselines kept for retries
	SnapshotSize int
	// SnapshotTTL is how long a sync token can be retried
	SnapshotTTL time.Duration
}

// UpdateResult is returned by UpdateVoiceProfiles. SyncToken is empty when
// no sync was requested.
type UpdateResult struct {
	Settings  *entities.AdminSettings `json:"settings"`
	SyncToken string                  `json:"syncToken,omitempty"`
}

// VoiceProfileService persists voice profile edits and propagates them to
// the affected agents
type VoiceProfileService struct {
	settings     repositories.SettingsStore
	workspaces   repositories.WorkspaceStore
	synchronizer *Synchronizer
	observer     SyncObserver
	snapshots    *expirable.LRU[string, *entities.SyncSnapshot]
	config       ServiceConfig
	logger       *zap.Logger

	// mu serializes load-modify-save so each update diffs against the state
	// it replaced
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewVoiceProfileService creates a new voice profile service. observer may be nil.
func NewVoiceProfileService(
	settings repositories.SettingsStore,
	workspaces repositories.WorkspaceStore,
	synchronizer *Synchronizer,
	observer SyncObserver,
	config ServiceConfig,
	logger *zap.Logger,
) *VoiceProfileService {
	if observer == nil {
		observer = nopObserver{}
	}
	if config.SyncTimeout <= 0 {
		config.SyncTimeout = 2 * time.Minute
	}
	if config.SnapshotSize <= 0 {
		config.SnapshotSize = 256
	}
	if config.SnapshotTTL <= 0 {
		config.SnapshotTTL = 24 * time.Hour
	}

	return &VoiceProfileService{
		settings:     settings,
		workspaces:   workspaces,
		synchronizer: synchronizer,
		observer:     observer,
		snapshots:    expirable.NewLRU[string, *entities.SyncSnapshot](config.SnapshotSize, nil, config.SnapshotTTL),
		config:       config,
		logger:       logger,
	}
}

// Settings returns the current admin settings
func (s *VoiceProfileService) Settings(ctx context.Context) (*entities.AdminSettings, error) {
	settings, err := s.settings.Load(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	return settings, nil
}

// UpdateVoiceProfiles replaces the voice profile list. Profiles without an id
// get a new one. When syncAgents is set, the agents bound to changed profiles are
// updated in the background; the returned token identifies that run for
// Resync. Sync failures never fail the update.
func (s *VoiceProfileService) UpdateVoiceProfiles(
	ctx context.Context,
	profiles entities.VoiceProfiles,
	syncAgents bool,
) (*UpdateResult, error) {
	profiles = profiles.Clone()
	if profiles == nil {
		profiles = entities.VoiceProfiles{}
	}
	for i := range profiles {
		if profiles[i].ID == "" {
			profiles[i].ID = uuid.NewString()
		}
	}
	if err := profiles.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidProfiles, err)
	}

	s.mu.Lock()
	current, err := s.settings.Load(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	before := current.VoiceProfiles.Clone()
	updated := *current
	updated.VoiceProfiles = profiles
	updated.UpdatedAt = time.Now().UTC()

	if err := s.settings.Save(ctx, &updated); err != nil {
		s.mu.Unlock()
		return nil, &PersistenceError{Op: "save", Err: err}
	}
	s.mu.Unlock()

	s.logger.Info("Voice profiles updated",
		zap.Int("profiles", len(profiles)),
		zap.Bool("sync", syncAgents))

	result := &UpdateResult{Settings: &updated}
	if !syncAgents {
		return result, nil
	}

	snapshot := entities.NewSyncSnapshot(uuid.NewString(), before, profiles, s.config.SnapshotTTL)
	s.snapshots.Add(snapshot.Token, snapshot)
	result.SyncToken = snapshot.Token

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.SyncTimeout)
		defer cancel()
		_, _ = s.runSync(syncCtx, snapshot)
	}()

	return result, nil
}

// Resync runs the sync identified by token again, against the baseline that
// was current when the token was issued. It waits for the run and returns
// its report.
func (s *VoiceProfileService) Resync(ctx context.Context, token string) (SyncReport, error) {
	snapshot, ok := s.snapshots.Get(token)
	if !ok || snapshot.IsExpired() {
		return SyncReport{}, ErrSnapshotNotFound
	}
	s.logger.Info("Retrying voice profile sync", zap.String("token", token))
	return s.runSync(ctx, snapshot)
}

// PreviewAgentUpdate returns the payload a sync would send for a profile
func (s *VoiceProfileService) PreviewAgentUpdate(ctx context.Context, profileID string) (*entities.AgentPayload, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	profile, ok := settings.VoiceProfiles.ByID(profileID)
	if !ok {
		return nil, ErrProfileNotFound
	}
	return agentconfig.BuildAgentUpdate(profile), nil
}

// Wait blocks until every background sync has finished
func (s *VoiceProfileService) Wait() {
	s.wg.Wait()
}

func (s *VoiceProfileService) runSync(ctx context.Context, snapshot *entities.SyncSnapshot) (SyncReport, error) {
	report, err := s.synchronizer.SynchronizeWith(ctx, snapshot.Before, snapshot.After, s.workspaces)
	if err != nil {
		s.logger.Error("Voice profile sync abandoned",
			zap.String("token", snapshot.Token),
			zap.Error(err))
		s.observer.SyncAbandoned(snapshot.Token, err)
		return report, err
	}

	if failed := report.Failed(); len(failed) > 0 {
		s.logger.Warn("Voice profile sync finished with failures",
			zap.String("token", snapshot.Token),
			zap.Int("failed", len(failed)),
			zap.Int("total", len(report.Results)))
	}
	s.observer.SyncCompleted(snapshot.Token, report)
	return report, nil
}

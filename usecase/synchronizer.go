package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/satriahrh/voicesync/domain/entities"
	"github.com/satriahrh/voicesync/domain/repositories"
	"github.com/satriahrh/voicesync/internal/agentconfig"
	"github.com/satriahrh/voicesync/internal/observe"
)

// SyncState is the phase of one sync run
type SyncState string

const (
	SyncStateIdle        SyncState = "idle"
	SyncStateDiffing     SyncState = "diffing"
	SyncStateResolving   SyncState = "resolving"
	SyncStateDispatching SyncState = "dispatching"
	SyncStateDone        SyncState = "done"
)

// AgentSyncResult is the outcome of one agent update
type AgentSyncResult struct {
	AgentID     string
	WorkspaceID string
	ProfileID   string
	Provider    entities.Provider
	Err         error
	Duration    time.Duration
}

// OK reports whether the update succeeded
func (r AgentSyncResult) OK() bool {
	return r.Err == nil
}

// AgentSyncResultView is the wire form of an AgentSyncResult, shared by the
// REST responses and the admin push channel
type AgentSyncResultView struct {
	AgentID     string            `json:"agentId"`
	WorkspaceID string            `json:"workspaceId"`
	ProfileID   string            `json:"profileId"`
	Provider    entities.Provider `json:"provider"`
	Success     bool              `json:"success"`
	Error       string            `json:"error,omitempty"`
	DurationMs  int64             `json:"durationMs"`
}

// View returns the wire form of the result
func (r AgentSyncResult) View() AgentSyncResultView {
	view := AgentSyncResultView{
		AgentID:     r.AgentID,
		WorkspaceID: r.WorkspaceID,
		ProfileID:   r.ProfileID,
		Provider:    r.Provider,
		Success:     r.OK(),
		DurationMs:  r.Duration.Milliseconds(),
	}
	if r.Err != nil {
		view.Error = r.Err.Error()
	}
	return view
}

// MarshalJSON implements json.Marshaler
func (r AgentSyncResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.View())
}

// SyncReport collects the per-agent outcomes of one sync run. Results are
// independent; the report never folds them into a single failure.
type SyncReport struct {
	ChangedProfiles []string          `json:"changedProfiles"`
	Results         []AgentSyncResult `json:"results"`
}

// Empty reports whether no agent update was issued
func (r SyncReport) Empty() bool {
	return len(r.Results) == 0
}

// Succeeded returns the successful results
func (r SyncReport) Succeeded() []AgentSyncResult {
	var out []AgentSyncResult
	for _, res := range r.Results {
		if res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Failed returns the failed results
func (r SyncReport) Failed() []AgentSyncResult {
	var out []AgentSyncResult
	for _, res := range r.Results {
		if !res.OK() {
			out = append(out, res)
		}
	}
	return out
}

// Synchronizer drives diff, resolution and the concurrent agent updates
type Synchronizer struct {
	agents      repositories.AgentAPI
	resolver    *Resolver
	metrics     *observe.Metrics
	callTimeout time.Duration
	logger      *zap.Logger
}

// NewSynchronizer creates a synchronizer. callTimeout bounds each agent
// update; zero leaves the calls unbounded.
func NewSynchronizer(
	agents repositories.AgentAPI,
	resolver *Resolver,
	metrics *observe.Metrics,
	callTimeout time.Duration,
	logger *zap.Logger,
) *Synchronizer {
	if metrics == nil {
		metrics = observe.DefaultMetrics()
	}
	return &Synchronizer{
		agents:      agents,
		resolver:    resolver,
		metrics:     metrics,
		callTimeout: callTimeout,
		logger:      logger,
	}
}

// Synchronize pushes every changed profile to the agents bound to it. It
// returns an empty report without any call when nothing changed.
func (s *Synchronizer) Synchronize(
	ctx context.Context,
	before, after entities.VoiceProfiles,
	bindings []entities.WorkspaceAgentBinding,
) SyncReport {
	changes := s.diff(before, after)
	if len(changes) == 0 {
		s.metrics.RecordSyncRun(ctx, observe.OutcomeNoop)
		return SyncReport{}
	}
	return s.dispatch(ctx, changes, bindings)
}

// SynchronizeWith is Synchronize with bindings listed from workspaces, and
// only when something changed. A listing failure abandons the run with a
// ResolutionError.
func (s *Synchronizer) SynchronizeWith(
	ctx context.Context,
	before, after entities.VoiceProfiles,
	workspaces repositories.WorkspaceStore,
) (SyncReport, error) {
	changes := s.diff(before, after)
	if len(changes) == 0 {
		s.metrics.RecordSyncRun(ctx, observe.OutcomeNoop)
		return SyncReport{}, nil
	}

	bindings, err := workspaces.ListAll(ctx)
	if err != nil {
		s.metrics.RecordSyncRun(ctx, observe.OutcomeAbandoned)
		return SyncReport{ChangedProfiles: profileIDs(changes)}, &ResolutionError{Err: err}
	}
	return s.dispatch(ctx, changes, bindings), nil
}

func (s *Synchronizer) diff(before, after entities.VoiceProfiles) []ProfileChange {
	s.logger.Debug("Sync state", zap.String("state", string(SyncStateDiffing)))
	changes := Changes(before, after)
	if len(changes) == 0 {
		s.logger.Debug("No voice profile changed, nothing to sync",
			zap.String("state", string(SyncStateDone)))
	}
	return changes
}

func (s *Synchronizer) dispatch(
	ctx context.Context,
	changes []ProfileChange,
	bindings []entities.WorkspaceAgentBinding,
) SyncReport {
	s.logger.Debug("Sync state", zap.String("state", string(SyncStateResolving)))
	tasks := s.resolver.Resolve(changes, bindings)

	report := SyncReport{
		ChangedProfiles: profileIDs(changes),
		Results:         make([]AgentSyncResult, len(tasks)),
	}

	s.logger.Info("Dispatching voice profile sync",
		zap.String("state", string(SyncStateDispatching)),
		zap.Strings("changedProfiles", report.ChangedProfiles),
		zap.Int("agents", len(tasks)),
		zap.String("matchStrategy", string(s.resolver.Strategy())))

	// Dispatched updates run to completion even if the caller goes away.
	dctx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			report.Results[i] = s.updateAgent(dctx, task)
			return nil
		})
	}
	_ = g.Wait()

	s.metrics.RecordSyncRun(ctx, observe.OutcomeDispatched)
	s.logger.Info("Voice profile sync finished",
		zap.String("state", string(SyncStateDone)),
		zap.Int("succeeded", len(report.Succeeded())),
		zap.Int("failed", len(report.Failed())))

	return report
}

func (s *Synchronizer) updateAgent(ctx context.Context, task AgentSyncTask) AgentSyncResult {
	if s.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.callTimeout)
		defer cancel()
	}

	provider := task.Profile.VoiceConfig.Provider
	payload := agentconfig.BuildAgentUpdate(task.Profile)

	start := time.Now()
	err := s.agents.UpdateAgent(ctx, task.AgentID, payload)
	elapsed := time.Since(start)

	s.metrics.RecordAgentUpdate(ctx, string(provider), err, elapsed)

	result := AgentSyncResult{
		AgentID:     task.AgentID,
		WorkspaceID: task.WorkspaceID,
		ProfileID:   task.Profile.ID,
		Provider:    provider,
		Duration:    elapsed,
	}
	if err != nil {
		result.Err = &AgentUpdateError{AgentID: task.AgentID, Err: err}
		s.logger.Warn("Agent update failed",
			zap.String("agentID", task.AgentID),
			zap.String("workspaceID", task.WorkspaceID),
			zap.String("profileID", task.Profile.ID),
			zap.Error(err))
	}
	return result
}

func profileIDs(changes []ProfileChange) []string {
	ids := make([]string, len(changes))
	for i, c := range changes {
		ids[i] = c.After.ID
	}
	return ids
}

package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProfiles wraps every validation failure of an update request
	ErrInvalidProfiles = errors.New("invalid voice profiles")
	// ErrSnapshotNotFound is returned when a sync token is unknown or expired
	ErrSnapshotNotFound = errors.New("sync snapshot not found")
	// ErrProfileNotFound is returned when a profile id is not in the settings
	ErrProfileNotFound = errors.New("voice profile not found")
)

// PersistenceError reports a failed settings load or save. It aborts the
// whole update; sync is not attempted.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("settings %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ResolutionError reports a failed workspace listing. It abandons the sync
// but never the already persisted settings.
type ResolutionError struct {
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to list workspace bindings: %v", e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// AgentUpdateError reports one failed agent update. Siblings are unaffected.
type AgentUpdateError struct {
	AgentID string
	Err     error
}

func (e *AgentUpdateError) Error() string {
	return fmt.Sprintf("update agent %s: %v", e.AgentID, e.Err)
}

func (e *AgentUpdateError) Unwrap() error { return e.Err }

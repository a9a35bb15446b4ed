package entities

import "time"

// SyncSnapshot records the baseline of one profile update so that a failed
// sync can be retried against the state it was computed from.
type SyncSnapshot struct {
	Token     string        `json:"token"`
	Before    VoiceProfiles `json:"before"`
	After     VoiceProfiles `json:"after"`
	CreatedAt time.Time     `json:"createdAt"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// NewSyncSnapshot creates a snapshot that stays valid for ttl
func NewSyncSnapshot(token string, before, after VoiceProfiles, ttl time.Duration) *SyncSnapshot {
	now := time.Now()
	return &SyncSnapshot{
		Token:     token,
		Before:    before.Clone(),
		After:     after.Clone(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired checks if the snapshot can no longer be used for a retry
func (s *SyncSnapshot) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

package usecase

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/satriahrh/voicesync/domain/entities"
)

// ProfileChange pairs the stored and the edited version of one profile
type ProfileChange struct {
	Before entities.VoiceProfile
	After  entities.VoiceProfile
}

// Changes returns the profiles of after whose id exists in before with
// different content, together with their previous version. Profiles new in
// after are left out: no agent can be bound to them yet. Nil and empty
// collections compare equal.
func Changes(before, after entities.VoiceProfiles) []ProfileChange {
	if len(after) == 0 {
		return nil
	}

	previous := make(map[string]entities.VoiceProfile, len(before))
	for _, p := range before {
		previous[p.ID] = p
	}

	var changes []ProfileChange
	for _, p := range after {
		old, exists := previous[p.ID]
		if !exists {
			continue
		}
		if !cmp.Equal(old, p, cmpopts.EquateEmpty()) {
			changes = append(changes, ProfileChange{Before: old, After: p})
		}
	}
	return changes
}

// Diff returns the edited version of every changed profile, see Changes
func Diff(before, after entities.VoiceProfiles) entities.VoiceProfiles {
	changes := Changes(before, after)
	if len(changes) == 0 {
		return nil
	}
	changed := make(entities.VoiceProfiles, len(changes))
	for i, c := range changes {
		changed[i] = c.After
	}
	return changed
}

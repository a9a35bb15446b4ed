package entities

import (
	"errors"
	"fmt"
	"time"
)

// AdminSettings is the single admin settings document. Only VoiceProfiles
// has derived side effects; the other fields are plain values.
type AdminSettings struct {
	VoiceProfiles VoiceProfiles `json:"voiceProfiles" bson:"voiceProfiles"`
	Prompt        string        `json:"prompt,omitempty" bson:"prompt,omitempty"`
	Greeting      string        `json:"greeting,omitempty" bson:"greeting,omitempty"`
	UpdatedAt     time.Time     `json:"updatedAt" bson:"updatedAt"`
}

// WorkspaceAgentBinding associates a workspace with its agent and the voice
// id the agent was last configured with. Owned by the workspace subsystem.
type WorkspaceAgentBinding struct {
	WorkspaceID       string `json:"workspaceId" bson:"_id"`
	AssociatedAgentID string `json:"associatedAgentId,omitempty" bson:"associatedAgentId,omitempty"`
	SelectedVoiceID   string `json:"selectedVoiceId,omitempty" bson:"selectedVoiceId,omitempty"`
}

// VoiceProfiles is the ordered profile collection. Order is display order only.
type VoiceProfiles []VoiceProfile

// ByID returns the profile with the given id
func (ps VoiceProfiles) ByID(id string) (VoiceProfile, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return VoiceProfile{}, false
}

// Clone returns a copy of the collection that shares no slices or pointers
// with ps.
func (ps VoiceProfiles) Clone() VoiceProfiles {
	if ps == nil {
		return nil
	}
	out := make(VoiceProfiles, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// Clone returns a deep copy of the profile
func (p VoiceProfile) Clone() VoiceProfile {
	out := p
	out.VoiceConfig.PunctuationBreaks = append([]string(nil), p.VoiceConfig.PunctuationBreaks...)
	out.VoiceConfig.WordReplacements = append([]WordReplacement(nil), p.VoiceConfig.WordReplacements...)
	out.TranscriptionConfig.Keywords = append([]string(nil), p.TranscriptionConfig.Keywords...)
	if p.VoiceConfig.ElevenLabs != nil {
		el := *p.VoiceConfig.ElevenLabs
		out.VoiceConfig.ElevenLabs = &el
	}
	if p.VoiceConfig.GoogleLive != nil {
		gl := *p.VoiceConfig.GoogleLive
		out.VoiceConfig.GoogleLive = &gl
	}
	return out
}

// Validate checks every profile and rejects duplicate ids
func (ps VoiceProfiles) Validate() error {
	seen := make(map[string]bool, len(ps))
	var errs []error
	for i, p := range ps {
		if p.ID != "" {
			if seen[p.ID] {
				errs = append(errs, fmt.Errorf("voice profile %d: duplicate id %q", i, p.ID))
				continue
			}
			seen[p.ID] = true
		}
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("voice profile %d (%s): %w", i, p.ID, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks the voice config; name and description are free-form
func (p VoiceProfile) Validate() error {
	return p.VoiceConfig.Validate()
}

// Validate ensures the variant matches the provider
func (v VoiceConfig) Validate() error {
	switch v.Provider {
	case ProviderElevenLabs:
		if v.ElevenLabs == nil || v.GoogleLive != nil {
			return errors.New("elevenlabs profile must carry only elevenlabs settings")
		}
		return v.ElevenLabs.Validate()
	case ProviderGoogleLive:
		if v.GoogleLive == nil || v.ElevenLabs != nil {
			return errors.New("google-live profile must carry only google-live settings")
		}
		return v.GoogleLive.Validate()
	default:
		return fmt.Errorf("unknown voice provider %q", v.Provider)
	}
}

// Validate checks speed and the 0..1 voice settings
func (e ElevenLabsVoice) Validate() error {
	if e.Speed != 0 && (e.Speed < 0.7 || e.Speed > 1.2) {
		return fmt.Errorf("speed must be between 0.7 and 1.2, got %g", e.Speed)
	}
	for name, value := range map[string]float64{
		"stability":         e.Stability,
		"similarityBoost":   e.SimilarityBoost,
		"styleExaggeration": e.StyleExaggeration,
	} {
		if value < 0 || value > 1 {
			return fmt.Errorf("%s must be between 0 and 1, got %g", name, value)
		}
	}
	return nil
}

// Validate checks the voice name, sensitivities and padding durations
func (g GoogleLiveVoice) Validate() error {
	if g.Voice != "" && !liveVoices[g.Voice] {
		return fmt.Errorf("unknown google live voice %q", g.Voice)
	}
	for _, s := range []Sensitivity{g.StartOfSpeechSensitivity, g.EndOfSpeechSensitivity} {
		switch s {
		case "", SensitivityLow, SensitivityMedium, SensitivityHigh:
		default:
			return fmt.Errorf("invalid sensitivity %q", s)
		}
	}
	if g.PrefixPaddingMs < 0 || g.SilenceDurationMs < 0 {
		return errors.New("prefixPaddingMs and silenceDurationMs must not be negative")
	}
	return nil
}

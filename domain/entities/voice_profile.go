package entities

import (
	"encoding/json"
	"fmt"
)

// Provider identifies the speech pipeline a voice profile targets
type Provider string

const (
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderGoogleLive Provider = "google-live"
)

// Valid reports whether p is one of the supported providers
func (p Provider) Valid() bool {
	return p == ProviderElevenLabs || p == ProviderGoogleLive
}

// Sensitivity is the voice activity detection sensitivity of a Google Live profile
type Sensitivity string

const (
	SensitivityLow    Sensitivity = "LOW"
	SensitivityMedium Sensitivity = "MEDIUM"
	SensitivityHigh   Sensitivity = "HIGH"
)

// LiveVoice is one of the named Google Live voices
type LiveVoice string

const (
	LiveVoicePuck   LiveVoice = "Puck"
	LiveVoiceCharon LiveVoice = "Charon"
	LiveVoiceKore   LiveVoice = "Kore"
	LiveVoiceFenrir LiveVoice = "Fenrir"
	LiveVoiceAoede  LiveVoice = "Aoede"
	LiveVoiceLeda   LiveVoice = "Leda"
	LiveVoiceOrus   LiveVoice = "Orus"
	LiveVoiceZephyr LiveVoice = "Zephyr"
)

var liveVoices = map[LiveVoice]bool{
	LiveVoicePuck: true, LiveVoiceCharon: true, LiveVoiceKore: true, LiveVoiceFenrir: true,
	LiveVoiceAoede: true, LiveVoiceLeda: true, LiveVoiceOrus: true, LiveVoiceZephyr: true,
}

// VoiceProfile is a named, reusable bundle of speech synthesis and
// transcription settings tagged with a provider
type VoiceProfile struct {
	ID                  string              `json:"id" bson:"id"`
	Name                string              `json:"name" bson:"name"`
	Gender              string              `json:"gender,omitempty" bson:"gender,omitempty"`
	Language            string              `json:"language,omitempty" bson:"language,omitempty"`
	VoiceConfig         VoiceConfig         `json:"voiceConfig" bson:"voiceConfig"`
	TranscriptionConfig TranscriptionConfig `json:"transcriptionConfig" bson:"transcriptionConfig"`
}

// WordReplacement rewrites a word before it is spoken
type WordReplacement struct {
	Original    string `json:"original" bson:"original"`
	Replacement string `json:"replacement" bson:"replacement"`
}

// VoiceConfig is a provider-tagged union. Exactly one of ElevenLabs and
// GoogleLive is set and it matches Provider.
type VoiceConfig struct {
	Provider                  Provider          `bson:"provider"`
	BackgroundNoise           string            `bson:"backgroundNoise,omitempty"`
	PunctuationBreaks         []string          `bson:"punctuationBreaks,omitempty"`
	WordReplacements          []WordReplacement `bson:"wordReplacements,omitempty"`
	LongMessageBackchanneling bool              `bson:"longMessageBackchanneling,omitempty"`

	ElevenLabs *ElevenLabsVoice `bson:"elevenlabs,omitempty"`
	GoogleLive *GoogleLiveVoice `bson:"googleLive,omitempty"`
}

// ElevenLabsVoice holds the fields only meaningful for the ElevenLabs pipeline
type ElevenLabsVoice struct {
	SelectedVoice     string  `json:"selectedVoice,omitempty" bson:"selectedVoice,omitempty"`
	Speed             float64 `json:"speed,omitempty" bson:"speed,omitempty"`
	Stability         float64 `json:"stability,omitempty" bson:"stability,omitempty"`
	SimilarityBoost   float64 `json:"similarityBoost,omitempty" bson:"similarityBoost,omitempty"`
	StyleExaggeration float64 `json:"styleExaggeration,omitempty" bson:"styleExaggeration,omitempty"`
	SpeakerBoost      bool    `json:"speakerBoost,omitempty" bson:"speakerBoost,omitempty"`
}

// GoogleLiveVoice holds the fields only meaningful for the Google Live pipeline
type GoogleLiveVoice struct {
	Voice                    LiveVoice   `json:"googleLiveVoice,omitempty" bson:"googleLiveVoice,omitempty"`
	EnableVAD                bool        `json:"enableVAD,omitempty" bson:"enableVAD,omitempty"`
	StartOfSpeechSensitivity Sensitivity `json:"startOfSpeechSensitivity,omitempty" bson:"startOfSpeechSensitivity,omitempty"`
	EndOfSpeechSensitivity   Sensitivity `json:"endOfSpeechSensitivity,omitempty" bson:"endOfSpeechSensitivity,omitempty"`
	PrefixPaddingMs          int         `json:"prefixPaddingMs,omitempty" bson:"prefixPaddingMs,omitempty"`
	SilenceDurationMs        int         `json:"silenceDurationMs,omitempty" bson:"silenceDurationMs,omitempty"`
	InputAudioTranscription  bool        `json:"inputAudioTranscription,omitempty" bson:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription bool        `json:"outputAudioTranscription,omitempty" bson:"outputAudioTranscription,omitempty"`
}

// voiceConfigJSON is the flat wire form of VoiceConfig: the variant fields
// sit next to the provider tag.
type voiceConfigJSON struct {
	Provider                  Provider          `json:"provider"`
	BackgroundNoise           string            `json:"backgroundNoise,omitempty"`
	PunctuationBreaks         []string          `json:"punctuationBreaks,omitempty"`
	WordReplacements          []WordReplacement `json:"wordReplacements,omitempty"`
	LongMessageBackchanneling bool              `json:"longMessageBackchanneling,omitempty"`
	*ElevenLabsVoice
	*GoogleLiveVoice
}

// MarshalJSON implements json.Marshaler
func (v VoiceConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(voiceConfigJSON{
		Provider:                  v.Provider,
		BackgroundNoise:           v.BackgroundNoise,
		PunctuationBreaks:         v.PunctuationBreaks,
		WordReplacements:          v.WordReplacements,
		LongMessageBackchanneling: v.LongMessageBackchanneling,
		ElevenLabsVoice:           v.ElevenLabs,
		GoogleLiveVoice:           v.GoogleLive,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The variant is chosen by the
// provider tag; fields of the other variant are ignored.
func (v *VoiceConfig) UnmarshalJSON(data []byte) error {
	var common struct {
		Provider                  Provider          `json:"provider"`
		BackgroundNoise           string            `json:"backgroundNoise"`
		PunctuationBreaks         []string          `json:"punctuationBreaks"`
		WordReplacements          []WordReplacement `json:"wordReplacements"`
		LongMessageBackchanneling bool              `json:"longMessageBackchanneling"`
	}
	if err := json.Unmarshal(data, &common); err != nil {
		return err
	}

	out := VoiceConfig{
		Provider:                  common.Provider,
		BackgroundNoise:           common.BackgroundNoise,
		PunctuationBreaks:         common.PunctuationBreaks,
		WordReplacements:          common.WordReplacements,
		LongMessageBackchanneling: common.LongMessageBackchanneling,
	}

	switch common.Provider {
	case ProviderElevenLabs:
		out.ElevenLabs = &ElevenLabsVoice{}
		if err := json.Unmarshal(data, out.ElevenLabs); err != nil {
			return err
		}
	case ProviderGoogleLive:
		out.GoogleLive = &GoogleLiveVoice{}
		if err := json.Unmarshal(data, out.GoogleLive); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown voice provider %q", common.Provider)
	}

	*v = out
	return nil
}

// SelectedVoice returns the external ElevenLabs voice id, or "" for other providers
func (v VoiceConfig) SelectedVoice() string {
	if v.ElevenLabs == nil {
		return ""
	}
	return v.ElevenLabs.SelectedVoice
}

// TranscriptionConfig configures the speech recognizer of an agent
type TranscriptionConfig struct {
	Language                  string      `json:"language,omitempty" bson:"language,omitempty"`
	Keywords                  []string    `json:"keywords,omitempty" bson:"keywords,omitempty"`
	InputVoiceEnhancer        bool        `json:"inputVoiceEnhancer,omitempty" bson:"inputVoiceEnhancer,omitempty"`
	SilenceDetection          bool        `json:"silenceDetection,omitempty" bson:"silenceDetection,omitempty"`
	UtteranceThreshold        SingleValue `json:"utteranceThreshold" bson:"utteranceThreshold"`
	TimeoutSeconds            SingleValue `json:"timeoutSeconds" bson:"timeoutSeconds"`
	EndCallAfterFillerPhrases SingleValue `json:"endCallAfterFillerPhrases" bson:"endCallAfterFillerPhrases"`
}

// SingleValue is a one element numeric tuple as sent by slider inputs
type SingleValue [1]float64

// Value returns the only element
func (s SingleValue) Value() float64 {
	return s[0]
}

// UnmarshalJSON implements json.Unmarshaler and rejects tuples that do not
// hold exactly one value.
func (s *SingleValue) UnmarshalJSON(data []byte) error {
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	if values == nil {
		// null leaves the zero value
		return nil
	}
	if len(values) != 1 {
		return fmt.Errorf("expected exactly one value, got %d", len(values))
	}
	s[0] = values[0]
	return nil
}

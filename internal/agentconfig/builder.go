// Package agentconfig translates an abstract voice profile into the agent
// configuration payload of the provider it targets.
package agentconfig

import (
	"github.com/satriahrh/voicesync/domain/entities"
)

const (
	transcriberProvider = "deepgram"

	elevenLabsTranscriberModel = "nova-2"
	googleLiveTranscriberModel = "nova-3"

	defaultSpeed             = 1.0
	defaultStability         = 0.5
	defaultSimilarityBoost   = 0.5
	defaultStyleExaggeration = 0.0
	defaultBackgroundNoise   = "none"

	defaultElevenLabsUtteranceThreshold = 0
	defaultGoogleLiveUtteranceThreshold = 400

	defaultLiveVoice         = entities.LiveVoicePuck
	defaultStartSensitivity  = "START_SENSITIVITY_MEDIUM"
	defaultEndSensitivity    = "END_SENSITIVITY_MEDIUM"
	defaultPrefixPaddingMs   = 20
	defaultSilenceDurationMs = 100
)

// Build maps a profile to the provider payload: voice, audio and transcriber
// blocks. It never fails; absent optional fields take their defaults. The
// profile must carry a known provider.
func Build(profile entities.VoiceProfile) *entities.AgentPayload {
	switch profile.VoiceConfig.Provider {
	case entities.ProviderGoogleLive:
		return buildGoogleLive(profile)
	default:
		return buildElevenLabs(profile)
	}
}

// BuildAgentUpdate returns the payload sent on sync: Build plus silence
// detection for every provider and, for Google Live, the node flag and the
// realtime session block.
func BuildAgentUpdate(profile entities.VoiceProfile) *entities.AgentPayload {
	payload := Build(profile)
	payload.SilenceDetection = buildSilenceDetection(profile.TranscriptionConfig)

	if profile.VoiceConfig.Provider == entities.ProviderGoogleLive {
		payload.EnableNodes = true
		payload.Realtime = buildRealtime(profile.VoiceConfig.GoogleLive)
	}
	return payload
}

func buildElevenLabs(profile entities.VoiceProfile) *entities.AgentPayload {
	vc := profile.VoiceConfig
	el := vc.ElevenLabs
	if el == nil {
		el = &entities.ElevenLabsVoice{}
	}

	replacements := make([]entities.WordsReplacement, 0, len(vc.WordReplacements))
	for _, r := range vc.WordReplacements {
		replacements = append(replacements, entities.WordsReplacement{
			Word:        r.Original,
			Replacement: r.Replacement,
		})
	}

	return &entities.AgentPayload{
		Voice: &entities.VoiceBlock{
			Provider:                         entities.ProviderElevenLabs,
			VoiceID:                          el.SelectedVoice,
			Language:                         profile.Language,
			WordsReplacements:                replacements,
			EnableLongMessageBackchannelling: vc.LongMessageBackchanneling,
			PunctuationBreaks:                punctuationBreaks(vc),
			ElevenLabs: &entities.ElevenLabsVoiceSettings{
				Stability:       orDefault(el.Stability, defaultStability),
				SimilarityBoost: orDefault(el.SimilarityBoost, defaultSimilarityBoost),
				UseSpeakerBoost: el.SpeakerBoost,
				Speed:           orDefault(el.Speed, defaultSpeed),
				Style:           orDefault(el.StyleExaggeration, defaultStyleExaggeration),
			},
		},
		Audio:       buildAudio(vc),
		Transcriber: buildTranscriber(profile.TranscriptionConfig, elevenLabsTranscriberModel, defaultElevenLabsUtteranceThreshold),
	}
}

func buildGoogleLive(profile entities.VoiceProfile) *entities.AgentPayload {
	vc := profile.VoiceConfig
	return &entities.AgentPayload{
		Voice: &entities.VoiceBlock{
			Provider:          entities.ProviderGoogleLive,
			PunctuationBreaks: punctuationBreaks(vc),
		},
		Audio:       buildAudio(vc),
		Transcriber: buildTranscriber(profile.TranscriptionConfig, googleLiveTranscriberModel, defaultGoogleLiveUtteranceThreshold),
	}
}

func buildAudio(vc entities.VoiceConfig) *entities.AudioBlock {
	noise := vc.BackgroundNoise
	if noise == "" {
		noise = defaultBackgroundNoise
	}
	return &entities.AudioBlock{
		RecordAudio:      true,
		BackgroundNoise:  noise,
		EnableWebCalling: true,
	}
}

func buildTranscriber(tc entities.TranscriptionConfig, model string, utteranceThreshold float64) *entities.TranscriberBlock {
	keywords := tc.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &entities.TranscriberBlock{
		Provider:           transcriberProvider,
		Model:              model,
		Language:           tc.Language,
		UtteranceThreshold: orDefault(tc.UtteranceThreshold.Value(), utteranceThreshold),
		InputVoiceEnhancer: tc.InputVoiceEnhancer,
		Deepgram:           entities.DeepgramOptions{Keywords: keywords},
	}
}

func buildSilenceDetection(tc entities.TranscriptionConfig) *entities.SilenceDetectionBlock {
	return &entities.SilenceDetectionBlock{
		Enabled:                   tc.SilenceDetection,
		TimeoutSeconds:            tc.TimeoutSeconds.Value(),
		EndCallAfterFillerPhrases: tc.EndCallAfterFillerPhrases.Value(),
	}
}

func buildRealtime(gl *entities.GoogleLiveVoice) *entities.RealtimeBlock {
	if gl == nil {
		gl = &entities.GoogleLiveVoice{}
	}

	voice := gl.Voice
	if voice == "" {
		voice = defaultLiveVoice
	}

	rt := &entities.RealtimeBlock{
		VoiceName: string(voice),
		AutomaticActivityDetection: entities.AutomaticActivityDetection{
			Disabled:                 !gl.EnableVAD,
			StartOfSpeechSensitivity: sensitivity("START_SENSITIVITY_", gl.StartOfSpeechSensitivity, defaultStartSensitivity),
			EndOfSpeechSensitivity:   sensitivity("END_SENSITIVITY_", gl.EndOfSpeechSensitivity, defaultEndSensitivity),
			PrefixPaddingMs:          orDefault(gl.PrefixPaddingMs, defaultPrefixPaddingMs),
			SilenceDurationMs:        orDefault(gl.SilenceDurationMs, defaultSilenceDurationMs),
		},
	}

	// Absence, not false, turns transcription off.
	if gl.InputAudioTranscription {
		rt.InputAudioTranscription = &entities.AudioTranscription{}
	}
	if gl.OutputAudioTranscription {
		rt.OutputAudioTranscription = &entities.AudioTranscription{}
	}
	return rt
}

func punctuationBreaks(vc entities.VoiceConfig) []string {
	if vc.PunctuationBreaks == nil {
		return []string{}
	}
	return vc.PunctuationBreaks
}

func sensitivity(prefix string, s entities.Sensitivity, def string) string {
	if s == "" {
		return def
	}
	return prefix + string(s)
}

func orDefault[T int | float64](v, def T) T {
	if v == 0 {
		return def
	}
	return v
}

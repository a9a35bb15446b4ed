package entities

// AgentPayload is the agent configuration sent to the agent platform. The
// blocks a provider does not use are nil and omitted from the wire form.
type AgentPayload struct {
	Voice            *VoiceBlock            `json:"voice,omitempty"`
	Audio            *AudioBlock            `json:"audio,omitempty"`
	Transcriber      *TranscriberBlock      `json:"transcriber,omitempty"`
	SilenceDetection *SilenceDetectionBlock `json:"silenceDetection,omitempty"`
	EnableNodes      bool                   `json:"enableNodes,omitempty"`
	Realtime         *RealtimeBlock         `json:"realtime,omitempty"`
}

// VoiceBlock configures speech generation
type VoiceBlock struct {
	Provider                         Provider                 `json:"provider"`
	VoiceID                          string                   `json:"voiceId,omitempty"`
	Language                         string                   `json:"language,omitempty"`
	WordsReplacements                []WordsReplacement       `json:"wordsReplacements,omitempty"`
	EnableLongMessageBackchannelling bool                     `json:"enableLongMessageBackchannelling,omitempty"`
	PunctuationBreaks                []string                 `json:"punctuationBreaks"`
	ElevenLabs                       *ElevenLabsVoiceSettings `json:"elevenlabs,omitempty"`
}

// WordsReplacement is the platform's name for a word replacement pair
type WordsReplacement struct {
	Word        string `json:"word"`
	Replacement string `json:"replacement"`
}

// ElevenLabsVoiceSettings is the ElevenLabs specific voice block
type ElevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
	Speed           float64 `json:"speed"`
	Style           float64 `json:"style"`
}

// AudioBlock holds the generic audio settings of an agent
type AudioBlock struct {
	RecordAudio      bool   `json:"recordAudio"`
	BackgroundNoise  string `json:"backgroundNoise"`
	EnableWebCalling bool   `json:"enableWebCalling"`
}

// TranscriberBlock configures speech recognition
type TranscriberBlock struct {
	Provider           string          `json:"provider"`
	Model              string          `json:"model"`
	Language           string          `json:"language,omitempty"`
	UtteranceThreshold float64         `json:"utteranceThreshold"`
	InputVoiceEnhancer bool            `json:"inputVoiceEnhancer"`
	Deepgram           DeepgramOptions `json:"deepgram"`
}

// DeepgramOptions holds recognizer options specific to Deepgram
type DeepgramOptions struct {
	Keywords []string `json:"keywords"`
}

// SilenceDetectionBlock ends or nudges calls that go quiet
type SilenceDetectionBlock struct {
	Enabled                   bool    `json:"enabled"`
	TimeoutSeconds            float64 `json:"timeoutSeconds"`
	EndCallAfterFillerPhrases float64 `json:"endCallAfterFillerPhrases"`
}

// RealtimeBlock configures a Google Live realtime session
type RealtimeBlock struct {
	VoiceName                  string                     `json:"voiceName"`
	AutomaticActivityDetection AutomaticActivityDetection `json:"automaticActivityDetection"`
	InputAudioTranscription    *AudioTranscription        `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription   *AudioTranscription        `json:"outputAudioTranscription,omitempty"`
}

// AutomaticActivityDetection configures server side voice activity detection
type AutomaticActivityDetection struct {
	Disabled                 bool   `json:"disabled"`
	StartOfSpeechSensitivity string `json:"startOfSpeechSensitivity"`
	EndOfSpeechSensitivity   string `json:"endOfSpeechSensitivity"`
	PrefixPaddingMs          int    `json:"prefixPaddingMs"`
	SilenceDurationMs        int    `json:"silenceDurationMs"`
}

// AudioTranscription enables transcription of one audio direction. It has no
// options; its presence is the switch.
type AudioTranscription struct{}

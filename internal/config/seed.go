package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/satriahrh/voicesync/domain/entities"
)

// Seed is the initial content of the memory backend.
//
// Example:
//
//	voiceProfiles:
//	  - id: rachel
//	    name: Rachel
//	    voiceConfig:
//	      provider: elevenlabs
//	      selectedVoice: 21m00Tcm4TlvDq8ikWAM
//	workspaces:
//	  - workspaceId: acme
//	    associatedAgentId: agent-1
//	    selectedVoiceId: 21m00Tcm4TlvDq8ikWAM
type Seed struct {
	VoiceProfiles entities.VoiceProfiles           `json:"voiceProfiles"`
	Workspaces    []entities.WorkspaceAgentBinding `json:"workspaces"`
}

// LoadSeed reads and validates a seed file from disk
func LoadSeed(path string) (*Seed, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open seed %q: %w", path, err)
	}
	defer f.Close()

	seed, err := LoadSeedFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse seed %q: %w", path, err)
	}
	return seed, nil
}

// LoadSeedFromReader parses seed YAML from r. The document goes through the
// JSON form of the entities so profiles decode exactly as the API does.
func LoadSeedFromReader(r io.Reader) (*Seed, error) {
	var doc map[string]any
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &Seed{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert seed: %w", err)
	}

	var seed Seed
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	if err := seed.VoiceProfiles.Validate(); err != nil {
		return nil, err
	}
	for i, w := range seed.Workspaces {
		if w.WorkspaceID == "" {
			return nil, fmt.Errorf("workspace %d: workspaceId is required", i)
		}
	}
	return &seed, nil
}

package usecase

import (
	"testing"

	"github.com/satriahrh/voicesync/domain/entities"
)

// settingsEdits pairs each profile with a stored version that keeps the
// same voice and differs only in its settings.
func settingsEdits(profiles ...entities.VoiceProfile) []ProfileChange {
	changes := make([]ProfileChange, len(profiles))
	for i, p := range profiles {
		before := p.Clone()
		before.Name = "stored " + p.Name
		changes[i] = ProfileChange{Before: before, After: p}
	}
	return changes
}

func TestResolver_FanOut(t *testing.T) {
	changes := settingsEdits(elevenLabs("v1", "abc"))
	bindings := []entities.WorkspaceAgentBinding{
		binding("w1", "a1", "abc"),
		binding("w2", "a2", "abc"),
		binding("w3", "a3", "abc"),
		binding("w4", "a4", "other"),
		binding("w5", "a5", "other"),
	}

	tasks := NewResolver(MatchSelectedVoice).Resolve(changes, bindings)
	if len(tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(tasks))
	}
	for _, task := range tasks {
		if task.Profile.ID != "v1" {
			t.Errorf("Expected task for v1, got %s", task.Profile.ID)
		}
	}
}

func TestResolver_SkipsBindingsWithoutAgent(t *testing.T) {
	changes := settingsEdits(elevenLabs("v1", "abc"))
	bindings := []entities.WorkspaceAgentBinding{
		binding("w1", "", "abc"),
		binding("w2", "a2", "abc"),
	}

	tasks := NewResolver(MatchSelectedVoice).Resolve(changes, bindings)
	if len(tasks) != 1 || tasks[0].AgentID != "a2" {
		t.Errorf("Expected only agent a2, got %+v", tasks)
	}
}

func TestResolver_NoMatchIsNotAnError(t *testing.T) {
	tasks := NewResolver(MatchSelectedVoice).Resolve(
		settingsEdits(elevenLabs("v1", "abc")),
		[]entities.WorkspaceAgentBinding{binding("w1", "a1", "zzz")},
	)
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(tasks))
	}
}

func TestResolver_EmptyKeyNeverMatches(t *testing.T) {
	tasks := NewResolver(MatchSelectedVoice).Resolve(
		settingsEdits(elevenLabs("v1", "")),
		[]entities.WorkspaceAgentBinding{binding("w1", "a1", "")},
	)
	if len(tasks) != 0 {
		t.Errorf("Expected no tasks for an empty voice id, got %d", len(tasks))
	}
}

// Google Live profiles carry no selected voice, so the default strategy never
// reaches their agents. The provider-voice strategy matches on the live voice.
func TestResolver_GoogleLiveMatchingByStrategy(t *testing.T) {
	changes := settingsEdits(googleLive("g1", entities.LiveVoiceKore))
	bindings := []entities.WorkspaceAgentBinding{binding("w1", "a1", "Kore")}

	if tasks := NewResolver(MatchSelectedVoice).Resolve(changes, bindings); len(tasks) != 0 {
		t.Errorf("selected-voice: expected no tasks, got %d", len(tasks))
	}
	if tasks := NewResolver(MatchProviderVoice).Resolve(changes, bindings); len(tasks) != 1 {
		t.Errorf("provider-voice: expected 1 task, got %d", len(tasks))
	}
}

func TestResolver_ProviderVoiceDefaultsToPuck(t *testing.T) {
	changes := settingsEdits(googleLive("g1", ""))
	bindings := []entities.WorkspaceAgentBinding{binding("w1", "a1", "Puck")}

	if tasks := NewResolver(MatchProviderVoice).Resolve(changes, bindings); len(tasks) != 1 {
		t.Errorf("Expected the default voice to match, got %d tasks", len(tasks))
	}
}

func TestResolver_VoiceChangeMatchesStoredVoice(t *testing.T) {
	changes := []ProfileChange{{
		Before: elevenLabs("v1", "abc"),
		After:  elevenLabs("v1", "xyz"),
	}}
	bindings := []entities.WorkspaceAgentBinding{
		binding("w1", "a1", "abc"),
		binding("w2", "a2", "xyz"),
		binding("w3", "a3", "other"),
	}

	tasks := NewResolver(MatchSelectedVoice).Resolve(changes, bindings)
	if len(tasks) != 2 {
		t.Fatalf("Expected 2 tasks, got %+v", tasks)
	}
	for i, wantAgent := range []string{"a1", "a2"} {
		if tasks[i].AgentID != wantAgent {
			t.Errorf("task %d: expected agent %s, got %s", i, wantAgent, tasks[i].AgentID)
		}
		if got := tasks[i].Profile.VoiceConfig.ElevenLabs.SelectedVoice; got != "xyz" {
			t.Errorf("task %d: expected the edited voice xyz, got %q", i, got)
		}
	}
}

func TestResolver_SameVoiceYieldsOneTaskPerBinding(t *testing.T) {
	tasks := NewResolver(MatchSelectedVoice).Resolve(
		settingsEdits(elevenLabs("v1", "abc")),
		[]entities.WorkspaceAgentBinding{binding("w1", "a1", "abc")},
	)
	if len(tasks) != 1 {
		t.Errorf("Expected 1 task, got %d", len(tasks))
	}
}

func TestParseMatchStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchStrategy
		wantErr bool
	}{
		{in: "", want: MatchSelectedVoice},
		{in: "selected-voice", want: MatchSelectedVoice},
		{in: "provider-voice", want: MatchProviderVoice},
		{in: "fuzzy", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMatchStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMatchStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMatchStrategy(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

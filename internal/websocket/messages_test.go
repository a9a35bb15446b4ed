package websocket

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/satriahrh/voicesync/usecase"
)

func TestParseClientMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		wantErr bool
	}{
		{name: "ping", message: `{"type":"ping","data":"x"}`},
		{name: "ping without data", message: `{"type":"ping"}`},
		{name: "unsupported type", message: `{"type":"sync_completed"}`, wantErr: true},
		{name: "invalid json", message: `{"type":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseClientMessage([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseClientMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSyncCompletedMessage_EmptyReport(t *testing.T) {
	msg := NewSyncCompletedMessage("tok", usecase.SyncReport{})

	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	// Collections are always present so clients can iterate without checks
	if _, ok := doc["changedProfiles"].([]any); !ok {
		t.Errorf("Expected changedProfiles array, got %s", raw)
	}
	if _, ok := doc["results"].([]any); !ok {
		t.Errorf("Expected results array, got %s", raw)
	}
	if _, err := time.Parse(time.RFC3339, msg.Timestamp); err != nil {
		t.Errorf("Expected RFC3339 timestamp, got %q", msg.Timestamp)
	}
}

func TestNewSyncAbandonedMessage(t *testing.T) {
	msg := NewSyncAbandonedMessage("tok", &usecase.ResolutionError{Err: errors.New("db down")})
	if msg.Type != MessageTypeSyncAbandoned || msg.SyncToken != "tok" {
		t.Errorf("Unexpected message: %+v", msg)
	}
	if msg.Reason == "" {
		t.Error("Expected a reason")
	}
}

// Pushed results use the same field mapping as the REST resync response
func TestNewSyncCompletedMessage_ResultsMatchRESTForm(t *testing.T) {
	result := usecase.AgentSyncResult{
		AgentID:     "agent-1",
		WorkspaceID: "ws-1",
		ProfileID:   "v1",
		Provider:    "elevenlabs",
		Err:         errors.New("boom"),
		Duration:    42 * time.Millisecond,
	}
	msg := NewSyncCompletedMessage("tok", usecase.SyncReport{
		ChangedProfiles: []string{"v1"},
		Results:         []usecase.AgentSyncResult{result},
	})

	pushed, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal message: %v", err)
	}
	var doc struct {
		SyncToken string           `json:"syncToken"`
		Results   []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(pushed, &doc); err != nil {
		t.Fatalf("Unmarshal message: %v", err)
	}

	rest, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal result: %v", err)
	}
	var want map[string]any
	if err := json.Unmarshal(rest, &want); err != nil {
		t.Fatalf("Unmarshal result: %v", err)
	}

	if doc.SyncToken != "tok" {
		t.Errorf("Expected syncToken tok, got %s", pushed)
	}
	if len(doc.Results) != 1 {
		t.Fatalf("Expected 1 result, got %s", pushed)
	}
	if diff := cmp.Diff(want, doc.Results[0]); diff != "" {
		t.Errorf("pushed result mismatch (-rest +pushed):\n%s", diff)
	}
}

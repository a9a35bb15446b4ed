package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/satriahrh/voicesync/usecase"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeSyncCompleted MessageType = "sync_completed"
	MessageTypeSyncAbandoned MessageType = "sync_abandoned"
	MessageTypePing          MessageType = "ping"
	MessageTypePong          MessageType = "pong"
	MessageTypeError         MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
}

// SyncCompletedMessage announces the end of a background sync
type SyncCompletedMessage struct {
	BaseMessage
	SyncToken       string                        `json:"syncToken"`
	ChangedProfiles []string                      `json:"changedProfiles"`
	Succeeded       int                           `json:"succeeded"`
	Failed          int                           `json:"failed"`
	Results         []usecase.AgentSyncResultView `json:"results"`
}

// SyncAbandonedMessage announces a sync that never dispatched
type SyncAbandonedMessage struct {
	BaseMessage
	SyncToken string `json:"syncToken"`
	Reason    string `json:"reason"`
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewSyncCompletedMessage converts a sync report into its wire form
func NewSyncCompletedMessage(token string, report usecase.SyncReport) *SyncCompletedMessage {
	msg := &SyncCompletedMessage{
		BaseMessage:     BaseMessage{Type: MessageTypeSyncCompleted, Timestamp: now()},
		SyncToken:       token,
		ChangedProfiles: report.ChangedProfiles,
		Results:         make([]usecase.AgentSyncResultView, 0, len(report.Results)),
	}
	if msg.ChangedProfiles == nil {
		msg.ChangedProfiles = []string{}
	}
	for _, r := range report.Results {
		if r.OK() {
			msg.Succeeded++
		} else {
			msg.Failed++
		}
		msg.Results = append(msg.Results, r.View())
	}
	return msg
}

// NewSyncAbandonedMessage creates a sync abandoned message
func NewSyncAbandonedMessage(token string, err error) *SyncAbandonedMessage {
	return &SyncAbandonedMessage{
		BaseMessage: BaseMessage{Type: MessageTypeSyncAbandoned, Timestamp: now()},
		SyncToken:   token,
		Reason:      err.Error(),
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeError, Timestamp: now()},
		Code:        code,
		Message:     message,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: BaseMessage{Type: MessageTypePong, Timestamp: now()},
		Data:        data,
	}
}

// ParseClientMessage parses an inbound message. Admin clients only listen,
// so ping is the only message they may send.
func ParseClientMessage(messageBytes []byte) (*PingMessage, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil
	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

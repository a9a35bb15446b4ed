package agentapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/voicesync/domain/entities"
	"github.com/satriahrh/voicesync/domain/repositories"
)

const (
	defaultTimeout  = 15 * time.Second
	maxErrorExcerpt = 512
)

// Config holds configuration for the agent platform client
// Required fields:
// - BaseURL: root of the agent platform API, e.g. "https://agents.example.com/v1"
// - APIKey: bearer token for the platform
// Optional fields with defaults:
// - Timeout: per request timeout (default: 15s)
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client implements AgentAPI against the agent platform's REST API
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// Ensure Client implements the AgentAPI interface
var _ repositories.AgentAPI = (*Client)(nil)

// StatusError is returned when the platform answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("agent API returned error %d: %s", e.StatusCode, e.Body)
}

// ValidateConfig validates the Config
func ValidateConfig(config Config) error {
	if config.BaseURL == "" {
		return fmt.Errorf("agent API base URL is required")
	}
	u, err := url.Parse(config.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid agent API base URL %q", config.BaseURL)
	}
	if config.APIKey == "" {
		return fmt.Errorf("agent API key is required")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", config.Timeout)
	}
	return nil
}

// NewClient creates a new agent platform client
func NewClient(config Config, logger *zap.Logger) (*Client, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
		logger.Info("Using default agent API timeout", zap.Duration("timeout", timeout))
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// UpdateAgent applies a partial configuration update to one agent
func (c *Client) UpdateAgent(ctx context.Context, agentID string, payload *entities.AgentPayload) error {
	if agentID == "" {
		return fmt.Errorf("agent ID cannot be empty")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal agent payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/agents/%s", c.baseURL, url.PathEscape(agentID))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug("Sending agent update", zap.String("agentID", agentID), zap.String("url", endpoint))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorExcerpt))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(errorBody))}
	}

	// Drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

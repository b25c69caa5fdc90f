package api

import (
	"context"
	"encoding/json"
	"strings"
)

const (
	PathHealth = "/health/"
	PathAIChat = "/ai/chat/"
)

// StatusHealthy is assumed when the health endpoint answers 2xx without a
// JSON status.
const StatusHealthy = "healthy"

// HealthCheck calls GET /health/.
func (c *Client) HealthCheck(ctx context.Context) (HealthResponse, error) {
	resp, err := c.Get(ctx, PathHealth, nil)
	if err != nil {
		return HealthResponse{}, err
	}
	var out HealthResponse
	if jerr := json.Unmarshal(resp.Data, &out); jerr != nil {
		out = HealthResponse{Message: strings.TrimSpace(string(resp.Data))}
	}
	if strings.TrimSpace(out.Status) == "" {
		out.Status = StatusHealthy
	}
	return out, nil
}

// AIChat calls POST /ai/chat/ with the supplied message.
func (c *Client) AIChat(ctx context.Context, message string) (AIChatResponse, error) {
	var out AIChatResponse
	if _, err := c.Post(ctx, PathAIChat, ChatRequest{Message: message}, &out); err != nil {
		return AIChatResponse{}, err
	}
	return out, nil
}

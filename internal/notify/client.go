package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"chugr/backend/internal/health"
	"chugr/backend/internal/models"
)

// ServiceName is the registry key for the notification service.
const ServiceName = "notifications"

// Client posts platform events to the notification service. Every call
// goes through the health registry's breaker, so a dead notification
// service fails fast instead of stalling request handlers.
type Client struct {
	baseURL  string
	registry *health.Registry
	http     *http.Client
}

// NewClient creates a notification client bound to the given registry.
func NewClient(baseURL string, registry *health.Registry) *Client {
	return &Client{
		baseURL:  baseURL,
		registry: registry,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

// MatchCreated notifies both participants of a new match.
func (c *Client) MatchCreated(ctx context.Context, match *models.Match) error {
	payload := map[string]interface{}{
		"type":    "match.created",
		"matchId": match.ID,
		"userIds": []uint{match.UserAID, match.UserBID},
	}
	return c.post(ctx, "/internal/events", payload)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return c.registry.Do(ctx, ServiceName, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("notification service returned status %d", resp.StatusCode)
		}
		return nil
	})
}

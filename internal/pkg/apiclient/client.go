package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/inout-manager/realtime-go/internal/domain/activity"
	"github.com/inout-manager/realtime-go/internal/domain/stats"
	"github.com/inout-manager/realtime-go/internal/domain/syncqueue"
)

const defaultTimeout = 15 * time.Second

// Client is the bearer-authenticated HTTP client for the gateway's
// request/response surface: fallback polling, report generation, and
// sync-queue replays.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// envelope mirrors the gateway's response format
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("GET %s: decoding response: %w", path, err)
	}
	if !env.Success {
		return fmt.Errorf("GET %s: %s", path, env.Message)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("GET %s: decoding data: %w", path, err)
		}
	}
	return nil
}

// RealtimeStats fetches the current dashboard counters (polling mode)
func (c *Client) RealtimeStats(ctx context.Context) (stats.DashboardResponse, error) {
	var out stats.DashboardResponse
	if err := c.get(ctx, "/api/v1/realtime/stats", &out); err != nil {
		return stats.DashboardResponse{}, err
	}
	return out, nil
}

// RecentActivity fetches the recent event list with stable ids for
// deduplication (polling mode)
func (c *Client) RecentActivity(ctx context.Context) ([]activity.Event, error) {
	var items []activity.EventResponse
	if err := c.get(ctx, "/api/v1/activity/recent", &items); err != nil {
		return nil, err
	}
	events := make([]activity.Event, len(items))
	for i, item := range items {
		events[i] = activity.FromResponse(item)
	}
	return events, nil
}

// ReportFile is the report-generation collaborator's result contract
type ReportFile struct {
	ReportURL string `json:"reportUrl"`
	FileName  string `json:"fileName"`
}

// UserReport asks the report collaborator for a single-user report
func (c *Client) UserReport(ctx context.Context, userID, startDate, endDate string) (ReportFile, error) {
	var out ReportFile
	path := fmt.Sprintf("/api/v1/reports/user/%s?startDate=%s&endDate=%s", userID, startDate, endDate)
	if err := c.get(ctx, path, &out); err != nil {
		return ReportFile{}, err
	}
	return out, nil
}

// GeneralReport asks the report collaborator for a company-wide report
func (c *Client) GeneralReport(ctx context.Context, startDate, endDate string) (ReportFile, error) {
	var out ReportFile
	path := fmt.Sprintf("/api/v1/reports/general?startDate=%s&endDate=%s", startDate, endDate)
	if err := c.get(ctx, path, &out); err != nil {
		return ReportFile{}, err
	}
	return out, nil
}

// Deliver replays a queued action against its original target. Any
// non-2xx status counts as a failed delivery so the action is
// retained for a later retry.
func (c *Client) Deliver(ctx context.Context, action syncqueue.Action) error {
	var body io.Reader
	if len(action.Payload) > 0 {
		body = bytes.NewReader(action.Payload)
	}

	req, err := http.NewRequestWithContext(ctx, action.Method, c.baseURL+action.TargetURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	for name, value := range action.Headers {
		req.Header.Set(name, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s %s returned %d", syncqueue.ErrDeliveryRejected, action.Method, action.TargetURL, resp.StatusCode)
	}
	return nil
}

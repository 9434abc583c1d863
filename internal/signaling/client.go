// Package signaling is the HTTP client side of the orchestrator
// protocol: one-time registration, periodic health reports, offer
// polling and answer dispatch. Every call is fire-and-forget for the
// caller; a failed cycle is logged and the next one starts clean.
package signaling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dkeye/Morph/internal/domain"
)

type Client struct {
	baseURL string
	nodeID  string
	http    *http.Client
}

func NewClient(orchestratorURL, nodeID string) *Client {
	return &Client{
		baseURL: strings.TrimRight(orchestratorURL, "/"),
		nodeID:  nodeID,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Register announces this node. POST /nodes/register.
func (c *Client) Register(ctx context.Context, info domain.NodeInfo) error {
	return c.postJSON(ctx, c.baseURL+"/nodes/register", info)
}

// ReportHealth pushes one health snapshot. POST /nodes/{id}/health.
func (c *Client) ReportHealth(ctx context.Context, h domain.Health) error {
	return c.postJSON(ctx, fmt.Sprintf("%s/nodes/%s/health", c.baseURL, c.nodeID), h)
}

// PollOffer asks for a pending offer. GET /nodes/{id}/offers.
// No pending offer (204 or empty body) is the normal (nil, nil) case.
func (c *Client) PollOffer(ctx context.Context) (*domain.PendingOffer, error) {
	url := fmt.Sprintf("%s/nodes/%s/offers", c.baseURL, c.nodeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("offer poll: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 || string(bytes.TrimSpace(body)) == "null" {
		return nil, nil
	}
	var offer domain.PendingOffer
	if err := json.Unmarshal(body, &offer); err != nil {
		return nil, fmt.Errorf("offer poll: bad payload: %w", err)
	}
	if offer.Offer == "" {
		return nil, nil
	}
	return &offer, nil
}

// SendAnswer dispatches the answer for a polled offer.
// POST /nodes/{id}/answers.
func (c *Client) SendAnswer(ctx context.Context, sessionID, answerSDP string) error {
	payload := struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
	}{SessionID: sessionID, Answer: answerSDP}
	return c.postJSON(ctx, fmt.Sprintf("%s/nodes/%s/answers", c.baseURL, c.nodeID), payload)
}

func (c *Client) postJSON(ctx context.Context, url string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}

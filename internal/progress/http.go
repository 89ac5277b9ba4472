package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/mathdrill/internal/session"
)

// ProgressPath is the route of the progress service that accepts events.
const ProgressPath = "/api/progress"

// HTTP posts progress events as JSON to a progress service.
type HTTP struct {
	url    string
	client *http.Client
}

var _ session.ProgressSink = (*HTTP)(nil)

// NewHTTP returns a sink posting to baseURL + ProgressPath. A nil client
// uses one with a 10 second timeout.
func NewHTTP(baseURL string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTP{url: strings.TrimRight(baseURL, "/") + ProgressPath, client: client}
}

// URL returns the endpoint events are posted to.
func (h *HTTP) URL() string {
	return h.url
}

func (h *HTTP) RecordProgress(ctx context.Context, ev session.ProgressEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal progress: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build progress request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post progress: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("post progress: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

package visitclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nlzhang/homepage/internal/pkg/visit"
)

// Source labels where a visit result came from, so the degraded local
// path stays visible to the caller.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Client records a visit against the daily-visit endpoint and falls
// back to the local counter on any failure. One attempt per backend,
// no retries, no reconciliation between the two.
type Client struct {
	baseURL    string
	httpClient *http.Client
	local      *LocalCounter
	now        func() time.Time
}

func NewClient(baseURL string, local *LocalCounter) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		local:      local,
		now:        time.Now,
	}
}

// Record counts today's visit. Any network error or non-200 response
// routes to the local counter; the two failure classes are deliberately
// not distinguished.
func (c *Client) Record(ctx context.Context, date string) (visit.Result, Source, error) {
	result, err := c.recordRemote(ctx, date)
	if err == nil {
		return result, SourceRemote, nil
	}

	local, localErr := c.local.RecordVisitLocal(date)
	if localErr != nil {
		return visit.Result{}, SourceLocal, localErr
	}
	return local, SourceLocal, nil
}

func (c *Client) recordRemote(ctx context.Context, date string) (visit.Result, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"date":      date,
		"timestamp": c.now().UnixMilli(),
	})
	if err != nil {
		return visit.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/daily-visit", bytes.NewReader(payload))
	if err != nil {
		return visit.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return visit.Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return visit.Result{}, fmt.Errorf("visitclient: endpoint returned status %d", resp.StatusCode)
	}

	var result visit.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return visit.Result{}, fmt.Errorf("visitclient: decode response: %w", err)
	}
	return result, nil
}

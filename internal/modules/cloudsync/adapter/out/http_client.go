package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"timebox/internal/modules/cloudsync/domain"
	syncout "timebox/internal/modules/cloudsync/port/out"
	apperrors "timebox/internal/platform/errors"
)

// HTTPClient calls the sync API rooted at apiBase.
type HTTPClient struct {
	apiBase string
	http    *http.Client
}

func NewHTTPClient(apiBase string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		apiBase: strings.TrimRight(apiBase, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

var _ syncout.Client = (*HTTPClient)(nil)

type registerRequest struct {
	Label string `json:"label,omitempty"`
}

type registerResponse struct {
	SyncKey string `json:"syncKey"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPClient) Register(ctx context.Context, label string) (string, error) {
	body, err := json.Marshal(registerRequest{Label: strings.TrimSpace(label)})
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/sync/register", body)
	if err != nil {
		return "", err
	}
	var out registerResponse
	if err := c.do(req, "register", &out); err != nil {
		return "", err
	}
	if out.SyncKey == "" {
		return "", fmt.Errorf("invalid response when registering sync key")
	}
	return out.SyncKey, nil
}

func (c *HTTPClient) Pull(ctx context.Context, syncKey string) (domain.PullResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/storage", nil)
	if err != nil {
		return domain.PullResponse{}, err
	}
	req.Header.Set(domain.HeaderSyncKey, syncKey)
	var out struct {
		Records  []domain.Record `json:"records"`
		PulledAt int64           `json:"pulledAt"`
	}
	if err := c.do(req, "pull", &out); err != nil {
		return domain.PullResponse{}, err
	}
	if out.Records == nil {
		return domain.PullResponse{}, fmt.Errorf("invalid sync payload: records missing")
	}
	return domain.PullResponse{Records: out.Records, PulledAt: out.PulledAt}, nil
}

func (c *HTTPClient) Push(ctx context.Context, syncKey string, record domain.Record) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", record.Key, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/storage", body)
	if err != nil {
		return err
	}
	req.Header.Set(domain.HeaderSyncKey, syncKey)
	return c.do(req, "push", nil)
}

func (c *HTTPClient) newRequest(ctx context.Context, method, path string, body []byte) (*http.Request, error) {
	if c.apiBase == "" {
		return nil, fmt.Errorf("%w: sync api base is not configured", apperrors.ErrSyncDisabled)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *HTTPClient) do(req *http.Request, op string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sync %s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return fmt.Errorf("sync %s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &domain.APIError{Op: op, Status: resp.StatusCode}
		var payload errorResponse
		if json.Unmarshal(raw, &payload) == nil {
			apiErr.Code = payload.Error
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("sync %s: decode response: %w", op, err)
	}
	return nil
}

package kbsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"programcheck/internal/config"
)

const maxRetries = 4

var ErrNotFound = errors.New("knowledge base key not found")

// Client talks to the key-value service that owns the knowledge base blob.
type Client struct {
	cfg     config.Config
	http    *retryablehttp.Client
	limiter *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

type Entry struct {
	Key       string  `json:"key"`
	Value     string  `json:"value"`
	UpdatedAt *string `json:"updatedAt"`
}

func NewClient(cfg config.Config) *Client {
	c := &Client{cfg: cfg, limiter: NewRateLimiter(cfg.KBRateLimitRPS)}

	rc := retryablehttp.NewClient()
	rc.RetryMax = maxRetries
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 4 * time.Second
	rc.HTTPClient.Timeout = time.Duration(cfg.KBTimeoutMs) * time.Millisecond
	rc.Logger = retryLogger{}
	// Every attempt, retries included, takes a rate limiter slot.
	rc.RequestLogHook = func(_ retryablehttp.Logger, req *http.Request, _ int) {
		_ = c.limiter.Wait(req.Context())
	}
	c.http = rc
	return c
}

func (c *Client) Get(ctx context.Context) (Entry, error) {
	data, err := c.do(ctx, http.MethodGet, nil)
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(data)
}

func (c *Client) Put(ctx context.Context, value string) (Entry, error) {
	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		return Entry{}, err
	}
	data, err := c.do(ctx, http.MethodPut, body)
	if err != nil {
		return Entry{}, err
	}
	return decodeEntry(data)
}

func decodeEntry(data []byte) (Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return Entry{}, fmt.Errorf("decode entry: %w", err)
	}
	return entry, nil
}

func (c *Client) endpoint() (string, error) {
	if err := c.cfg.Require("KB_API_BASE_URL", c.cfg.KBAPIBaseURL); err != nil {
		return "", err
	}
	if err := c.cfg.Require("KB_API_TOKEN", c.cfg.KBAPIToken); err != nil {
		return "", err
	}
	if err := c.cfg.Require("KB_KEY", c.cfg.KBKey); err != nil {
		return "", err
	}
	u, err := url.Parse(strings.TrimRight(c.cfg.KBAPIBaseURL, "/") + "/kv/" + url.PathEscape(c.cfg.KBKey))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (c *Client) do(ctx context.Context, method string, payload []byte) ([]byte, error) {
	target, err := c.endpoint()
	if err != nil {
		return nil, err
	}

	var body any
	if payload != nil {
		body = payload
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.KBAPIToken)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kv %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("kv api error: status=%d body=%s", resp.StatusCode, string(respBody))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, err
	}
	if !apiResp.Success {
		return nil, fmt.Errorf("kv api unsuccessful: %s %s", apiResp.Message, string(apiResp.Errors))
	}
	return apiResp.Data, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Result is the analyzer's verdict for one piece of text. Score is in
// [-1, 1] (negative to positive), Confidence in [0, 1].
type Result struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
}

// Analyzer is the interface for sentiment backends. Implementations must be
// safe for concurrent use; batch scoring calls Analyze from many goroutines.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Result, error)
}

// ErrUnavailable wraps any transport or service failure. Callers treat the
// analyzer as unreliable: on error they score with a nil sentiment instead
// of failing the response.
var ErrUnavailable = errors.New("sentiment service unavailable")

const (
	defaultTimeout    = 10 * time.Second
	defaultMaxRetries = 2
	backoffBase       = 200 * time.Millisecond
	maxBodyBytes      = 1 << 20 // 1 MiB
)

// Client calls a JSON-over-HTTP sentiment endpoint:
//
//	POST {URL}  {"text": "..."}  ->  {"score": -0.4, "confidence": 0.9}
//
// Requests are timeout-bounded and retried with exponential backoff on
// transport errors, 429, and 5xx. Client errors (other 4xx) are not retried.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// NewClient builds a Client for the given endpoint. apiKey may be empty for
// unauthenticated endpoints.
func NewClient(url, apiKey string) *Client {
	return &Client{
		url:        url,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
	}
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Score      float64 `json:"score"`
	Confidence float64 `json:"confidence"`
	Error      string  `json:"error,omitempty"`
}

// Analyze scores one piece of text. The returned Result has Score clamped to
// [-1, 1] and Confidence clamped to [0, 1].
func (c *Client) Analyze(ctx context.Context, text string) (*Result, error) {
	body, err := json.Marshal(analyzeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := backoffBase << (attempt - 1)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
			}
		}

		result, retryable, err := c.doRequest(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

// doRequest performs one attempt. The second return value reports whether
// the failure is worth retrying.
func (c *Client) doRequest(ctx context.Context, body []byte) (*Result, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, true, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("HTTP %d: %s", resp.StatusCode, truncate(string(respBytes), 200))
	}

	var ar analyzeResponse
	if err := json.Unmarshal(respBytes, &ar); err != nil {
		return nil, false, fmt.Errorf("parsing response JSON: %w", err)
	}
	if ar.Error != "" {
		return nil, false, fmt.Errorf("service error: %s", ar.Error)
	}

	return &Result{
		Score:      clamp(ar.Score, -1, 1),
		Confidence: clamp(ar.Confidence, 0, 1),
	}, false, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}

// Package subscribeclient calls the subscription API's POST /subscribe.
package subscribeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnreachable wraps transport failures: the API could not be reached or
// did not answer.
var ErrUnreachable = errors.New("subscription service unreachable")

// Request is the body sent to POST /subscribe.
type Request struct {
	UserName       string `json:"userName"`
	PlanName       string `json:"planName"`
	DurationMonths int    `json:"durationMonths"`
}

// Response is whatever the API answered. Body fields are best-effort: a
// non-JSON body leaves them empty.
type Response struct {
	StatusCode         int    `json:"-"`
	Message            string `json:"message"`
	Error              string `json:"error"`
	SubscriptionStatus string `json:"subscriptionStatus"`
	Subscription       *struct {
		ID                 string `json:"id"`
		SubscriptionStatus string `json:"subscriptionStatus"`
	} `json:"subscription"`
}

// OK reports a 2xx status.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// Status is the subscription status reported by the API, or "".
func (r *Response) Status() string {
	if r.SubscriptionStatus != "" {
		return r.SubscriptionStatus
	}
	if r.Subscription != nil {
		return r.Subscription.SubscriptionStatus
	}
	return ""
}

// Client talks to one subscription API base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for baseURL (e.g. "http://localhost:5050").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// BaseURL returns the API base URL the client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// Subscribe posts req. Any HTTP answer, success or not, is returned as a
// Response with a nil error; only transport failures return an error.
func (c *Client) Subscribe(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/subscribe", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnreachable, err)
	}

	out := &Response{}
	// A body that is not JSON is treated as empty.
	_ = json.Unmarshal(body, out)
	out.StatusCode = resp.StatusCode
	return out, nil
}

package telephony

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
)

// Dialer initiates outbound calls at the provider.
type Dialer interface {
	StartOutboundCall(ctx context.Context, to, from, voiceURL string) (callSid string, err error)
}

// RestClient is a focused Twilio REST client for outbound call creation.
// Like the TwiML builder it avoids the provider SDK; the surface we need is
// one form-encoded POST.
type RestClient struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

type RestOption func(*RestClient)

func WithBaseURL(baseURL string) RestOption {
	return func(c *RestClient) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithHTTPClient(hc *http.Client) RestOption {
	return func(c *RestClient) {
		c.httpClient = hc
	}
}

func NewRestClient(accountSID, authToken string, opts ...RestOption) (*RestClient, error) {
	if accountSID == "" || authToken == "" {
		return nil, errors.New("telephony: twilio credentials required")
	}
	c := &RestClient{
		accountSID: accountSID,
		authToken:  authToken,
		baseURL:    "https://api.twilio.com",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type createCallResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

// StartOutboundCall asks Twilio to place a call and fetch TwiML from voiceURL
// once the callee answers. Returns the provider call id.
func (c *RestClient) StartOutboundCall(ctx context.Context, to, from, voiceURL string) (string, error) {
	if to == "" || from == "" {
		return "", errors.New("telephony: to and from numbers required")
	}
	if voiceURL == "" {
		return "", errors.New("telephony: voice url required")
	}

	form := url.Values{}
	form.Set("To", to)
	form.Set("From", from)
	form.Set("Url", voiceURL)
	form.Set("Method", "POST")

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("telephony: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("telephony: call creation failed: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("telephony: read response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", fmt.Errorf("telephony: unexpected status %d from call creation: %s", res.StatusCode, truncate(string(body), 512))
	}

	var payload createCallResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("telephony: decode response: %w", err)
	}
	if payload.Sid == "" {
		return "", errors.New("telephony: call creation response missing sid")
	}
	return payload.Sid, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

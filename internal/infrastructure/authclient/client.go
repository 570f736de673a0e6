package authclient

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

	"staff-service/config"
	"staff-service/internal/platform/metrics"

	"github.com/google/uuid"
)

// ErrUpstream wraps every failure talking to the auth service: transport errors,
// non-success statuses and unreadable bodies.
var ErrUpstream = errors.New("auth service request failed")

// SessionCookie is the cookie carrying the caller's session token
const SessionCookie = "token"

const (
	operationProvision   = "provision"
	operationDeprovision = "deprovision"
)

// Client provisions and removes credentials in the auth service on behalf of the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

type provisionRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
}

type provisionResponse struct {
	ID string `json:"_id"`
}

func NewClient(cfg config.AuthServiceConfig, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    m,
	}
}

// ProvisionCredential creates a user in the auth service and returns its id.
func (c *Client) ProvisionCredential(ctx context.Context, email, password string, roles []string, sessionToken string) (uuid.UUID, error) {
	start := time.Now()
	id, err := c.provision(ctx, email, password, roles, sessionToken)
	c.observe(operationProvision, start, err)
	return id, err
}

// DeprovisionCredential removes a user from the auth service. Only 200 and 204 count as done.
func (c *Client) DeprovisionCredential(ctx context.Context, userID uuid.UUID, sessionToken string) error {
	start := time.Now()
	err := c.deprovision(ctx, userID, sessionToken)
	c.observe(operationDeprovision, start, err)
	return err
}

func (c *Client) provision(ctx context.Context, email, password string, roles []string, sessionToken string) (uuid.UUID, error) {
	body, err := json.Marshal(provisionRequest{Email: email, Password: password, Roles: roles})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: encode request: %v", ErrUpstream, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/users", bytes.NewReader(body), sessionToken)
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return uuid.Nil, statusError(resp)
	}

	var out provisionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return uuid.Nil, fmt.Errorf("%w: decode response: %v", ErrUpstream, err)
	}
	id, err := uuid.Parse(out.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid user id %q", ErrUpstream, out.ID)
	}
	return id, nil
}

func (c *Client) deprovision(ctx context.Context, userID uuid.UUID, sessionToken string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.baseURL+"/users/"+userID.String(), nil, sessionToken)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader, sessionToken string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: sessionToken})
	}
	return req, nil
}

func (c *Client) observe(operation string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeFailure
	}
	c.metrics.ObserveUpstream(operation, outcome, time.Since(start).Seconds())
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("%w: status=%d body=%s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
}

// Package gateway attaches bearer credentials to every API call and hides
// access-token expiry from callers. When a call fails authorization the
// gateway refreshes the token once, parks every other call that fails while
// the refresh is in flight, and retries them all with the new token.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"storefront-client/internal/domain"
	"storefront-client/internal/metrics"
	"storefront-client/pkg/response"
)

const (
	DefaultRefreshPath = "/auth/refresh-token"
	DeviceHeader       = "X-Device-ID"

	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20
)

// TokenStore is the durable credential pair the gateway reads and rotates.
type TokenStore interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetAccessToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

type Options struct {
	BaseURL string
	Tokens  TokenStore

	// HTTPClient carries ordinary calls. Its Timeout is what guarantees that
	// a caller waiting on the gateway is eventually released.
	HTTPClient *http.Client

	// RefreshClient carries only the refresh call and never passes back
	// through the gateway, so a failing refresh cannot recurse.
	RefreshClient *http.Client
	RefreshPath   string

	DeviceID string

	// OnLogout runs once per terminated session, after credentials are cleared.
	OnLogout func(ctx context.Context)

	Metrics *metrics.Recorder
}

type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}

	retried bool
}

type Response struct {
	StatusCode int
	Message    string
	Data       json.RawMessage
}

// Decode unmarshals the envelope's data field. A null or absent data field
// leaves v untouched.
func (r *Response) Decode(v interface{}) error {
	if len(r.Data) == 0 || string(r.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

// HasData reports whether the server returned a non-null data field.
func (r *Response) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

type refreshResult struct {
	token string
	err   error
}

type Gateway struct {
	baseURL       string
	refreshPath   string
	deviceID      string
	tokens        TokenStore
	client        *http.Client
	refreshClient *http.Client
	onLogout      func(ctx context.Context)
	metrics       *metrics.Recorder

	mu         sync.Mutex
	refreshing bool
	queue      []chan refreshResult
	cycles     int
	last       refreshResult
}

func New(opts Options) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	refreshClient := opts.RefreshClient
	if refreshClient == nil {
		refreshClient = &http.Client{Timeout: client.Timeout}
	}

	refreshPath := opts.RefreshPath
	if refreshPath == "" {
		refreshPath = DefaultRefreshPath
	}

	return &Gateway{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		refreshPath:   refreshPath,
		deviceID:      opts.DeviceID,
		tokens:        opts.Tokens,
		client:        client,
		refreshClient: refreshClient,
		onLogout:      opts.OnLogout,
		metrics:       opts.Metrics,
	}
}

func (g *Gateway) Get(ctx context.Context, path string) (*Response, error) {
	return g.Do(ctx, &Request{Method: http.MethodGet, Path: path})
}

func (g *Gateway) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return g.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body})
}

func (g *Gateway) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return g.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body})
}

func (g *Gateway) Delete(ctx context.Context, path string) (*Response, error) {
	return g.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// Do issues the request with the current access token. An authorization
// failure is retried exactly once with a refreshed token; every other
// outcome is returned as is.
func (g *Gateway) Do(ctx context.Context, req *Request) (*Response, error) {
	call := *req

	token, err := g.tokens.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}

	resp, err := g.send(ctx, &call, token)
	if err == nil {
		return resp, nil
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) || !apiErr.AuthFailure() || call.retried {
		return nil, err
	}
	call.retried = true

	fresh, err := g.awaitToken(ctx, token, apiErr)
	if err != nil {
		return nil, err
	}

	return g.send(ctx, &call, fresh)
}

// Refreshing reports whether a refresh is in flight.
func (g *Gateway) Refreshing() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refreshing
}

// Queued reports how many requests are parked behind the in-flight refresh.
func (g *Gateway) Queued() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}

// awaitToken returns a token to retry with. stale is the token the failed
// request carried; if a newer one exists, a refresh or logout completed after
// that request was sent and no new refresh is needed. A request sent without
// any token has no session to refresh or end.
func (g *Gateway) awaitToken(ctx context.Context, stale string, cause *APIError) (string, error) {
	g.mu.Lock()
	cycle := g.cycles
	g.mu.Unlock()

	// Read outside the lock: the store may be a network round trip.
	current, readErr := g.tokens.AccessToken(ctx)

	g.mu.Lock()

	if g.refreshing {
		ch := make(chan refreshResult, 1)
		g.queue = append(g.queue, ch)
		g.mu.Unlock()

		g.metrics.Queued()
		select {
		case res := <-ch:
			return res.token, res.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	// A refresh settled while the token was being read; its outcome is newer
	// than anything the read returned.
	if g.cycles != cycle {
		last := g.last
		g.mu.Unlock()
		return last.token, last.err
	}

	if readErr == nil && current != stale {
		g.mu.Unlock()
		if current == "" {
			// The session ended while this request was in flight.
			return "", fmt.Errorf("%w: %w", ErrSessionExpired, cause)
		}
		return current, nil
	}

	if readErr == nil && stale == "" {
		g.mu.Unlock()
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, cause)
	}

	g.refreshing = true
	g.mu.Unlock()

	// The refresh outlives the caller that happened to trigger it: other
	// requests are parked on its result.
	refreshCtx := context.WithoutCancel(ctx)

	token, err := g.refresh(refreshCtx)
	if err != nil {
		if errors.Is(err, ErrNoRefreshToken) {
			err = fmt.Errorf("%w: %w: %w", ErrSessionExpired, err, cause)
		} else {
			err = fmt.Errorf("%w: %w", ErrSessionExpired, err)
		}
		log.Printf("[Gateway] Token refresh failed, ending session: %v", err)

		if clearErr := g.tokens.Clear(refreshCtx); clearErr != nil {
			log.Printf("[Gateway] Failed to clear credentials: %v", clearErr)
		}
		g.settle(refreshResult{err: err})
		g.metrics.Logout()
		if g.onLogout != nil {
			g.onLogout(refreshCtx)
		}
		return "", err
	}

	g.settle(refreshResult{token: token})
	return token, nil
}

// settle releases every parked request, in the order they were parked, and
// ends the refresh cycle in the same critical section so no request can be
// parked behind a refresh that already finished.
func (g *Gateway) settle(res refreshResult) {
	g.mu.Lock()
	waiters := g.queue
	g.queue = nil
	g.refreshing = false
	g.cycles++
	g.last = res
	g.mu.Unlock()

	for _, ch := range waiters {
		ch <- res
	}
}

func (g *Gateway) refresh(ctx context.Context) (string, error) {
	refreshToken, err := g.tokens.RefreshToken(ctx)
	if err != nil {
		g.metrics.Refresh("error")
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refreshToken == "" {
		g.metrics.Refresh("missing")
		return "", ErrNoRefreshToken
	}

	body, err := json.Marshal(domain.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+g.refreshPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build refresh request: %w", err)
	}
	g.setHeaders(httpReq, "")

	resp, err := g.execute(g.refreshClient, httpReq, http.MethodPost, g.refreshPath)
	if err != nil {
		g.metrics.Refresh("failure")
		return "", err
	}

	var tokens domain.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		g.metrics.Refresh("failure")
		return "", err
	}
	if tokens.AccessToken == "" {
		g.metrics.Refresh("failure")
		return "", fmt.Errorf("refresh response carried no access token")
	}

	if err := g.tokens.SetAccessToken(ctx, tokens.AccessToken); err != nil {
		g.metrics.Refresh("error")
		return "", err
	}

	g.metrics.Refresh("success")
	log.Printf("[Gateway] Access token refreshed")
	return tokens.AccessToken, nil
}

func (g *Gateway) send(ctx context.Context, req *Request, token string) (*Response, error) {
	target := g.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s: %w", req.Method, req.Path, err)
	}
	g.setHeaders(httpReq, token)

	return g.execute(g.client, httpReq, req.Method, req.Path)
}

func (g *Gateway) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if g.deviceID != "" {
		req.Header.Set(DeviceHeader, g.deviceID)
	}
}

func (g *Gateway) execute(client *http.Client, req *http.Request, method, path string) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: failed to read response: %w", method, path, err)
	}

	var env response.Envelope
	var decodeErr error
	if len(bytes.TrimSpace(raw)) > 0 {
		decodeErr = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Method: method, Path: path}
		if decodeErr == nil {
			apiErr.Message = env.ErrorMessage()
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%s %s: failed to decode response: %w", method, path, decodeErr)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Message:    env.Message,
		Data:       env.Data,
	}, nil
}

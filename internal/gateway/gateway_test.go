package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"storefront-client/internal/domain"
	"storefront-client/internal/metrics"
	"storefront-client/internal/storage"
)

// fakeAPI accepts exactly one bearer token at a time and rotates it on refresh.
type fakeAPI struct {
	mu            sync.Mutex
	validToken    string
	refreshToken  string
	nextToken     string
	refreshStatus int
	refreshGate   chan struct{}
	alwaysDenied  map[string]int

	refreshCalls  int
	authFailures  int
	successTokens []string
	deviceIDs     []string
	onAuthFailure func(count int)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		validToken:   "access-1",
		refreshToken: "refresh-1",
		nextToken:    "access-2",
		alwaysDenied: map[string]int{},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api"+DefaultRefreshPath {
		f.serveRefresh(w, r)
		return
	}

	f.mu.Lock()
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	f.deviceIDs = append(f.deviceIDs, r.Header.Get(DeviceHeader))

	if status, denied := f.alwaysDenied[r.URL.Path]; denied {
		f.mu.Unlock()
		writeEnvelope(w, status, "Access denied", nil)
		return
	}

	if token == "" || token != f.validToken {
		f.authFailures++
		count := f.authFailures
		hook := f.onAuthFailure
		f.mu.Unlock()

		if hook != nil {
			hook(count)
		}
		writeEnvelope(w, http.StatusUnauthorized, "Invalid or expired token", nil)
		return
	}

	f.successTokens = append(f.successTokens, token)
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/cart/add":
		writeEnvelope(w, http.StatusBadRequest, "Insufficient stock", nil)
	default:
		writeEnvelope(w, http.StatusOK, "ok", map[string]string{"path": r.URL.Path})
	}
}

func (f *fakeAPI) serveRefresh(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.refreshCalls++
	gate := f.refreshGate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-time.After(5 * time.Second):
		}
	}

	var req domain.RefreshTokenRequest
	json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.refreshStatus != 0 {
		writeEnvelope(w, f.refreshStatus, "Refresh token revoked", nil)
		return
	}
	if req.RefreshToken != f.refreshToken {
		writeEnvelope(w, http.StatusUnauthorized, "Invalid refresh token", nil)
		return
	}

	f.validToken = f.nextToken
	writeEnvelope(w, http.StatusOK, "refreshed", domain.TokenResponse{AccessToken: f.nextToken})
}

func (f *fakeAPI) counts() (refreshes, failures int, tokens []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls, f.authFailures, append([]string(nil), f.successTokens...)
}

func writeEnvelope(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status < 400,
		"message": message,
		"data":    data,
	})
}

// pathRecorder wraps a transport and records every path it carries.
type pathRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (p *pathRecorder) RoundTrip(r *http.Request) (*http.Response, error) {
	p.mu.Lock()
	p.paths = append(p.paths, r.URL.Path)
	p.mu.Unlock()
	return http.DefaultTransport.RoundTrip(r)
}

type harness struct {
	api     *fakeAPI
	server  *httptest.Server
	tokens  *storage.TokenManager
	gw      *Gateway
	logouts atomic.Int32
	metrics *metrics.Recorder
	main    *pathRecorder
}

func newHarness(t *testing.T, creds domain.Credentials) *harness {
	t.Helper()

	h := &harness{
		api:     newFakeAPI(),
		tokens:  storage.NewTokenManager(storage.NewMemory()),
		metrics: metrics.New(prometheus.NewRegistry()),
		main:    &pathRecorder{},
	}
	h.server = httptest.NewServer(h.api)
	t.Cleanup(h.server.Close)

	if err := h.tokens.SetTokens(context.Background(), creds); err != nil {
		t.Fatalf("SetTokens() error = %v", err)
	}

	h.gw = New(Options{
		BaseURL:    h.server.URL + "/api",
		Tokens:     h.tokens,
		HTTPClient: &http.Client{Timeout: 5 * time.Second, Transport: h.main},
		DeviceID:   "device-test",
		OnLogout: func(ctx context.Context) {
			h.logouts.Add(1)
		},
		Metrics: h.metrics,
	})

	return h
}

func TestGateway_AttachesBearerAndPassesThrough(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	resp, err := h.gw.Get(context.Background(), "/cart")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var data map[string]string
	if err := resp.Decode(&data); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if data["path"] != "/api/cart" {
		t.Errorf("data.path = %q, want /api/cart", data["path"])
	}
	if resp.Message != "ok" {
		t.Errorf("Message = %q, want ok", resp.Message)
	}

	refreshes, failures, tokens := h.api.counts()
	if refreshes != 0 || failures != 0 {
		t.Errorf("refreshes = %d, failures = %d; want 0, 0", refreshes, failures)
	}
	if len(tokens) != 1 || tokens[0] != "access-1" {
		t.Errorf("tokens seen = %v, want [access-1]", tokens)
	}
	if h.api.deviceIDs[0] != "device-test" {
		t.Errorf("device header = %q, want device-test", h.api.deviceIDs[0])
	}
}

func TestGateway_NonAuthErrorsAreUntouched(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})

	_, err := h.gw.Post(context.Background(), "/cart/add", domain.AddToCartRequest{ProductID: "p-1", Quantity: 1})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Post() error = %v, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", apiErr.StatusCode)
	}
	if got := Message(err, "fallback"); got != "Insufficient stock" {
		t.Errorf("Message() = %q, want server text", got)
	}

	refreshes, _, _ := h.api.counts()
	if refreshes != 0 {
		t.Errorf("refreshes = %d, want 0", refreshes)
	}
}

func TestGateway_RefreshesAndRetries(t *testing.T) {
	tests := []struct {
		name   string
		denial int
	}{
		{name: "unauthorized", denial: http.StatusUnauthorized},
		{name: "forbidden", denial: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, domain.Credentials{AccessToken: "stale", RefreshToken: "refresh-1"})
			h.api.validToken = "access-1"

			if tt.denial == http.StatusForbidden {
				h.api.alwaysDenied["/api/orders/me"] = http.StatusForbidden
			}

			path := "/cart"
			if tt.denial == http.StatusForbidden {
				path = "/orders/me"
			}

			_, err := h.gw.Get(context.Background(), path)
			if tt.denial == http.StatusForbidden {
				if StatusCode(err) != http.StatusForbidden {
					t.Fatalf("Get() error = %v, want 403 after one retry", err)
				}
			} else if err != nil {
				t.Fatalf("Get() error = %v", err)
			}

			refreshes, _, _ := h.api.counts()
			if refreshes != 1 {
				t.Errorf("refreshes = %d, want 1", refreshes)
			}

			stored, _ := h.tokens.AccessToken(context.Background())
			if stored != "access-2" {
				t.Errorf("stored access token = %q, want access-2", stored)
			}
			if h.logouts.Load() != 0 {
				t.Errorf("logouts = %d, want 0", h.logouts.Load())
			}
		})
	}
}

func TestGateway_ConcurrentFailuresShareOneRefresh(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "stale", RefreshToken: "refresh-1"})

	const callers = 3
	gate := make(chan struct{})
	h.api.refreshGate = gate
	h.api.onAuthFailure = func(count int) {
		if count == callers {
			close(gate)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.gw.Get(context.Background(), "/cart")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("caller %d error = %v", i, err)
		}
	}

	refreshes, failures, tokens := h.api.counts()
	if refreshes != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", refreshes)
	}
	if failures != callers {
		t.Errorf("auth failures = %d, want %d", failures, callers)
	}
	if len(tokens) != callers {
		t.Fatalf("successful retries = %d, want %d", len(tokens), callers)
	}
	for _, tok := range tokens {
		if tok != "access-2" {
			t.Errorf("retry used token %q, want access-2", tok)
		}
	}

	if got := testutil.ToFloat64(h.metrics.QueuedRetries); got > callers-1 {
		t.Errorf("queued = %v, want at most %d", got, callers-1)
	}
	if h.gw.Refreshing() || h.gw.Queued() != 0 {
		t.Error("gateway still refreshing or holding queued requests")
	}
}

func TestGateway_RefreshFailureEndsSessionOnce(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "stale", RefreshToken: "refresh-1"})

	const callers = 3
	gate := make(chan struct{})
	h.api.refreshGate = gate
	h.api.refreshStatus = http.StatusUnauthorized
	h.api.onAuthFailure = func(count int) {
		if count == callers {
			close(gate)
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.gw.Get(context.Background(), "/cart")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if !errors.Is(err, ErrSessionExpired) {
			t.Errorf("caller %d error = %v, want ErrSessionExpired", i, err)
		}
	}

	if got := h.logouts.Load(); got != 1 {
		t.Errorf("logouts = %d, want exactly 1", got)
	}

	refreshes, _, _ := h.api.counts()
	if refreshes != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshes)
	}

	creds, _ := h.tokens.Credentials(context.Background())
	if creds.AccessToken != "" || creds.RefreshToken != "" {
		t.Errorf("credentials not cleared: %+v", creds)
	}
	if got := testutil.ToFloat64(h.metrics.Logouts); got != 1 {
		t.Errorf("logout metric = %v, want 1", got)
	}
}

func TestGateway_MissingRefreshTokenLogsOut(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "stale"})

	_, err := h.gw.Get(context.Background(), "/cart")

	if !errors.Is(err, ErrSessionExpired) {
		t.Errorf("error = %v, want ErrSessionExpired", err)
	}
	if !errors.Is(err, ErrNoRefreshToken) {
		t.Errorf("error = %v, want ErrNoRefreshToken", err)
	}
	if StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("StatusCode() = %d, want the original 401", StatusCode(err))
	}

	refreshes, _, _ := h.api.counts()
	if refreshes != 0 {
		t.Errorf("refresh calls = %d, want 0", refreshes)
	}
	if h.logouts.Load() != 1 {
		t.Errorf("logouts = %d, want 1", h.logouts.Load())
	}
	if h.tokens.IsAuthenticated(context.Background()) {
		t.Error("still authenticated after forced logout")
	}
	if h.gw.Refreshing() {
		t.Error("refreshing flag left set")
	}
}

func TestGateway_NeverRetriesTwice(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "stale", RefreshToken: "refresh-1"})
	h.api.alwaysDenied["/api/auth/me"] = http.StatusUnauthorized

	_, err := h.gw.Get(context.Background(), "/auth/me")

	if StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("error = %v, want terminal 401", err)
	}
	if errors.Is(err, ErrSessionExpired) {
		t.Error("second denial should not end the session")
	}

	refreshes, _, _ := h.api.counts()
	if refreshes != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshes)
	}

	attempts := 0
	for _, p := range h.main.paths {
		if p == "/api/auth/me" {
			attempts++
		}
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2 (original + one retry)", attempts)
	}
}

func TestGateway_RefreshBypassesMainClient(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "stale", RefreshToken: "refresh-1"})

	if _, err := h.gw.Get(context.Background(), "/cart"); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	for _, p := range h.main.paths {
		if strings.HasSuffix(p, DefaultRefreshPath) {
			t.Errorf("refresh call went through the main client: %s", p)
		}
	}
}

func TestGateway_RequestWithoutTokenOmitsHeader(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, "", []string{"SAVE10"})
	}))
	defer server.Close()

	gw := New(Options{BaseURL: server.URL, Tokens: storage.NewTokenManager(storage.NewMemory())})

	resp, err := gw.Get(context.Background(), "/coupons/available")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "" {
		t.Errorf("Authorization = %q, want empty", got)
	}

	var codes []string
	resp.Decode(&codes)
	if len(codes) != 1 || codes[0] != "SAVE10" {
		t.Errorf("codes = %v", codes)
	}
}

func TestMessageFallback(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "api error with message", err: &APIError{StatusCode: 400, Message: "Coupon expired"}, want: "Coupon expired"},
		{name: "api error without message", err: &APIError{StatusCode: 500}, want: "fallback"},
		{name: "transport error", err: errors.New("connection refused"), want: "fallback"},
		{name: "nil", err: nil, want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err, "fallback"); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGateway_RequestWithoutSessionDoesNotLogOut(t *testing.T) {
	tests := []struct {
		name  string
		creds domain.Credentials
	}{
		{name: "never logged in", creds: domain.Credentials{}},
		{name: "refresh token without access token", creds: domain.Credentials{RefreshToken: "refresh-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, tt.creds)

			_, err := h.gw.Get(context.Background(), "/cart")

			if !errors.Is(err, ErrSessionExpired) {
				t.Errorf("error = %v, want ErrSessionExpired", err)
			}
			if StatusCode(err) != http.StatusUnauthorized {
				t.Errorf("StatusCode() = %d, want 401", StatusCode(err))
			}
			if refreshes, _, _ := h.api.counts(); refreshes != 0 {
				t.Errorf("refresh calls = %d, want 0", refreshes)
			}
			if got := h.logouts.Load(); got != 0 {
				t.Errorf("logouts = %d, want 0", got)
			}
			if got := testutil.ToFloat64(h.metrics.Logouts); got != 0 {
				t.Errorf("logout metric = %v, want 0", got)
			}
		})
	}
}

func TestGateway_RequestAfterLogoutDoesNotLogOutAgain(t *testing.T) {
	h := newHarness(t, domain.Credentials{AccessToken: "access-1", RefreshToken: "refresh-1"})
	ctx := context.Background()

	if err := h.tokens.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}

	if _, err := h.gw.Get(ctx, "/cart"); !errors.Is(err, ErrSessionExpired) {
		t.Errorf("error = %v, want ErrSessionExpired", err)
	}
	if got := h.logouts.Load(); got != 0 {
		t.Errorf("logouts = %d, want 0", got)
	}
}

// gatedTokens blocks the nth access-token read until released.
type gatedTokens struct {
	*storage.TokenManager
	blockOn int32
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTokens) AccessToken(ctx context.Context) (string, error) {
	if g.calls.Add(1) == g.blockOn {
		close(g.entered)
		<-g.release
	}
	return g.TokenManager.AccessToken(ctx)
}

func TestGateway_TokenReadDoesNotHoldLock(t *testing.T) {
	api := newFakeAPI()
	server := httptest.NewServer(api)
	defer server.Close()

	tm := storage.NewTokenManager(storage.NewMemory())
	tm.SetTokens(context.Background(), domain.Credentials{AccessToken: "stale", RefreshToken: "refresh-1"})
	tokens := &gatedTokens{
		TokenManager: tm,
		blockOn:      2,
		entered:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	gw := New(Options{BaseURL: server.URL + "/api", Tokens: tokens})

	result := make(chan error, 1)
	go func() {
		_, err := gw.Get(context.Background(), "/cart")
		result <- err
	}()

	select {
	case <-tokens.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("retry path never re-read the access token")
	}

	inspected := make(chan struct{})
	go func() {
		gw.Refreshing()
		gw.Queued()
		close(inspected)
	}()

	select {
	case <-inspected:
	case <-time.After(time.Second):
		t.Error("gateway state blocked while the token store was being read")
	}

	close(tokens.release)
	if err := <-result; err != nil {
		t.Errorf("Get() error = %v", err)
	}
	if refreshes, _, _ := api.counts(); refreshes != 1 {
		t.Errorf("refresh calls = %d, want 1", refreshes)
	}
}

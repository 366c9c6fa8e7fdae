package websocket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// CartFetcher is the reconciliation a push triggers.
type CartFetcher interface {
	FetchCart(ctx context.Context) error
}

type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

type ListenerOptions struct {
	URL            string
	DeviceID       string
	Tokens         TokenSource
	Cart           CartFetcher
	ReconnectDelay time.Duration
	Dialer         *websocket.Dialer
}

// Listener keeps one push connection open for the current session.
type Listener struct {
	url            string
	deviceID       string
	tokens         TokenSource
	cart           CartFetcher
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
}

var errNoSession = errors.New("no access token")

func NewListener(opts ListenerOptions) *Listener {
	dialer := opts.Dialer
	if dialer == nil {
		dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = 3 * time.Second
	}

	return &Listener{
		url:            opts.URL,
		deviceID:       opts.DeviceID,
		tokens:         opts.Tokens,
		cart:           opts.Cart,
		reconnectDelay: delay,
		dialer:         dialer,
	}
}

// URLFromAPI derives the push endpoint from the REST base URL:
// http://host/api/v1 becomes ws://host/api/v1/ws.
func URLFromAPI(apiBase string) (string, error) {
	u, err := url.Parse(apiBase)
	if err != nil {
		return "", fmt.Errorf("failed to parse api url: %w", err)
	}

	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported api url scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws"
	return u.String(), nil
}

// Run reconnects until ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil && !errors.Is(err, errNoSession) {
			log.Printf("[WebSocket] Listener disconnected: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(l.reconnectDelay):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	token, err := l.tokens.AccessToken(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return errNoSession
	}

	target, err := url.Parse(l.url)
	if err != nil {
		return fmt.Errorf("failed to parse push url: %w", err)
	}
	q := target.Query()
	q.Set("token", token)
	if l.deviceID != "" {
		q.Set("device_id", l.deviceID)
	}
	target.RawQuery = q.Encode()

	conn, resp, err := l.dialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			// A REST call through the gateway refreshes the token.
			if fetchErr := l.cart.FetchCart(ctx); fetchErr != nil {
				return fmt.Errorf("push handshake rejected, refresh failed: %w", fetchErr)
			}
		}
		return fmt.Errorf("failed to dial push endpoint: %w", err)
	}
	defer conn.Close()

	log.Printf("[WebSocket] Listening for cart updates")

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		if msg.Type != TypeCartUpdated {
			continue
		}

		var payload CartUpdatedPayload
		if err := msg.UnmarshalPayload(&payload); err != nil {
			log.Printf("[WebSocket] Bad cart_updated payload: %v", err)
		}
		log.Printf("[WebSocket] Cart updated elsewhere (%s), reconciling", payload.Reason)

		if err := l.cart.FetchCart(ctx); err != nil {
			log.Printf("[WebSocket] Reconcile after push failed: %v", err)
		}
	}
}

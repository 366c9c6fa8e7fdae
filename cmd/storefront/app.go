package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	_ "github.com/go-kivik/kivik/v4/couchdb"

	"github.com/go-kivik/kivik/v4"
	"github.com/prometheus/client_golang/prometheus"

	"storefront-client/internal/api"
	"storefront-client/internal/cart"
	"storefront-client/internal/chat"
	"storefront-client/internal/checkout"
	"storefront-client/internal/config"
	"storefront-client/internal/coupon"
	"storefront-client/internal/gateway"
	"storefront-client/internal/metrics"
	"storefront-client/internal/session"
	"storefront-client/internal/storage"
)

type appOptions struct {
	apiURL  string
	store   string
	verbose bool
}

// app is one wired client core.
type app struct {
	cfg      *config.Config
	kv       storage.KV
	tokens   *storage.TokenManager
	deviceID string
	registry *prometheus.Registry
	gateway  *gateway.Gateway
	session  *session.Session
	cart     *cart.Reconciler
	coupons  *coupon.Service
	chat     *chat.Service
	products api.ProductAPI
	checkout *checkout.Service
}

func newApp(ctx context.Context, opts *appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if opts.apiURL != "" {
		cfg.Client.APIBaseURL = opts.apiURL
	}
	if opts.store != "" {
		cfg.Client.StoreDriver = opts.store
	}

	if !opts.verbose && cfg.Logging.Level != "debug" {
		log.SetOutput(io.Discard)
	}

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	deviceID := cfg.Client.DeviceID
	if deviceID == "" {
		deviceID, err = storage.DeviceID(ctx, kv)
		if err != nil {
			return nil, err
		}
	}

	a := &app{
		cfg:      cfg,
		kv:       kv,
		tokens:   storage.NewTokenManager(kv),
		deviceID: deviceID,
		registry: prometheus.NewRegistry(),
	}
	recorder := metrics.New(a.registry)

	a.gateway = gateway.New(gateway.Options{
		BaseURL:    cfg.Client.APIBaseURL,
		Tokens:     a.tokens,
		HTTPClient: &http.Client{Timeout: cfg.Client.HTTPTimeout},
		DeviceID:   deviceID,
		Metrics:    recorder,
		OnLogout: func(ctx context.Context) {
			a.session.HandleSessionExpired(ctx)
		},
	})

	a.session = session.New(api.NewAuthAPI(a.gateway), a.tokens)
	a.cart = cart.New(cart.Options{
		API:      api.NewCartAPI(a.gateway),
		Notifier: cart.LogNotifier{},
		Metrics:  recorder,
	})
	a.session.OnChange(a.cart.HandleAuthChange)
	a.coupons = coupon.NewService(api.NewCouponAPI(a.gateway))
	a.chat = chat.NewService(api.NewChatAPI(a.gateway), kv)
	a.products = api.NewProductAPI(a.gateway)
	a.checkout = checkout.NewService(checkout.Options{
		Orders:    api.NewOrderAPI(a.gateway),
		Addresses: api.NewAddressAPI(a.gateway),
		Cart:      a.cart,
		Metrics:   recorder,
	})

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config) (storage.KV, error) {
	if cfg.Client.StoreDriver == "memory" {
		return storage.NewMemory(), nil
	}

	client, err := kivik.New("couch", cfg.Database.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to CouchDB: %w", err)
	}

	couch := storage.NewCouch(client, cfg.Database.Name)
	if err := couch.EnsureDB(ctx); err != nil {
		return nil, err
	}
	return couch, nil
}

// restore announces the persisted session, which loads the cart for a
// signed-in user.
func (a *app) restore(ctx context.Context) error {
	if !a.session.Restore(ctx) {
		return session.ErrNotAuthenticated
	}
	return nil
}

func withApp(opts *appOptions, requireSession bool, fn func(ctx context.Context, a *app) error) error {
	ctx := context.Background()
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	if requireSession {
		if err := a.restore(ctx); err != nil {
			return fmt.Errorf("%w: run %s login first", err, appName)
		}
	}
	return fn(ctx, a)
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stdout, format, args...)
}

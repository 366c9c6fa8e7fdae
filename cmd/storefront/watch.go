package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"storefront-client/internal/cart"
	"storefront-client/internal/websocket"
)

// printingCart reprints the cart after every push-triggered reconcile.
type printingCart struct {
	cart *cart.Reconciler
}

func (p printingCart) FetchCart(ctx context.Context) error {
	err := p.cart.FetchCart(ctx)
	printf("%s\n", cartSummary(p.cart.Snapshot()))
	return err
}

func watchCmd(opts *appOptions) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow cart changes made from other devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, true, func(ctx context.Context, a *app) error {
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
				defer stop()

				wsURL, err := websocket.URLFromAPI(a.cfg.Client.APIBaseURL)
				if err != nil {
					return err
				}

				if metricsAddr != "" {
					srv := &http.Server{Addr: metricsAddr, Handler: promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})}
					go func() {
						if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
							log.Printf("[Metrics] Server failed: %v", err)
						}
					}()
					defer srv.Close()
				}

				// The listener has nothing to authenticate with once the
				// session ends.
				a.session.OnChange(func(ctx context.Context, authenticated bool) {
					if !authenticated {
						printf("Session ended\n")
						stop()
					}
				})

				printf("%s\n", cartSummary(a.cart.Snapshot()))
				printf("Watching for cart changes, press Ctrl+C to stop\n")

				listener := websocket.NewListener(websocket.ListenerOptions{
					URL:            wsURL,
					DeviceID:       a.deviceID,
					Tokens:         a.tokens,
					Cart:           printingCart{cart: a.cart},
					ReconnectDelay: a.cfg.WebSocket.ReconnectDelay,
				})
				if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve client metrics on this address, e.g. :9102")
	return cmd
}

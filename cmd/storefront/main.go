// Package main is the storefront command line client. Every command runs
// against the same client core: the token refresh gateway, the session and
// the cart reconciler.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "storefront"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts appOptions

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Storefront shopping client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.apiURL, "api", "", "API base URL (overrides API_BASE_URL)")
	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "Credential store: couch or memory (overrides STORE_DRIVER)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print client logs to stderr")

	cmd.AddCommand(
		loginCmd(&opts),
		registerCmd(&opts),
		logoutCmd(&opts),
		meCmd(&opts),
		cartCmd(&opts),
		couponCmd(&opts),
		chatCmd(&opts),
		productsCmd(&opts),
		checkoutCmd(&opts),
		ordersCmd(&opts),
		addressCmd(&opts),
		watchCmd(&opts),
	)

	return cmd
}

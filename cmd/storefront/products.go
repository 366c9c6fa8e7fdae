package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"storefront-client/internal/api"
)

func productsCmd(opts *appOptions) *cobra.Command {
	var page, limit int

	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and search the catalog",
	}
	cmd.PersistentFlags().IntVar(&page, "page", 1, "Page number")
	cmd.PersistentFlags().IntVar(&limit, "limit", 10, "Products per page")

	list := func(query string) error {
		return withApp(opts, false, func(ctx context.Context, a *app) error {
			result, err := a.products.List(ctx, api.ProductQuery{Query: query, Page: page, Limit: limit})
			if err != nil {
				return err
			}
			printf("%s", formatProducts(result))
			return nil
		})
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the catalog",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return list("")
			},
		},
		&cobra.Command{
			Use:   "search <terms...>",
			Short: "List products matching any of the terms",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return list(strings.Join(args, " "))
			},
		},
		&cobra.Command{
			Use:   "show <product-id>",
			Short: "Print one product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, false, func(ctx context.Context, a *app) error {
					product, err := a.products.Get(ctx, args[0])
					if err != nil {
						return err
					}
					printf("%s", formatProduct(product))
					return nil
				})
			},
		},
	)

	return cmd
}

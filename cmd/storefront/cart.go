package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"storefront-client/internal/cart"
	"storefront-client/internal/domain"
)

func cartCmd(opts *appOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Inspect and change the cart",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					printf("%s", formatCart(a.cart.Snapshot()))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product, merging into an existing line",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				quantity := 1
				if len(args) == 2 {
					q, err := parseQuantity(args[1])
					if err != nil {
						return err
					}
					quantity = q
				}
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					outcome, err := a.cart.AddToCart(ctx, domain.AddToCartRequest{ProductID: args[0], Quantity: quantity})
					if err != nil {
						return err
					}
					printf("%s %s\n", outcome, args[0])
					printf("%s", formatCart(a.cart.Snapshot()))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "update <item-id> <quantity>",
			Short: "Set the quantity of a cart line",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				quantity, err := parseQuantity(args[1])
				if err != nil {
					return err
				}
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					if err := a.cart.UpdateItem(ctx, domain.UpdateCartItemRequest{ItemID: args[0], Quantity: quantity}); err != nil {
						return err
					}
					printf("%s", formatCart(a.cart.Snapshot()))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <item-id>",
			Short: "Remove a cart line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					if err := a.cart.RemoveItem(ctx, args[0]); err != nil {
						return err
					}
					printf("%s", formatCart(a.cart.Snapshot()))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					if err := a.cart.ClearCart(ctx); err != nil {
						return err
					}
					printf("Cart cleared\n")
					return nil
				})
			},
		},
	)

	return cmd
}

func parseQuantity(s string) (int, error) {
	q, err := strconv.Atoi(s)
	if err != nil || q < 1 {
		return 0, fmt.Errorf("%w: %q", cart.ErrInvalidRequest, s)
	}
	return q, nil
}

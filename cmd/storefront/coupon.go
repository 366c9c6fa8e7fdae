package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"storefront-client/internal/coupon"
)

func couponCmd(opts *appOptions) *cobra.Command {
	var usableOnly bool

	cmd := &cobra.Command{
		Use:   "coupon",
		Short: "List, check and apply coupons",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List coupons for the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, true, func(ctx context.Context, a *app) error {
				coupons, err := a.coupons.Available(ctx)
				if err != nil {
					return err
				}
				if usableOnly {
					coupons = coupon.Usable(coupons)
				}
				printf("%s", formatCoupons(coupons))
				return nil
			})
		},
	}
	list.Flags().BoolVar(&usableOnly, "usable", false, "Only coupons the cart qualifies for")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "validate <code>",
			Short: "Check a code without applying it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					result := a.coupons.Validate(ctx, args[0])
					if !result.Valid {
						return errors.New(result.Message)
					}
					printf("%s\n", result.Message)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "apply <code>",
			Short: "Apply a code, replacing any applied coupon",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					if err := a.cart.ApplyCoupon(ctx, args[0]); err != nil {
						return err
					}
					printf("%s", formatCart(a.cart.Snapshot()))
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove",
			Short: "Remove the applied coupon",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					if err := a.cart.RemoveCoupon(ctx); err != nil {
						return err
					}
					printf("%s", formatCart(a.cart.Snapshot()))
					return nil
				})
			},
		},
	)

	return cmd
}

package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"storefront-client/internal/api"
	"storefront-client/internal/checkout"
	"storefront-client/internal/domain"
)

func checkoutCmd(opts *appOptions) *cobra.Command {
	var (
		req     checkout.Request
		payment string
	)

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Order the cart, or the lines given with --item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PaymentMethod = domain.PaymentMethod(strings.ToUpper(payment))
			return withApp(opts, true, func(ctx context.Context, a *app) error {
				order, err := a.checkout.Checkout(ctx, req)
				if err != nil {
					return err
				}
				printf("%s", formatOrder(order))
				printf("%s\n", cartSummary(a.cart.Snapshot()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.AddressID, "address", "", "Shipping address id (default address when empty)")
	cmd.Flags().StringSliceVar(&req.ItemIDs, "item", nil, "Cart line or product id to order (repeatable, default all)")
	cmd.Flags().StringVar(&payment, "payment", string(domain.PaymentCOD), "Payment method: COD, MOMO or VNPAY")
	cmd.Flags().StringVar(&req.Notes, "notes", "", "Delivery notes")

	return cmd
}

func ordersCmd(opts *appOptions) *cobra.Command {
	var q api.OrderQuery

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List your orders, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, true, func(ctx context.Context, a *app) error {
				page, err := a.checkout.Orders(ctx, q)
				if err != nil {
					return err
				}
				printf("%s", formatOrders(page))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&q.Page, "page", 1, "Page number")
	cmd.Flags().IntVar(&q.Limit, "limit", 10, "Orders per page")
	cmd.Flags().StringVar(&q.Status, "status", "", "Only orders in this status (pending, confirmed, shipping, delivered, cancelled)")

	return cmd
}

func addressCmd(opts *appOptions) *cobra.Command {
	var req domain.CreateAddressRequest

	cmd := &cobra.Command{
		Use:     "address",
		Aliases: []string{"addresses"},
		Short:   "List and add shipping addresses",
	}

	add := &cobra.Command{
		Use:   "add",
		Short: "Save a shipping address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, true, func(ctx context.Context, a *app) error {
				address, err := a.checkout.AddAddress(ctx, req)
				if err != nil {
					return err
				}
				printf("%s", formatAddresses([]domain.Address{*address}))
				return nil
			})
		},
	}
	add.Flags().StringVar(&req.FullName, "name", "", "Recipient name")
	add.Flags().StringVar(&req.Phone, "phone", "", "Recipient phone")
	add.Flags().StringVar(&req.Address, "street", "", "Street address")
	add.Flags().StringVar(&req.Ward, "ward", "", "Ward")
	add.Flags().StringVar(&req.District, "district", "", "District")
	add.Flags().StringVar(&req.Province, "province", "", "Province or city")
	add.Flags().BoolVar(&req.IsDefault, "default", false, "Make this the default address")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List saved addresses, default first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(opts, true, func(ctx context.Context, a *app) error {
					list, err := a.checkout.Addresses(ctx)
					if err != nil {
						return err
					}
					printf("%s", formatAddresses(list))
					return nil
				})
			},
		},
		add,
	)

	return cmd
}

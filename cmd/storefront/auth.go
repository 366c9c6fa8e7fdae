package main

import (
	"context"

	"github.com/spf13/cobra"

	"storefront-client/internal/domain"
)

func loginCmd(opts *appOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the credential pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, false, func(ctx context.Context, a *app) error {
				user, err := a.session.Login(ctx, email, password)
				if err != nil {
					return err
				}
				printf("Logged in as %s (%s)\n", user.FullName, user.Email)
				printf("%s\n", cartSummary(a.cart.Snapshot()))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func registerCmd(opts *appOptions) *cobra.Command {
	var req domain.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, false, func(ctx context.Context, a *app) error {
				user, err := a.session.Register(ctx, req)
				if err != nil {
					return err
				}
				printf("Registered %s. Run %s login to sign in.\n", user.Email, appName)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.FullName, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Account password")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func logoutCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, false, func(ctx context.Context, a *app) error {
				if err := a.session.Logout(ctx); err != nil {
					return err
				}
				printf("Logged out\n")
				return nil
			})
		},
	}
}

func meCmd(opts *appOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, false, func(ctx context.Context, a *app) error {
				user, err := a.session.Me(ctx)
				if err != nil {
					return err
				}
				printf("%s <%s>\n", user.FullName, user.Email)
				printf("id:     %s\n", user.ID)
				printf("role:   %s\n", user.Role)
				printf("device: %s\n", a.deviceID)
				return nil
			})
		},
	}
}

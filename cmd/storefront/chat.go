package main

import (
	"bufio"
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"storefront-client/internal/chat"
)

func chatCmd(opts *appOptions) *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "chat [message...]",
		Short: "Ask the shop assistant; with no message, chat interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts, false, func(ctx context.Context, a *app) error {
				if reset {
					if err := a.chat.Reset(ctx); err != nil {
						return err
					}
				}

				if len(args) > 0 {
					return sendChat(ctx, a.chat, strings.Join(args, " "))
				}

				printf("%s\n", chat.Welcome)
				scanner := bufio.NewScanner(os.Stdin)
				for printf("> "); scanner.Scan(); printf("> ") {
					text := strings.TrimSpace(scanner.Text())
					if text == "" {
						continue
					}
					if text == "/quit" {
						return nil
					}
					if err := sendChat(ctx, a.chat, text); err != nil {
						printf("%s\n", chat.FallbackReply)
					}
				}
				return scanner.Err()
			})
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Start a new conversation")
	return cmd
}

func sendChat(ctx context.Context, svc *chat.Service, text string) error {
	reply, err := svc.Send(ctx, text)
	if err != nil {
		return err
	}
	printf("%s\n", reply.Reply)
	for _, p := range reply.Products {
		printf("  - %s  %s  (%s)\n", p.Name, money(p.Price), p.ID)
	}
	return nil
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zephy88r/AnoN-sub000/client"
)

func newCardsCmd() *cobra.Command {
	cardsCmd := &cobra.Command{
		Use:   "cards",
		Short: "Link card operations",
	}

	var note string
	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "Issue a one-time link card (at most 3 active)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				card, err := c.GenerateCard(note)
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "%s  expires %s\n", card.Code, card.ExpiresAt.Local().Format("Jan 02 15:04"))
				return nil
			})
		},
	}
	genCmd.Flags().StringVar(&note, "note", "", "Private note attached to the card")
	cardsCmd.AddCommand(genCmd)

	cardsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List issued cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				for _, card := range c.Cards() {
					fmt.Fprintf(os.Stdout, "%s  %s  %-8s  %s\n",
						card.ID, card.Code, card.Status, card.Note)
				}
				return nil
			})
		},
	})

	cardsCmd.AddCommand(&cobra.Command{
		Use:   "revoke CARD_ID",
		Short: "Revoke an active card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				return c.RevokeCard(args[0])
			})
		},
	})

	cardsCmd.AddCommand(&cobra.Command{
		Use:   "redeem CODE",
		Short: "Consume a card code and open its conversation slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				th, err := c.RedeemCard(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "thread %s opened\n", th.ID)
				return nil
			})
		},
	})

	return cardsCmd
}

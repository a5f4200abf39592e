package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newBootstrapCmd() *cobra.Command {
	var reset bool

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Open an anonymous session (device keys are created on first use)",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if reset {
				c.ResetIdentity()
				log.Info().Msg("device identity reset")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			if err := c.InitSession(ctx); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "session ready: %s (%s)\n", c.Username(), c.AnonID())
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "Drop device keys and start a brand new anonymous identity")
	return cmd
}

func newMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current anonymous identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()

			me, err := c.Me(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "%s (%s), session expires %s\n",
				me.Username, me.AnonID, me.ExpiresAt.Local().Format(time.RFC822))
			return nil
		},
	}
}

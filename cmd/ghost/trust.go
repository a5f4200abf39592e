package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zephy88r/AnoN-sub000/client"
)

func newTrustCmd() *cobra.Command {
	trustCmd := &cobra.Command{
		Use:   "trust",
		Short: "Trust handshake operations",
	}

	trustCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List recorded handshakes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				for _, r := range c.TrustRequests() {
					fmt.Fprintf(os.Stdout, "%s  %-8s  %s (%s)  %s\n",
						r.ID, r.Status, r.FromLabel, r.FromUserKey, r.Note)
				}
				return nil
			})
		},
	})

	trustCmd.AddCommand(&cobra.Command{
		Use:   "accept REQUEST_ID",
		Short: "Accept a pending handshake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				return c.AcceptTrust(args[0])
			})
		},
	})

	trustCmd.AddCommand(&cobra.Command{
		Use:   "decline REQUEST_ID",
		Short: "Decline a pending handshake",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				return c.DeclineTrust(args[0])
			})
		},
	})

	trustCmd.AddCommand(&cobra.Command{
		Use:   "request CODE",
		Short: "Open a handshake on the backend by redeeming a link-card code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				return c.PushTrustRequest(ctx, args[0])
			})
		},
	})

	trustCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show backend handshakes in both directions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				st, err := c.RemoteTrustStatus(ctx)
				if err != nil {
					return err
				}
				for _, e := range st.Incoming {
					fmt.Fprintf(os.Stdout, "in   %s  %-8s  from %s\n", e.RequestID, e.Status, e.FromAnon)
				}
				for _, e := range st.Outgoing {
					fmt.Fprintf(os.Stdout, "out  %s  %-8s  to %s\n", e.RequestID, e.Status, e.ToAnon)
				}
				return nil
			})
		},
	})

	return trustCmd
}

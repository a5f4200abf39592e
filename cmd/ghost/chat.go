package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zephy88r/AnoN-sub000/client"
)

func newChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Private chat operations",
	}

	chatCmd.AddCommand(&cobra.Command{
		Use:   "threads",
		Short: "List conversation slots by last activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				for _, th := range c.Threads() {
					last := "never"
					if th.LastMessageAt != nil {
						last = th.LastMessageAt.Local().Format("Jan 02 15:04")
					}
					fmt.Fprintf(os.Stdout, "%s  %-16s  last %s\n", th.ID, th.Label, last)
				}
				return nil
			})
		},
	})

	chatCmd.AddCommand(&cobra.Command{
		Use:   "log THREAD_ID",
		Short: "Print a thread's messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				for _, m := range c.ThreadMessages(args[0]) {
					who := "them"
					if m.FromMe {
						who = "me"
					}
					fmt.Fprintf(os.Stdout, "[%s] %-4s %s\n",
						m.CreatedAt.Local().Format("15:04:05"), who, m.Text)
				}
				return nil
			})
		},
	})

	chatCmd.AddCommand(&cobra.Command{
		Use:   "open PEER_KEY",
		Short: "Open a live chat with a trusted peer (reads lines from stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			closed := make(chan error, 1)
			conn, err := c.OpenChat(cmd.Context(), args[0], client.ChatEvents{
				OnText: func(msg client.ChatTextMessage) {
					fmt.Fprintf(os.Stdout, "[%s] them: %s\n",
						msg.CreatedAt.Local().Format("15:04:05"), msg.Text)
				},
				OnClose: func(err error) { closed <- err },
			})
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			go func() {
				sc := bufio.NewScanner(os.Stdin)
				for sc.Scan() {
					if err := conn.Send(sc.Text()); err != nil {
						return
					}
				}
				_ = conn.Close()
			}()

			select {
			case err := <-closed:
				if err != nil {
					return err
				}
			case <-cmd.Context().Done():
			}
			// Give the close handshake a moment before tearing down.
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	})

	return chatCmd
}

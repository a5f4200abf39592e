package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zephy88r/AnoN-sub000/client"
)

func withClient(cmd *cobra.Command, f func(ctx context.Context, c *client.Client) error) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	defer cancel()
	return f(ctx, c)
}

func newPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "post TEXT",
		Short: "Publish a post to the anonymous feed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				p, err := c.CreatePost(ctx, client.CreatePostRequest{Text: strings.Join(args, " ")})
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "posted %s\n", p.ID)
				return nil
			})
		},
	}
}

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Show the public feed, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				posts, err := c.Feed(ctx)
				if err != nil {
					return err
				}
				printPosts(posts)
				return nil
			})
		},
	}
}

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search posts",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				posts, err := c.SearchPosts(ctx, strings.Join(args, " "))
				if err != nil {
					return err
				}
				printPosts(posts)
				return nil
			})
		},
	}
}

func newCommentCmd() *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "comment POST_ID TEXT",
		Short: "Comment on a post",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				cm, err := c.CreateComment(ctx, args[0], client.CreateCommentRequest{
					Text:     strings.Join(args[1:], " "),
					ParentID: parentID,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(os.Stdout, "comment %s\n", cm.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&parentID, "reply-to", "", "Parent comment id for a threaded reply")
	return cmd
}

func newReactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "react POST_ID EMOJI",
		Short: "Toggle a reaction on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				return c.React(ctx, args[0], args[1])
			})
		},
	}
}

func printPosts(posts []client.Post) {
	for _, p := range posts {
		fmt.Fprintf(os.Stdout, "[%s] %s  %s\n  %s\n",
			p.CreatedAt.Local().Format("Jan 02 15:04"), p.ID, p.AnonID, p.Text)
	}
}

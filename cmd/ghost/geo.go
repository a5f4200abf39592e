package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Zephy88r/AnoN-sub000/client"
)

func parseCoord(s, name string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, s)
	}
	return v, nil
}

func newPulseCmd() *cobra.Command {
	var push bool
	var accuracy float64

	cmd := &cobra.Command{
		Use:   "pulse LAT LON",
		Short: "Record a privacy-transformed position in the local region simulation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lat, err := parseCoord(args[0], "latitude")
			if err != nil {
				return err
			}
			lon, err := parseCoord(args[1], "longitude")
			if err != nil {
				return err
			}
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if !c.Pulse(lat, lon, accuracy) {
					fmt.Fprintln(os.Stdout, "pulse throttled, try again in a few seconds")
					return nil
				}
				fmt.Fprintln(os.Stdout, "pulse recorded")
				if push {
					ack, err := c.PushGeoPing(ctx, lat, lon)
					if err != nil {
						return err
					}
					fmt.Fprintf(os.Stdout, "backend accepted %.3f,%.3f\n", ack.Lat, ack.Lng)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&push, "push", false, "Also report the transformed position to the backend")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "Position fix accuracy in metres, 0 when unknown")
	return cmd
}

func newNearbyCmd() *cobra.Command {
	var km float64
	var remoteLat, remoteLng float64
	var remote bool

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Show fresh pings in the region",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c *client.Client) error {
				if remote {
					pings, err := c.Nearby(ctx, remoteLat, remoteLng, km)
					if err != nil {
						return err
					}
					for _, p := range pings {
						fmt.Fprintf(os.Stdout, "%s  %.3f,%.3f  %s\n",
							p.AnonID, p.Lat, p.Lng, p.TS.Local().Format(time.RFC822))
					}
					return nil
				}
				for _, p := range c.LocalPings() {
					fmt.Fprintf(os.Stdout, "%-16s  %4dm  %-4s  %s\n",
						p.Label, p.DistanceM, p.Signal, p.Hint)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "Query the backend instead of the local simulation")
	cmd.Flags().Float64Var(&remoteLat, "lat", 0, "Latitude for --remote")
	cmd.Flags().Float64Var(&remoteLng, "lng", 0, "Longitude for --remote")
	cmd.Flags().Float64Var(&km, "km", 5, "Radius for --remote")
	return cmd
}

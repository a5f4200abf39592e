package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Zephy88r/AnoN-sub000/client"
	"github.com/Zephy88r/AnoN-sub000/internal/config"
)

var (
	serviceURL string
	region     string
	geoMode    string
	debug      bool
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghost",
		Short: "ghost anonymous social network client",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
			log.Logger = log.Output(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: "2006-01-02 15:04:05",
				NoColor:    true,
			})

			if debug {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
				_ = os.Setenv("GHOST_DEBUG", "true")
				log.Debug().Msg("debug logging enabled")
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "Base URL of the ghost backend (defaults to GHOST_API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&region, "region", "", "Geo-pulse region (defaults to GHOST_REGION)")
	rootCmd.PersistentFlags().StringVar(&geoMode, "geo-mode", "", "Location precision, ghost or reveal (defaults to GHOST_GEO_MODE)")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable verbose debug output")

	rootCmd.AddCommand(newBootstrapCmd())
	rootCmd.AddCommand(newMeCmd())
	rootCmd.AddCommand(newPostCmd())
	rootCmd.AddCommand(newFeedCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newCommentCmd())
	rootCmd.AddCommand(newReactCmd())
	rootCmd.AddCommand(newTrustCmd())
	rootCmd.AddCommand(newCardsCmd())
	rootCmd.AddCommand(newPulseCmd())
	rootCmd.AddCommand(newNearbyCmd())
	rootCmd.AddCommand(newChatCmd())

	return rootCmd
}

// newClient builds an SDK client from environment config with flag overrides.
func newClient() (*client.Client, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	if serviceURL != "" {
		cfg.APIBaseURL = serviceURL
		cfg.WSBaseURL = ""
		if err := cfg.ResolveDefaults(); err != nil {
			return nil, err
		}
	}
	if region != "" {
		cfg.Region = region
	}
	if geoMode != "" {
		cfg.GeoMode = geoMode
		if err := cfg.ResolveDefaults(); err != nil {
			return nil, err
		}
	}
	return client.NewFromConfig(cfg)
}

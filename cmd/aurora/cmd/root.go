package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aurora-store/go-aurora/pkg/auth"
	"github.com/aurora-store/go-aurora/pkg/config"
	"github.com/aurora-store/go-aurora/pkg/credstore"
	"github.com/aurora-store/go-aurora/pkg/device"
	"github.com/aurora-store/go-aurora/pkg/dispenser"
	"github.com/aurora-store/go-aurora/pkg/gplay"
	"github.com/aurora-store/go-aurora/pkg/session"
)

var (
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aurora",
	Short: "Negotiates Play Store sessions without Play Services",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug messages")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func createAuthenticator() (*auth.Authenticator, *config.Settings, error) {
	settings, err := config.LoadSettings()
	if err != nil {
		return nil, nil, err
	}

	store := credstore.NewStore(config.GetConfigDirectoryPath())
	resolver := device.NewResolver(settings)

	authenticator := auth.NewAuthenticator(store, resolver, gplay.NewClient(),
		func(baseURL string) session.Dispenser {
			return dispenser.NewClient(baseURL)
		})
	return authenticator, settings, nil
}

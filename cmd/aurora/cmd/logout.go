package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session and account",
	RunE: func(cmd *cobra.Command, args []string) error {
		authenticator, _, err := createAuthenticator()
		if err != nil {
			return err
		}

		if err := authenticator.Logout(); err != nil {
			return err
		}
		log.Info("Logged out")
		return nil
	},
}

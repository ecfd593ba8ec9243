package cmd

import (
	"errors"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aurora-store/go-aurora/pkg/session"
)

func init() {
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch a fresh auth token for the stored account",
	RunE: func(cmd *cobra.Command, args []string) error {
		authenticator, _, err := createAuthenticator()
		if err != nil {
			return err
		}

		sess, err := authenticator.RefreshToken(cmd.Context())
		if err != nil {
			var empty *session.CredentialsEmptyError
			if errors.As(err, &empty) {
				log.Error("No account on record, run `aurora login` first")
			}
			return err
		}

		log.Infof("Refreshed token for %s", sess.Email)
		return nil
	},
}

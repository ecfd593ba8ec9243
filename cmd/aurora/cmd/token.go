package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the current session tokens, building a session if needed",
	RunE: func(cmd *cobra.Command, args []string) error {
		authenticator, _, err := createAuthenticator()
		if err != nil {
			return err
		}

		sess, err := authenticator.GetAPI(cmd.Context())
		if err != nil {
			return err
		}

		log.Infof("AURORA_GSF_ID=%s", sess.GsfID)
		log.Infof("AURORA_AUTH_TOKEN=%s", sess.AuthToken)
		return nil
	},
}

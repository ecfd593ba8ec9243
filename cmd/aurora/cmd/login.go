package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
)

var (
	email        string
	password     string
	anonymous    bool
	dispenserURL string
)

func init() {
	loginCmd.Flags().StringVar(&email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&password, "password", "", "Account password, prompted if omitted")
	loginCmd.Flags().BoolVar(&anonymous, "anonymous", false,
		"Use a dummy account from a token dispenser instead of personal credentials")
	loginCmd.Flags().StringVar(&dispenserURL, "dispenser", "",
		"Token dispenser mirror for anonymous login")

	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Negotiate and persist a Play Store session",
	RunE: func(cmd *cobra.Command, args []string) error {
		authenticator, settings, err := createAuthenticator()
		if err != nil {
			return err
		}

		if anonymous {
			mirror := dispenserURL
			if mirror == "" {
				mirror = settings.TokenDispenserURL
			}
			if mirror == "" {
				return fmt.Errorf("anonymous login needs a token dispenser, use --dispenser or set AURORA_TOKEN_DISPENSER")
			}

			ok, err := authenticator.LoginAnonymous(cmd.Context(), mirror)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("dispenser %s is out of accounts, try again or pick another mirror", mirror)
			}
			log.Info("Logged in with a dummy account")
			return nil
		}

		if email == "" {
			log.Info("Enter email:")
			if _, err := fmt.Scanln(&email); err != nil {
				return err
			}
		}

		if password == "" {
			log.Info("Enter password:")
			passwd, err := terminal.ReadPassword(int(os.Stdin.Fd()))
			if err != nil {
				return err
			}
			password = string(passwd)
		}

		ok, err := authenticator.Login(cmd.Context(), email, password)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("credentials were declined, check email and password")
		}
		log.Infof("Logged in as %s", email)
		return nil
	},
}

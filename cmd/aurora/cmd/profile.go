package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/aurora-store/go-aurora/pkg/config"
	"github.com/aurora-store/go-aurora/pkg/device"
)

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Device profile operations",
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List known device profiles",
	Run: func(cmd *cobra.Command, args []string) {
		for _, prof := range device.GetBundledProfiles() {
			log.Info(prof.Name)
		}

		userProfiles, err := device.GetConfigDirProfiles()
		if err != nil {
			log.Warnf("Could not list profiles in %s: %v", config.GetConfigDirectoryProfilesPath(), err)
			return
		}
		for _, prof := range userProfiles {
			log.Infof("%s (user)", prof.Name)
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show the identity a profile presents during checkin",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		var file *device.ProfileFile
		for _, prof := range device.GetBundledProfiles() {
			if prof.Name == name {
				p := prof
				file = &p
				break
			}
		}
		if file == nil {
			userProfiles, err := device.GetConfigDirProfiles()
			if err != nil {
				return err
			}
			for _, prof := range userProfiles {
				if prof.Name == name {
					p := prof
					file = &p
					break
				}
			}
		}
		if file == nil {
			return fmt.Errorf("no profile named %s", name)
		}

		profile, err := device.LoadProfile(*file)
		if err != nil {
			return err
		}

		log.Infof("Name: %s", profile.UserReadableName())
		log.Infof("Manufacturer: %s", profile.Manufacturer())
		log.Infof("Model: %s", profile.Model())
		log.Infof("Fingerprint: %s", profile.Fingerprint())
		log.Infof("SDK: %d", profile.SdkVer())
		log.Infof("Locale: %s", profile.Locale())
		return nil
	},
}

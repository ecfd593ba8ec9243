package config

import (
	"os"
	"path"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings are the user preferences consumed during session negotiation.
// They come from the optional settings file in the config directory, with
// AURORA_* environment variables taking precedence.
type Settings struct {
	SpoofDevice       string `yaml:"spoof_device" env:"AURORA_SPOOF_DEVICE"`
	LocaleOverride    string `yaml:"locale" env:"AURORA_LOCALE"`
	TokenDispenserURL string `yaml:"token_dispenser" env:"AURORA_TOKEN_DISPENSER"`
}

func GetConfigDirectoryPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	return path.Join(homeDir, ".aurora")
}

func GetConfigDirectoryProfilesPath() string {
	return path.Join(GetConfigDirectoryPath(), "profiles")
}

func GetSettingsFilePath() string {
	return path.Join(GetConfigDirectoryPath(), "settings.yml")
}

func LoadSettings() (*Settings, error) {
	var settings Settings

	filepath := GetSettingsFilePath()
	if _, err := os.Stat(filepath); err == nil {
		if err := cleanenv.ReadConfig(filepath, &settings); err != nil {
			return nil, err
		}
		return &settings, nil
	}

	if err := cleanenv.ReadEnv(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

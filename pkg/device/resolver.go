package device

import (
	"os"
	"path"

	log "github.com/sirupsen/logrus"

	"github.com/aurora-store/go-aurora/pkg/config"
)

/*
Resolver decides which device identity and locale to present during the next
session build. A selected spoof profile that cannot be loaded falls back to
the default bundled profile, a missing spoof file must never block login.
*/
type Resolver struct {
	settings    *config.Settings
	profilesDir string
}

func NewResolver(settings *config.Settings) *Resolver {
	return &Resolver{
		settings:    settings,
		profilesDir: config.GetConfigDirectoryProfilesPath(),
	}
}

// NewResolverWithProfilesDir overrides the user-writable profile directory.
func NewResolverWithProfilesDir(settings *config.Settings, profilesDir string) *Resolver {
	return &Resolver{settings: settings, profilesDir: profilesDir}
}

func (r *Resolver) Resolve() (*Profile, string) {
	if r.settings != nil && r.settings.SpoofDevice != "" {
		profile := r.resolveSpoof(r.settings.SpoofDevice)
		locale := r.settings.LocaleOverride
		if locale == "" {
			locale = profile.Locale()
		}
		return profile, locale
	}

	profile, err := NativeProfile()
	if err != nil {
		log.Warnf("Could not resolve native device profile: %v", err)
		profile = &Profile{name: "native", props: map[string]string{}}
	}

	locale := ""
	if r.settings != nil {
		locale = r.settings.LocaleOverride
	}
	if locale == "" {
		locale = SystemLocale()
	}
	return profile, locale
}

func (r *Resolver) resolveSpoof(name string) *Profile {
	profile, err := r.loadByName(name)
	if err == nil {
		return profile
	}

	log.Warnf("Spoof profile %s could not be loaded, falling back to the default profile: %v", name, err)

	profile, err = LoadDefaultProfile()
	if err == nil {
		return profile
	}

	log.Warnf("Default profile unavailable: %v", err)
	native, err := NativeProfile()
	if err != nil {
		return &Profile{name: "native", props: map[string]string{}}
	}
	return native
}

// loadByName checks the user-writable directory first, then the bundled set.
func (r *Resolver) loadByName(name string) (*Profile, error) {
	userPath := path.Join(r.profilesDir, name+ProfileSuffix)
	if data, err := os.ReadFile(userPath); err == nil {
		return LoadProfileFromProperties(name, data)
	}

	for _, file := range GetBundledProfiles() {
		if file.Name == name {
			return LoadProfile(file)
		}
	}
	return nil, os.ErrNotExist
}

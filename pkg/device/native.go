package device

import (
	"os"
	"strings"
)

/*
NativeProfile approximates the running machine as a device: the default
bundled property set with the host name and the host locale/timezone on top.
A Go process has no Android build properties of its own, so the hardware
identity still comes from the bundled set.
*/
func NativeProfile() (*Profile, error) {
	profile, err := LoadDefaultProfile()
	if err != nil {
		return nil, err
	}

	if host, err := os.Hostname(); err == nil && host != "" {
		profile.SetProp(PropUserReadableName, host)
	}
	profile.SetProp(PropLocale, SystemLocale())
	if tz := os.Getenv("TZ"); tz != "" {
		profile.SetProp(PropTimezone, tz)
	}
	return profile, nil
}

// SystemLocale resolves the host locale from the environment, en-US if unset.
func SystemLocale() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		value := os.Getenv(key)
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if idx := strings.IndexAny(value, ".@"); idx != -1 {
			value = value[:idx]
		}
		return strings.ReplaceAll(value, "_", "-")
	}
	return "en-US"
}

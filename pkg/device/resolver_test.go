package device

import (
	"os"
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurora-store/go-aurora/pkg/config"
)

func TestResolveSpoofFallsBackWhenMissing(t *testing.T) {
	resolver := NewResolverWithProfilesDir(&config.Settings{
		SpoofDevice: "device-deleted-long-ago",
	}, t.TempDir())

	profile, locale := resolver.Resolve()

	require.NotNil(t, profile)
	assert.Equal(t, GetBundledProfiles()[0].Name, profile.Name(),
		"a missing spoof file must fall back to the default profile, not block login")
	assert.NotEmpty(t, locale)
}

func TestResolveBundledSpoof(t *testing.T) {
	resolver := NewResolverWithProfilesDir(&config.Settings{
		SpoofDevice: "device-op3t",
	}, t.TempDir())

	profile, locale := resolver.Resolve()

	assert.Equal(t, "device-op3t", profile.Name())
	assert.Equal(t, "en-GB", locale, "spoofed profile supplies its own locale")
}

func TestResolveLocaleOverrideWins(t *testing.T) {
	resolver := NewResolverWithProfilesDir(&config.Settings{
		SpoofDevice:    "device-op3t",
		LocaleOverride: "fi-FI",
	}, t.TempDir())

	_, locale := resolver.Resolve()
	assert.Equal(t, "fi-FI", locale)
}

func TestResolveUserProfileShadowsBundled(t *testing.T) {
	dir := t.TempDir()

	custom := strings.Replace(minimalProfile, "TP-1", "TP-CUSTOM", 1)
	require.NoError(t, os.WriteFile(path.Join(dir, "device-op3t.properties"), []byte(custom), 0644))

	resolver := NewResolverWithProfilesDir(&config.Settings{
		SpoofDevice: "device-op3t",
	}, dir)

	profile, _ := resolver.Resolve()
	assert.Equal(t, "TP-CUSTOM", profile.Model())
}

func TestResolveCorruptUserProfileFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(path.Join(dir, "device-op3t.properties"),
		[]byte("UserReadableName=Broken\n"), 0644))

	resolver := NewResolverWithProfilesDir(&config.Settings{
		SpoofDevice: "device-op3t",
	}, dir)

	profile, _ := resolver.Resolve()
	assert.Equal(t, GetBundledProfiles()[0].Name, profile.Name())
}

func TestResolveNativeWithoutSpoof(t *testing.T) {
	resolver := NewResolverWithProfilesDir(&config.Settings{}, t.TempDir())

	profile, locale := resolver.Resolve()
	require.NotNil(t, profile)
	assert.NoError(t, profile.Validate())
	assert.NotEmpty(t, locale)
}

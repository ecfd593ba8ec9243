package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalProfile = `UserReadableName=Test Phone
Build.MANUFACTURER=TestCorp
Build.MODEL=TP-1
Build.VERSION.SDK_INT=28
Build.HARDWARE=testhw
Build.FINGERPRINT=TestCorp/tp1/tp1:9/ABC123/1:user/release-keys
Build.DEVICE=tp1
Build.PRODUCT=tp1
`

func TestLoadProfileFromProperties(t *testing.T) {
	profile, err := LoadProfileFromProperties("device-test", []byte(minimalProfile))
	require.NoError(t, err)

	assert.Equal(t, "device-test", profile.Name())
	assert.Equal(t, "Test Phone", profile.UserReadableName())
	assert.Equal(t, "TestCorp", profile.Manufacturer())
	assert.Equal(t, int32(28), profile.SdkVer())

	// unset keys fall back to defaults
	assert.Equal(t, "en-US", profile.Locale())
	assert.Equal(t, int32(196610), profile.GlEsVersion())
	assert.Nil(t, profile.NativePlatforms())
}

func TestLoadProfileRejectsIncomplete(t *testing.T) {
	_, err := LoadProfileFromProperties("device-broken", []byte("UserReadableName=Broken\n"))

	var invalid *InvalidProfileError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "device-broken", invalid.Name)
	assert.Contains(t, invalid.Missing, PropManufacturer)
	assert.Contains(t, invalid.Missing, PropFingerprint)
	assert.NotContains(t, invalid.Missing, PropUserReadableName)
}

func TestBundledProfilesAreValid(t *testing.T) {
	bundled := GetBundledProfiles()
	require.NotEmpty(t, bundled)

	for _, file := range bundled {
		profile, err := LoadProfile(file)
		require.NoError(t, err, "bundled profile %s must load", file.Name)
		assert.NotEmpty(t, profile.NativePlatforms())
		assert.NotEqual(t, "unknown", profile.Fingerprint())
	}
}

func TestDefaultProfile(t *testing.T) {
	profile, err := LoadDefaultProfile()
	require.NoError(t, err)
	assert.Equal(t, GetBundledProfiles()[0].Name, profile.Name())
}

func TestPreferredFilename(t *testing.T) {
	profile, err := LoadProfileFromProperties("device-test", []byte(minimalProfile))
	require.NoError(t, err)
	assert.Equal(t, "device-test_phone_api_28.properties", profile.PreferredFilename())
}

func TestRandomizedIdentity(t *testing.T) {
	profile, err := LoadProfileFromProperties("device-test", []byte(minimalProfile))
	require.NoError(t, err)

	assert.Len(t, profile.MacAddr(), 12)
	assert.NotEqual(t, profile.SerialNumber(), profile.SerialNumber())
}

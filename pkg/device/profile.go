package device

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"

	"github.com/aurora-store/go-aurora/pkg/config"
)

//go:embed profiles/device-*.properties
var bundledProfiles embed.FS

const (
	ProfilePrefix = "device-"
	ProfileSuffix = ".properties"
)

const (
	PropUserReadableName = "UserReadableName"
	PropManufacturer     = "Build.MANUFACTURER"
	PropModel            = "Build.MODEL"
	PropSdkInt           = "Build.VERSION.SDK_INT"
	PropHardware         = "Build.HARDWARE"
	PropFingerprint      = "Build.FINGERPRINT"
	PropDevice           = "Build.DEVICE"
	PropProduct          = "Build.PRODUCT"
	PropBrand            = "Build.BRAND"
	PropBuildID          = "Build.ID"
	PropRadio            = "Build.RADIO"
	PropBootloader       = "Build.BOOTLOADER"
	PropGsfVersion       = "GSF.version"
	PropVendingVersion   = "Vending.version"
	PropGlEsVersion      = "GL.Version"
	PropGlExtensions     = "GL.Extensions"
	PropScreenDensity    = "Screen.Density"
	PropScreenWidth      = "Screen.Width"
	PropScreenHeight     = "Screen.Height"
	PropPlatforms        = "Platforms"
	PropSharedLibraries  = "SharedLibraries"
	PropFeatures         = "Features"
	PropLocales          = "Locales"
	PropLocale           = "Locale"
	PropTimezone         = "TimeZone"
	PropSimOperator      = "SimOperator"
	PropCellOperator     = "CellOperator"
	PropRoaming          = "Roaming"
)

// requiredProps is the minimum the protocol layer needs to accept a profile.
var requiredProps = []string{
	PropUserReadableName,
	PropManufacturer,
	PropModel,
	PropSdkInt,
	PropHardware,
	PropFingerprint,
	PropDevice,
	PropProduct,
}

// InvalidProfileError reports a profile that fails minimum-field validation.
type InvalidProfileError struct {
	Name    string
	Missing []string
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("device profile %s is missing required properties: %s",
		e.Name, strings.Join(e.Missing, ", "))
}

// Profile is a named Android build-property set presented to the remote
// endpoint during session negotiation.
type Profile struct {
	name  string
	props map[string]string
}

func LoadProfileFromProperties(name string, data []byte) (*Profile, error) {
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, err
	}

	props := map[string]string{}
	for _, sect := range cfg.Sections() {
		for _, key := range sect.Keys() {
			props[key.Name()] = key.Value()
		}
	}

	profile := &Profile{name: name, props: props}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return profile, nil
}

func (profile *Profile) Validate() error {
	var missing []string
	for _, key := range requiredProps {
		if profile.props[key] == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &InvalidProfileError{Name: profile.name, Missing: missing}
	}
	return nil
}

type ProfileFile struct {
	Name    string
	Path    string
	bundled bool
}

func GetBundledProfiles() []ProfileFile {
	var profiles []ProfileFile
	_ = fs.WalkDir(bundledProfiles, "profiles", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		profiles = append(profiles, ProfileFile{
			Name:    strings.TrimSuffix(filepath.Base(p), ProfileSuffix),
			Path:    p,
			bundled: true,
		})
		return nil
	})
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Name < profiles[j].Name })
	return profiles
}

func GetConfigDirProfiles() ([]ProfileFile, error) {
	var profiles []ProfileFile

	matches, err := filepath.Glob(path.Join(config.GetConfigDirectoryProfilesPath(), ProfilePrefix+"*"+ProfileSuffix))
	if err != nil {
		return profiles, err
	}

	for _, match := range matches {
		profiles = append(profiles, ProfileFile{
			Name: strings.TrimSuffix(filepath.Base(match), ProfileSuffix),
			Path: match,
		})
	}
	return profiles, nil
}

func LoadProfile(file ProfileFile) (*Profile, error) {
	var data []byte
	var err error

	if file.bundled {
		data, err = bundledProfiles.ReadFile(file.Path)
	} else {
		data, err = os.ReadFile(file.Path)
	}
	if err != nil {
		return nil, err
	}
	return LoadProfileFromProperties(file.Name, data)
}

func LoadDefaultProfile() (*Profile, error) {
	bundled := GetBundledProfiles()
	if len(bundled) == 0 {
		return nil, fmt.Errorf("no bundled device profiles")
	}
	return LoadProfile(bundled[0])
}

func (profile *Profile) getString(key string, defaultValue string) string {
	value := profile.props[key]
	if value == "" {
		return defaultValue
	}
	return value
}

func (profile *Profile) getInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(profile.props[key])
	if err != nil {
		return defaultValue
	}
	return value
}

func (profile *Profile) getList(key string) []string {
	value := profile.props[key]
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

func (profile *Profile) Name() string             { return profile.name }
func (profile *Profile) UserReadableName() string { return profile.getString(PropUserReadableName, "unknown") }
func (profile *Profile) Manufacturer() string     { return profile.getString(PropManufacturer, "unknown") }
func (profile *Profile) Model() string            { return profile.getString(PropModel, "unknown") }
func (profile *Profile) Hardware() string         { return profile.getString(PropHardware, "unknown") }
func (profile *Profile) Fingerprint() string      { return profile.getString(PropFingerprint, "unknown") }
func (profile *Profile) Device() string           { return profile.getString(PropDevice, "unknown") }
func (profile *Profile) Product() string          { return profile.getString(PropProduct, "unknown") }
func (profile *Profile) Brand() string            { return profile.getString(PropBrand, "unknown") }
func (profile *Profile) BuildID() string          { return profile.getString(PropBuildID, "unknown") }
func (profile *Profile) Radio() string            { return profile.getString(PropRadio, "unknown") }
func (profile *Profile) Bootloader() string       { return profile.getString(PropBootloader, "unknown") }
func (profile *Profile) SimOperator() string      { return profile.getString(PropSimOperator, "38900") }
func (profile *Profile) CellOperator() string     { return profile.getString(PropCellOperator, "38900") }
func (profile *Profile) Roaming() string          { return profile.getString(PropRoaming, "mobile-notroaming") }
func (profile *Profile) Locale() string           { return profile.getString(PropLocale, "en-US") }
func (profile *Profile) Timezone() string         { return profile.getString(PropTimezone, "America/New_York") }

func (profile *Profile) SdkVer() int32 {
	return int32(profile.getInt(PropSdkInt, 28))
}

func (profile *Profile) GsfVersion() int32 {
	return int32(profile.getInt(PropGsfVersion, 203615037))
}

func (profile *Profile) VendingVersion() int32 {
	return int32(profile.getInt(PropVendingVersion, 82151710))
}

func (profile *Profile) GlEsVersion() int32 {
	return int32(profile.getInt(PropGlEsVersion, 196610))
}

func (profile *Profile) ScreenDensity() int32 {
	return int32(profile.getInt(PropScreenDensity, 480))
}

func (profile *Profile) ScreenWidth() int32 {
	return int32(profile.getInt(PropScreenWidth, 1080))
}

func (profile *Profile) ScreenHeight() int32 {
	return int32(profile.getInt(PropScreenHeight, 1920))
}

func (profile *Profile) NativePlatforms() []string { return profile.getList(PropPlatforms) }
func (profile *Profile) SharedLibraries() []string { return profile.getList(PropSharedLibraries) }
func (profile *Profile) Features() []string        { return profile.getList(PropFeatures) }
func (profile *Profile) SupportedLocales() []string {
	return profile.getList(PropLocales)
}

func (profile *Profile) GlExtensions() []string { return profile.getList(PropGlExtensions) }

func (profile *Profile) SetProp(key, value string) {
	profile.props[key] = value
}

// MacAddr and SerialNumber are random per call, presenting a stable hardware
// identity across checkins is not desirable.
func (profile *Profile) MacAddr() string {
	return randomHex(12)
}

func (profile *Profile) SerialNumber() string {
	return randomHex(12)
}

func (profile *Profile) OtaCert() string {
	return "71Q6Rn2DDZl1zPDVaaeEHItd+Yg="
}

func randomHex(length int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length > len(hex) {
		length = len(hex)
	}
	return hex[:length]
}

func (profile *Profile) PreferredFilename() string {
	name := strings.ReplaceAll(strings.ToLower(profile.UserReadableName()), " ", "_")
	return fmt.Sprintf("%s%s_api_%d%s", ProfilePrefix, name, profile.SdkVer(), ProfileSuffix)
}

func (profile *Profile) SaveToFile(filepath string) error {
	if err := os.MkdirAll(path.Dir(filepath), os.ModePerm); err != nil {
		return err
	}

	keys := make([]string, 0, len(profile.props))
	for key := range profile.props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buf := bytes.NewBuffer(nil)
	for _, key := range keys {
		fmt.Fprintf(buf, "%s=%s\n", key, profile.props[key])
	}
	return os.WriteFile(filepath, buf.Bytes(), 0644)
}

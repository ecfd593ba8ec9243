package gplay

import (
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/aurora-store/go-aurora/pkg/device"
)

// Hand-rolled checkin wire messages. The message shapes are stable since
// Android 2.x, only the handful of fields the session build needs are
// encoded and decoded here.

func appendString(b []byte, num protowire.Number, value string) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, value)
}

func appendStrings(b []byte, num protowire.Number, values []string) []byte {
	for _, value := range values {
		b = appendString(b, num, value)
	}
	return b
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

func appendVarint(b []byte, num protowire.Number, value uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, value)
}

func appendBool(b []byte, num protowire.Number, value bool) []byte {
	v := uint64(0)
	if value {
		v = 1
	}
	return appendVarint(b, num, v)
}

// AndroidBuildProto
func encodeBuildProto(profile *device.Profile) []byte {
	var b []byte
	b = appendString(b, 1, profile.Fingerprint())       // id
	b = appendString(b, 2, profile.Product())           // product
	b = appendString(b, 3, profile.Brand())             // carrier
	b = appendString(b, 4, profile.Radio())             // radio
	b = appendString(b, 5, profile.Bootloader())        // bootloader
	b = appendString(b, 6, "android-google")            // client
	b = appendVarint(b, 7, uint64(time.Now().Unix()))   // timestamp
	b = appendVarint(b, 8, uint64(profile.GsfVersion())) // googleServices
	b = appendString(b, 9, profile.Device())            // device
	b = appendVarint(b, 10, uint64(profile.SdkVer()))   // sdkVersion
	b = appendString(b, 11, profile.Model())            // model
	b = appendString(b, 12, profile.Manufacturer())     // manufacturer
	b = appendString(b, 13, profile.Product())          // buildProduct
	b = appendBool(b, 14, false)                        // otaInstalled
	return b
}

// AndroidCheckinProto
func encodeCheckinProto(profile *device.Profile) []byte {
	var b []byte
	b = appendMessage(b, 1, encodeBuildProto(profile)) // build
	b = appendVarint(b, 2, 0)                          // lastCheckinMsec
	b = appendString(b, 6, profile.CellOperator())     // cellOperator
	b = appendString(b, 7, profile.SimOperator())      // simOperator
	b = appendString(b, 8, profile.Roaming())          // roaming
	b = appendVarint(b, 9, 0)                          // userNumber
	return b
}

// DeviceConfigurationProto
func encodeDeviceConfigProto(profile *device.Profile) []byte {
	var b []byte
	b = appendVarint(b, 1, 3)                                   // touchScreen: finger
	b = appendVarint(b, 2, 1)                                   // keyboard: qwerty
	b = appendVarint(b, 3, 1)                                   // navigation: undefined
	b = appendVarint(b, 4, 2)                                   // screenLayout: normal
	b = appendBool(b, 5, false)                                 // hasHardKeyboard
	b = appendBool(b, 6, false)                                 // hasFiveWayNavigation
	b = appendVarint(b, 7, uint64(profile.ScreenDensity()))     // screenDensity
	b = appendVarint(b, 8, uint64(profile.GlEsVersion()))       // glEsVersion
	b = appendStrings(b, 9, profile.SharedLibraries())          // systemSharedLibrary
	b = appendStrings(b, 10, profile.Features())                // systemAvailableFeature
	b = appendStrings(b, 11, profile.NativePlatforms())         // nativePlatform
	b = appendVarint(b, 12, uint64(profile.ScreenWidth()))      // screenWidth
	b = appendVarint(b, 13, uint64(profile.ScreenHeight()))     // screenHeight
	b = appendStrings(b, 14, profile.SupportedLocales())        // systemSupportedLocale
	b = appendStrings(b, 15, profile.GlExtensions())            // glExtension
	return b
}

// AndroidCheckinRequest
func encodeCheckinRequest(profile *device.Profile, locale string) []byte {
	var b []byte
	b = appendVarint(b, 2, 0)                                    // id
	b = appendMessage(b, 4, encodeCheckinProto(profile))         // checkin
	b = appendString(b, 6, locale)                               // locale
	b = appendString(b, 9, profile.MacAddr())                    // macAddr
	b = appendString(b, 12, profile.Timezone())                  // timeZone
	b = appendVarint(b, 14, 3)                                   // version
	b = appendString(b, 15, profile.OtaCert())                   // otaCert
	b = appendString(b, 16, profile.SerialNumber())              // serialNumber
	b = appendMessage(b, 18, encodeDeviceConfigProto(profile))   // deviceConfiguration
	b = appendString(b, 19, "wifi")                              // macAddrType
	b = appendVarint(b, 20, 0)                                   // fragment
	b = appendVarint(b, 22, 0)                                   // userSerialNumber
	return b
}

type checkinResponse struct {
	androidID        uint64
	securityToken    uint64
	consistencyToken string
}

// AndroidCheckinResponse: androidId=7 (fixed64), securityToken=8 (fixed64),
// deviceCheckinConsistencyToken=12 (string). Everything else is skipped.
func decodeCheckinResponse(data []byte) (*checkinResponse, error) {
	var resp checkinResponse

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		switch {
		case num == 7 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			resp.androidID = v
			data = data[n:]
		case num == 8 && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			resp.securityToken = v
			data = data[n:]
		case num == 12 && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			resp.consistencyToken = string(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return &resp, nil
}

// UploadDeviceConfigRequest: deviceConfiguration=1, manufacturer=2.
func encodeUploadDeviceConfigRequest(profile *device.Profile) []byte {
	var b []byte
	b = appendMessage(b, 1, encodeDeviceConfigProto(profile))
	b = appendString(b, 2, profile.Manufacturer())
	return b
}

// ResponseWrapper{payload=1{uploadDeviceConfigResponse=28{token=1}}}.
// A missing token is not an error, the field is optional in practice.
func decodeUploadDeviceConfigResponse(data []byte) (string, error) {
	payload, err := messageField(data, 1)
	if err != nil || payload == nil {
		return "", err
	}
	inner, err := messageField(payload, 28)
	if err != nil || inner == nil {
		return "", err
	}
	token, err := messageField(inner, 1)
	if err != nil {
		return "", err
	}
	return string(token), nil
}

// messageField returns the raw bytes of the first length-delimited field
// with the given number, nil when absent.
func messageField(data []byte, want protowire.Number) ([]byte, error) {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]

		if num == want && typ == protowire.BytesType {
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			return v, nil
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		data = data[n:]
	}
	return nil, nil
}

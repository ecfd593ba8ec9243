package session

import (
	"context"

	"github.com/aurora-store/go-aurora/pkg/device"
)

// Session is a fully negotiated Play Store session handle. All fields are
// resolved, it can be used for authenticated API calls as is.
type Session struct {
	Email     string
	GsfID     string
	AuthToken string
	AasToken  string

	Anonymous         bool
	TokenDispenserURL string

	DeviceCheckinConsistencyToken string
	DeviceConfigToken             string
	DfeCookie                     string

	Locale           string
	DeviceDefinition string
}

// LoginInfo returns the persistable snapshot of the session. The snapshot
// never carries a password.
func (s *Session) LoginInfo() LoginInfo {
	return LoginInfo{
		Email:                         s.Email,
		GsfID:                         s.GsfID,
		AuthToken:                     s.AuthToken,
		AasToken:                      s.AasToken,
		Anonymous:                     s.Anonymous,
		TokenDispenserURL:             s.TokenDispenserURL,
		DeviceCheckinConsistencyToken: s.DeviceCheckinConsistencyToken,
		DeviceConfigToken:             s.DeviceConfigToken,
		DfeCookie:                     s.DfeCookie,
		Locale:                        s.Locale,
		DeviceDefinition:              s.DeviceDefinition,
	}
}

// CheckinResult is what a device checkin yields.
type CheckinResult struct {
	GsfID                         string
	DeviceCheckinConsistencyToken string
}

/*
PlayClient is the remote protocol endpoint as seen by the builder. The wire
format behind it is not owned here, implementations live in pkg/gplay.
*/
type PlayClient interface {
	RegisterDevice(ctx context.Context, profile *device.Profile, locale string) (*CheckinResult, error)
	ExchangeToken(ctx context.Context, email, aasToken string) (string, error)
	ExchangeCredentials(ctx context.Context, email, password, gsfID string) (string, error)
	UploadDeviceConfig(ctx context.Context, profile *device.Profile, gsfID, authToken string) (string, error)
}

// Dispenser hands out anonymous email/token pairs.
type Dispenser interface {
	RandomEmail(ctx context.Context) (string, error)
	Token(ctx context.Context, email string) (string, error)
}

// DispenserFactory creates a Dispenser for a mirror URL.
type DispenserFactory func(baseURL string) Dispenser

package session

import (
	"context"

	"github.com/aurora-store/go-aurora/pkg/device"
	log "github.com/sirupsen/logrus"
)

/*
Builder turns a partially filled LoginInfo into a usable session, performing
only the remote calls whose output is still missing. The step order is a
protocol requirement: checkin before token exchange, device config upload
after both, and only when the checkin minted a fresh gsfId.
*/
type Builder struct {
	client     PlayClient
	profile    *device.Profile
	locale     string
	dispensers DispenserFactory
}

// NewBuilder validates the fixed inputs once. The locale is resolved here and
// not re-read mid build; an empty locale falls back to the system locale.
func NewBuilder(client PlayClient, profile *device.Profile, locale string, dispensers DispenserFactory) (*Builder, error) {
	if client == nil {
		return nil, &ConfigurationError{Reason: "no protocol client"}
	}
	if profile == nil {
		return nil, &ConfigurationError{Reason: "no device profile"}
	}
	if locale == "" {
		locale = device.SystemLocale()
	}
	return &Builder{
		client:     client,
		profile:    profile,
		locale:     locale,
		dispensers: dispensers,
	}, nil
}

func (b *Builder) dispenser(baseURL string) (Dispenser, error) {
	if b.dispensers == nil {
		return nil, &ConfigurationError{Reason: "no token dispenser client"}
	}
	return b.dispensers(baseURL), nil
}

func (b *Builder) Build(ctx context.Context, info LoginInfo) (*Session, error) {
	if !info.HasCredentials() {
		return nil, &ConfigurationError{Reason: "no usable credential combination"}
	}

	if info.Locale == "" {
		info.Locale = b.locale
	}

	if info.TokenDispenserURL != "" && info.Email == "" {
		disp, err := b.dispenser(info.TokenDispenserURL)
		if err != nil {
			return nil, err
		}
		email, err := disp.RandomEmail(ctx)
		if err != nil {
			return nil, err
		}
		if email == "" {
			return nil, &EmailResolutionError{DispenserURL: info.TokenDispenserURL}
		}
		log.Debugf("Dispenser handed out email %s", email)
		info.Email = email
		info.Anonymous = true
	}

	freshGsfID := false
	if info.GsfID == "" {
		result, err := b.client.RegisterDevice(ctx, b.profile, info.Locale)
		if err != nil {
			return nil, err
		}
		info.GsfID = result.GsfID
		// First write wins, the endpoint value is authoritative.
		if info.DeviceCheckinConsistencyToken == "" {
			info.DeviceCheckinConsistencyToken = result.DeviceCheckinConsistencyToken
		}
		freshGsfID = true
		log.Debugf("Registered device, gsfId %s", info.GsfID)
	}

	if info.AuthToken == "" {
		token, err := b.fetchAuthToken(ctx, info)
		if err != nil {
			return nil, err
		}
		info.AuthToken = token
	}

	if freshGsfID {
		// Must follow gsfId assignment and precede normal API use.
		token, err := b.client.UploadDeviceConfig(ctx, b.profile, info.GsfID, info.AuthToken)
		if err != nil {
			return nil, err
		}
		if info.DeviceConfigToken == "" && token != "" {
			info.DeviceConfigToken = token
		}
	}

	deviceDefinition := info.DeviceDefinition
	if deviceDefinition == "" {
		deviceDefinition = b.profile.Name()
	}

	return &Session{
		Email:                         info.Email,
		GsfID:                         info.GsfID,
		AuthToken:                     info.AuthToken,
		AasToken:                      info.AasToken,
		Anonymous:                     info.Anonymous,
		TokenDispenserURL:             info.TokenDispenserURL,
		DeviceCheckinConsistencyToken: info.DeviceCheckinConsistencyToken,
		DeviceConfigToken:             info.DeviceConfigToken,
		DfeCookie:                     info.DfeCookie,
		Locale:                        info.Locale,
		DeviceDefinition:              deviceDefinition,
	}, nil
}

func (b *Builder) fetchAuthToken(ctx context.Context, info LoginInfo) (string, error) {
	switch {
	case info.AasToken != "":
		return b.client.ExchangeToken(ctx, info.Email, info.AasToken)
	case info.Password != "":
		return b.client.ExchangeCredentials(ctx, info.Email, info.Password, info.GsfID)
	case info.TokenDispenserURL != "":
		disp, err := b.dispenser(info.TokenDispenserURL)
		if err != nil {
			return "", err
		}
		return disp.Token(ctx, info.Email)
	}
	return "", &ConfigurationError{Reason: "no way to obtain an auth token"}
}

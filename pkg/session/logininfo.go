package session

// LoginInfo is the input and output record of a session build. It is passed
// and returned by value, the builder works on its own copy.
//
// The password is transient and must never be persisted.
type LoginInfo struct {
	Email    string
	Password string

	GsfID     string
	AuthToken string
	AasToken  string

	TokenDispenserURL string
	Locale            string

	DeviceCheckinConsistencyToken string
	DeviceConfigToken             string
	DfeCookie                     string

	Anonymous        bool
	DeviceDefinition string
}

/*
HasCredentials reports whether the record satisfies at least one of the
credential combinations a build can start from:

	email + password
	email + aasToken
	authToken + gsfId
	tokenDispenserUrl
*/
func (info LoginInfo) HasCredentials() bool {
	if info.Email != "" && info.Password != "" {
		return true
	}
	if info.Email != "" && info.AasToken != "" {
		return true
	}
	if info.AuthToken != "" && info.GsfID != "" {
		return true
	}
	return info.TokenDispenserURL != ""
}

// SameAccount reports whether two snapshots refer to the same logical
// account: same effective email (or both anonymous) on the same device
// definition. No secrets are compared.
func (info LoginInfo) SameAccount(other LoginInfo) bool {
	if info.DeviceDefinition != other.DeviceDefinition {
		return false
	}
	if info.Anonymous && other.Anonymous {
		return true
	}
	return info.Email != "" && info.Email == other.Email
}

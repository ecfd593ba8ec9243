package session

import "fmt"

// ConfigurationError means the builder inputs cannot produce a session:
// no protocol client, no device profile or no usable credential combination.
// Retrying without new input is pointless.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("session configuration invalid: %s", e.Reason)
}

// EmailResolutionError means the token dispenser could not supply an
// anonymous email. Usually a transient dispenser outage, retry or switch mirror.
type EmailResolutionError struct {
	DispenserURL string
}

func (e *EmailResolutionError) Error() string {
	return fmt.Sprintf("token dispenser %s did not return an email", e.DispenserURL)
}

// CredentialsEmptyError means a token refresh was requested with no account
// on record. The user has to log in again.
type CredentialsEmptyError struct{}

func (e *CredentialsEmptyError) Error() string {
	return "no account on record, log in first"
}

// AuthDeclinedError means the remote endpoint understood the request and
// rejected the credentials. Distinct from transport failures, which are
// passed through unwrapped.
type AuthDeclinedError struct {
	Reason string
}

func (e *AuthDeclinedError) Error() string {
	return fmt.Sprintf("authentication declined: %s", e.Reason)
}

package credstore

import (
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zalando/go-keyring"
	"gopkg.in/ini.v1"

	"github.com/aurora-store/go-aurora/pkg/session"
)

const Service = "go-aurora"

const AccountFile = "account.properties"

// Preference keys of the persisted account namespace.
const (
	KeyAccountEmail            = "ACCOUNT_EMAIL"
	KeyGsfID                   = "GSF_ID"
	KeyLastUsedTokenDispenser  = "LAST_USED_TOKEN_DISPENSER"
	KeyDummyAccount            = "DUMMY_ACCOUNT"
	KeyLoggedIn                = "LOGGED_IN"
	KeyAnonymous               = "ANONYMOUS"
	KeyLocale                  = "LOCALE"
	KeyDeviceDefinition        = "DEVICE_DEFINITION"
	KeyCheckinConsistencyToken = "DEVICE_CHECKIN_CONSISTENCY_TOKEN"
	KeyDeviceConfigToken       = "DEVICE_CONFIG_TOKEN"
	KeyDfeCookie               = "DFE_COOKIE"
)

// Keyring entries, secrets never touch the plain account file.
const (
	keyringAuthToken = "auth-token"
	keyringAasToken  = "aas-token"
)

/*
Store persists LoginInfo between processes. Non-secret fields go to a flat
key=value file under dir, written in a single batch via rename so a
concurrent reader sees either the old snapshot or the new one. Auth tokens
go to the OS keyring.
*/
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) accountFilePath() string {
	return path.Join(s.dir, AccountFile)
}

// Save writes every non-transient field. The password is intentionally not
// part of the layout.
func (s *Store) Save(info session.LoginInfo) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("could not create credential store directory: %w", err)
	}

	cfg := ini.Empty()
	sect := cfg.Section("")
	sect.Key(KeyAccountEmail).SetValue(info.Email)
	sect.Key(KeyGsfID).SetValue(info.GsfID)
	sect.Key(KeyLastUsedTokenDispenser).SetValue(info.TokenDispenserURL)
	sect.Key(KeyDummyAccount).SetValue(strconv.FormatBool(info.Anonymous))
	sect.Key(KeyAnonymous).SetValue(strconv.FormatBool(info.Anonymous))
	sect.Key(KeyLoggedIn).SetValue("true")
	sect.Key(KeyLocale).SetValue(info.Locale)
	sect.Key(KeyDeviceDefinition).SetValue(info.DeviceDefinition)
	sect.Key(KeyCheckinConsistencyToken).SetValue(info.DeviceCheckinConsistencyToken)
	sect.Key(KeyDeviceConfigToken).SetValue(info.DeviceConfigToken)
	sect.Key(KeyDfeCookie).SetValue(info.DfeCookie)

	tmpPath := s.accountFilePath() + ".tmp"
	if err := cfg.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("could not write account file: %w", err)
	}
	if err := os.Rename(tmpPath, s.accountFilePath()); err != nil {
		return fmt.Errorf("could not replace account file: %w", err)
	}

	if err := keyring.Set(Service, keyringAuthToken, info.AuthToken); err != nil {
		return fmt.Errorf("could not save auth token: %w", err)
	}
	if err := keyring.Set(Service, keyringAasToken, info.AasToken); err != nil {
		return fmt.Errorf("could not save aas token: %w", err)
	}
	return nil
}

// Load reconstructs the stored LoginInfo. Nothing stored means a zero value,
// Load never fails.
func (s *Store) Load() session.LoginInfo {
	var info session.LoginInfo

	cfg, err := ini.Load(s.accountFilePath())
	if err == nil {
		sect := cfg.Section("")
		info.Email = sect.Key(KeyAccountEmail).String()
		info.GsfID = sect.Key(KeyGsfID).String()
		info.TokenDispenserURL = sect.Key(KeyLastUsedTokenDispenser).String()
		info.Anonymous = sect.Key(KeyDummyAccount).MustBool(false) ||
			sect.Key(KeyAnonymous).MustBool(false)
		info.Locale = sect.Key(KeyLocale).String()
		info.DeviceDefinition = sect.Key(KeyDeviceDefinition).String()
		info.DeviceCheckinConsistencyToken = sect.Key(KeyCheckinConsistencyToken).String()
		info.DeviceConfigToken = sect.Key(KeyDeviceConfigToken).String()
		info.DfeCookie = sect.Key(KeyDfeCookie).String()
	}

	if token, err := keyring.Get(Service, keyringAuthToken); err == nil {
		info.AuthToken = token
	}
	if token, err := keyring.Get(Service, keyringAasToken); err == nil {
		info.AasToken = token
	}
	return info
}

func (s *Store) LoggedIn() bool {
	cfg, err := ini.Load(s.accountFilePath())
	if err != nil {
		return false
	}
	return cfg.Section("").Key(KeyLoggedIn).MustBool(false)
}

// Clear removes every account-related entry. Idempotent.
func (s *Store) Clear() error {
	if err := os.Remove(s.accountFilePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove account file: %w", err)
	}
	for _, entry := range []string{keyringAuthToken, keyringAasToken} {
		if err := keyring.Delete(Service, entry); err != nil && err != keyring.ErrNotFound {
			return fmt.Errorf("could not remove %s from keyring: %w", entry, err)
		}
	}
	return nil
}

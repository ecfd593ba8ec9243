package credstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/aurora-store/go-aurora/pkg/session"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	keyring.MockInit()
	return NewStore(t.TempDir())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)

	info := session.LoginInfo{
		Email:                         "a@b.com",
		Password:                      "hunter2",
		GsfID:                         "3a5f19e2c1d407bb",
		AuthToken:                     "auth-token-1",
		AasToken:                      "aas-token-1",
		TokenDispenserURL:             "https://dispenser.example/mirror1",
		Locale:                        "en-US",
		DeviceDefinition:              "device-px3a",
		DeviceCheckinConsistencyToken: "consistency-1",
		DeviceConfigToken:             "upload-token-1",
		DfeCookie:                     "cookie-1",
		Anonymous:                     true,
	}
	require.NoError(t, store.Save(info))

	loaded := store.Load()

	assert.Empty(t, loaded.Password, "the password must never be persisted")

	info.Password = ""
	assert.Equal(t, info, loaded)
	assert.True(t, store.LoggedIn())
}

func TestLoadWithoutState(t *testing.T) {
	store := newTestStore(t)

	assert.Equal(t, session.LoginInfo{}, store.Load())
	assert.False(t, store.LoggedIn())
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(session.LoginInfo{Email: "a@b.com", AuthToken: "tok"}))
	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())

	assert.Equal(t, session.LoginInfo{}, store.Load())
	assert.False(t, store.LoggedIn())
}

func TestSaveReplacesWholeSnapshot(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Save(session.LoginInfo{
		Email:             "a@b.com",
		TokenDispenserURL: "https://dispenser.example/mirror1",
	}))
	require.NoError(t, store.Save(session.LoginInfo{Email: "c@d.com"}))

	loaded := store.Load()
	assert.Equal(t, "c@d.com", loaded.Email)
	assert.Empty(t, loaded.TokenDispenserURL, "stale keys must not leak into a later snapshot")
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Save(session.LoginInfo{Email: "a@b.com"}))

	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, AccountFile, entries[0].Name())
}

package auth

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/aurora-store/go-aurora/pkg/device"
	"github.com/aurora-store/go-aurora/pkg/session"
)

// CredentialStore persists and restores LoginInfo between processes.
type CredentialStore interface {
	Save(info session.LoginInfo) error
	Load() session.LoginInfo
	Clear() error
}

// ProfileResolver picks the device identity and locale for the next build.
type ProfileResolver interface {
	Resolve() (*device.Profile, string)
}

/*
Authenticator is the process-wide login façade. It owns the single cached
session, at most one build is in flight at any time and concurrent callers
coalesce onto it. All methods are safe for concurrent use.
*/
type Authenticator struct {
	mu      sync.RWMutex
	session *session.Session

	store      CredentialStore
	resolver   ProfileResolver
	client     session.PlayClient
	dispensers session.DispenserFactory
}

func NewAuthenticator(store CredentialStore, resolver ProfileResolver, client session.PlayClient, dispensers session.DispenserFactory) *Authenticator {
	return &Authenticator{
		store:      store,
		resolver:   resolver,
		client:     client,
		dispensers: dispensers,
	}
}

/*
GetAPI returns the cached session, building one from persisted credentials
when none exists yet. Double-checked: the fast path never takes the write
lock, and callers arriving during a build block until it finishes and then
pick up its result.
*/
func (a *Authenticator) GetAPI(ctx context.Context) (*session.Session, error) {
	a.mu.RLock()
	cached := a.session
	a.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		return a.session, nil
	}

	sess, err := a.buildLocked(ctx, a.store.Load())
	if err != nil {
		return nil, err
	}
	// Persist here too, the build may have minted a gsfId or auth token
	// that must survive a process restart.
	if err := a.adoptLocked(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

/*
Login authenticates with explicit credentials, persists the resulting
session and marks the account as non-anonymous. An expected rejection by the
endpoint yields (false, nil), anything else propagates.
*/
func (a *Authenticator) Login(ctx context.Context, email, password string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	info := session.LoginInfo{
		Email:    email,
		Password: password,
	}

	sess, err := a.buildLocked(ctx, info)
	if err != nil {
		var declined *session.AuthDeclinedError
		if errors.As(err, &declined) {
			log.Warnf("Login for %s declined: %s", email, declined.Reason)
			return false, nil
		}
		return false, err
	}

	sess.Anonymous = false
	return true, a.adoptLocked(sess)
}

/*
LoginAnonymous negotiates a dummy account through a token dispenser mirror
and persists it. A dispenser that cannot hand out an email yields
(false, nil), the caller may retry or pick another mirror.
*/
func (a *Authenticator) LoginAnonymous(ctx context.Context, dispenserURL string) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	info := session.LoginInfo{
		TokenDispenserURL: dispenserURL,
		Anonymous:         true,
	}

	sess, err := a.buildLocked(ctx, info)
	if err != nil {
		var empty *session.EmailResolutionError
		if errors.As(err, &empty) {
			log.Warnf("Anonymous login failed: %v", err)
			return false, nil
		}
		return false, err
	}

	sess.Anonymous = true
	return true, a.adoptLocked(sess)
}

/*
RefreshToken discards the stored auth token and rebuilds the session. The
gsfId and the previously used dispenser are retained, so only the token
exchange step runs. Fails with CredentialsEmptyError when no account email
is on record.
*/
func (a *Authenticator) RefreshToken(ctx context.Context) (*session.Session, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	info := a.store.Load()
	if info.Email == "" {
		return nil, &session.CredentialsEmptyError{}
	}

	info.AuthToken = ""

	sess, err := a.buildLocked(ctx, info)
	if err != nil {
		return nil, err
	}
	return sess, a.adoptLocked(sess)
}

// Logout tears down local state only, the remote endpoint is not contacted.
// Idempotent.
func (a *Authenticator) Logout() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.session = nil
	return a.store.Clear()
}

func (a *Authenticator) buildLocked(ctx context.Context, info session.LoginInfo) (*session.Session, error) {
	profile, locale := a.resolver.Resolve()

	builder, err := session.NewBuilder(a.client, profile, locale, a.dispensers)
	if err != nil {
		return nil, err
	}
	return builder.Build(ctx, info)
}

// adoptLocked persists the session and caches it. The cache is written only
// after the save succeeds, a failed save must not leave the facade serving
// state that will be gone after a restart.
func (a *Authenticator) adoptLocked(sess *session.Session) error {
	if err := a.store.Save(sess.LoginInfo()); err != nil {
		return err
	}
	a.session = sess
	return nil
}

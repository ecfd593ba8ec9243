package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurora-store/go-aurora/pkg/device"
)

type fakePlayClient struct {
	calls *[]string

	exchangeErr error
}

func (f *fakePlayClient) RegisterDevice(ctx context.Context, profile *device.Profile, locale string) (*CheckinResult, error) {
	*f.calls = append(*f.calls, "registerDevice")
	return &CheckinResult{
		GsfID:                         "3a5f19e2c1d407bb",
		DeviceCheckinConsistencyToken: "consistency-1",
	}, nil
}

func (f *fakePlayClient) ExchangeToken(ctx context.Context, email, aasToken string) (string, error) {
	*f.calls = append(*f.calls, "exchangeToken")
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "token-from-aas", nil
}

func (f *fakePlayClient) ExchangeCredentials(ctx context.Context, email, password, gsfID string) (string, error) {
	*f.calls = append(*f.calls, "exchangeCredentials")
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return "token-from-password", nil
}

func (f *fakePlayClient) UploadDeviceConfig(ctx context.Context, profile *device.Profile, gsfID, authToken string) (string, error) {
	*f.calls = append(*f.calls, "uploadDeviceConfig")
	return "upload-token-1", nil
}

type fakeDispenser struct {
	calls *[]string

	email string
	token string
}

func (f *fakeDispenser) RandomEmail(ctx context.Context) (string, error) {
	*f.calls = append(*f.calls, "randomEmail")
	return f.email, nil
}

func (f *fakeDispenser) Token(ctx context.Context, email string) (string, error) {
	*f.calls = append(*f.calls, "dispenserToken")
	return f.token, nil
}

func newTestBuilder(t *testing.T, client PlayClient, dispensers DispenserFactory) *Builder {
	t.Helper()

	profile, err := device.LoadDefaultProfile()
	require.NoError(t, err)

	builder, err := NewBuilder(client, profile, "en-US", dispensers)
	require.NoError(t, err)
	return builder
}

func TestNewBuilderValidatesInputs(t *testing.T) {
	profile, err := device.LoadDefaultProfile()
	require.NoError(t, err)

	var configErr *ConfigurationError

	_, err = NewBuilder(nil, profile, "", nil)
	require.ErrorAs(t, err, &configErr)

	var calls []string
	_, err = NewBuilder(&fakePlayClient{calls: &calls}, nil, "", nil)
	require.ErrorAs(t, err, &configErr)
}

func TestBuildRequiresCredentials(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	builder := newTestBuilder(t, client, nil)

	_, err := builder.Build(context.Background(), LoginInfo{})

	var configErr *ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Empty(t, calls, "a rejected configuration must not touch the network")
}

func TestBuildAnonymousFlow(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	disp := &fakeDispenser{calls: &calls, email: "foo@bar.com", token: "dispensed-token"}

	builder := newTestBuilder(t, client, func(string) Dispenser { return disp })

	sess, err := builder.Build(context.Background(), LoginInfo{
		TokenDispenserURL: "https://dispenser.example/mirror1",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"randomEmail", "registerDevice", "dispenserToken", "uploadDeviceConfig"}, calls)
	assert.Equal(t, "foo@bar.com", sess.Email)
	assert.Equal(t, "3a5f19e2c1d407bb", sess.GsfID)
	assert.Equal(t, "dispensed-token", sess.AuthToken)
	assert.Equal(t, "https://dispenser.example/mirror1", sess.TokenDispenserURL)
	assert.True(t, sess.Anonymous)
	assert.Equal(t, "consistency-1", sess.DeviceCheckinConsistencyToken)
	assert.Equal(t, "upload-token-1", sess.DeviceConfigToken)
}

func TestBuildAasFlow(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	builder := newTestBuilder(t, client, nil)

	sess, err := builder.Build(context.Background(), LoginInfo{
		Email:    "a@b.com",
		AasToken: "AAS123",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"registerDevice", "exchangeToken", "uploadDeviceConfig"}, calls)
	assert.Equal(t, "token-from-aas", sess.AuthToken)
	assert.False(t, sess.Anonymous)

	// The long-lived aas token must survive onto the session and into its
	// persistable snapshot, later rebuilds depend on it.
	assert.Equal(t, "AAS123", sess.AasToken)
	assert.Equal(t, "AAS123", sess.LoginInfo().AasToken)
}

func TestBuildPasswordFlow(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	builder := newTestBuilder(t, client, nil)

	sess, err := builder.Build(context.Background(), LoginInfo{
		Email:    "a@b.com",
		Password: "hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"registerDevice", "exchangeCredentials", "uploadDeviceConfig"}, calls)
	assert.Equal(t, "token-from-password", sess.AuthToken)
}

func TestBuildSkipsCheckinWhenRegistered(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	builder := newTestBuilder(t, client, nil)

	sess, err := builder.Build(context.Background(), LoginInfo{
		Email:    "a@b.com",
		AasToken: "AAS123",
		GsfID:    "cafe1234",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"exchangeToken"}, calls,
		"an already registered device must neither checkin nor upload config")
	assert.Equal(t, "cafe1234", sess.GsfID)
}

func TestBuildSkipsTokenFetchWhenPresent(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	builder := newTestBuilder(t, client, nil)

	sess, err := builder.Build(context.Background(), LoginInfo{
		AuthToken: "existing-token",
		GsfID:     "cafe1234",
	})
	require.NoError(t, err)

	assert.Empty(t, calls)
	assert.Equal(t, "existing-token", sess.AuthToken)
}

func TestBuildEmailResolutionFailure(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	disp := &fakeDispenser{calls: &calls, email: ""}

	builder := newTestBuilder(t, client, func(string) Dispenser { return disp })

	_, err := builder.Build(context.Background(), LoginInfo{
		TokenDispenserURL: "https://dispenser.example/mirror1",
	})

	var emailErr *EmailResolutionError
	require.ErrorAs(t, err, &emailErr)
	assert.Equal(t, "https://dispenser.example/mirror1", emailErr.DispenserURL)
	assert.Equal(t, []string{"randomEmail"}, calls)
}

func TestBuildKeepsExistingConsistencyToken(t *testing.T) {
	var calls []string
	client := &fakePlayClient{calls: &calls}
	builder := newTestBuilder(t, client, nil)

	sess, err := builder.Build(context.Background(), LoginInfo{
		Email:                         "a@b.com",
		AasToken:                      "AAS123",
		DeviceCheckinConsistencyToken: "carried-over",
	})
	require.NoError(t, err)

	// First write wins, the carried value is older than the checkin.
	assert.Equal(t, "carried-over", sess.DeviceCheckinConsistencyToken)
}

func TestBuildPassesTransportErrorsThrough(t *testing.T) {
	transportErr := errors.New("connection reset by peer")

	var calls []string
	client := &fakePlayClient{calls: &calls, exchangeErr: transportErr}
	builder := newTestBuilder(t, client, nil)

	_, err := builder.Build(context.Background(), LoginInfo{
		Email:    "a@b.com",
		AasToken: "AAS123",
	})
	require.ErrorIs(t, err, transportErr)
}

func TestLoginInfoSameAccount(t *testing.T) {
	a := LoginInfo{Email: "a@b.com", DeviceDefinition: "device-px3a"}
	b := LoginInfo{Email: "a@b.com", DeviceDefinition: "device-px3a", AuthToken: "tok"}
	assert.True(t, a.SameAccount(b))

	c := LoginInfo{Email: "a@b.com", DeviceDefinition: "device-op3t"}
	assert.False(t, a.SameAccount(c))

	anon1 := LoginInfo{Anonymous: true, Email: "x@dispenser", DeviceDefinition: "device-px3a"}
	anon2 := LoginInfo{Anonymous: true, Email: "y@dispenser", DeviceDefinition: "device-px3a"}
	assert.True(t, anon1.SameAccount(anon2))

	assert.False(t, LoginInfo{}.SameAccount(LoginInfo{}))
}

func TestLoginInfoHasCredentials(t *testing.T) {
	assert.False(t, LoginInfo{}.HasCredentials())
	assert.False(t, LoginInfo{Email: "a@b.com"}.HasCredentials())
	assert.False(t, LoginInfo{AuthToken: "tok"}.HasCredentials())

	assert.True(t, LoginInfo{Email: "a@b.com", Password: "p"}.HasCredentials())
	assert.True(t, LoginInfo{Email: "a@b.com", AasToken: "aas"}.HasCredentials())
	assert.True(t, LoginInfo{AuthToken: "tok", GsfID: "id"}.HasCredentials())
	assert.True(t, LoginInfo{TokenDispenserURL: "https://d.example"}.HasCredentials())
}

package gplay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xhttp "github.com/Jarijaas/go-tls-exposed/http"
	"github.com/gojektech/heimdall/v6/hystrix"
	log "github.com/sirupsen/logrus"

	"github.com/aurora-store/go-aurora/pkg/device"
	"github.com/aurora-store/go-aurora/pkg/session"
)

const clientSignature = "38918a453d07199354f8b19af05ec6562ced5788"

/*
Client implements the remote protocol endpoint over HTTP: device checkin,
token exchange and device config upload. Auth calls go through the
fingerprint-bypassing TLS client, everything else through a circuit-breaking
http client with bounded timeouts.
*/
type Client struct {
	httpClient *hystrix.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: hystrix.NewClient(
			hystrix.WithHTTPTimeout(15*time.Second),
			hystrix.WithMaxConcurrentRequests(10),
			hystrix.WithErrorPercentThreshold(20),
			hystrix.WithRetryCount(2),
		),
	}
}

// RegisterDevice performs a device checkin and returns the assigned gsfId.
func (c *Client) RegisterDevice(ctx context.Context, profile *device.Profile, locale string) (*session.CheckinResult, error) {
	log.Debugf("Checkin as %s (%s, sdk %d), locale %s",
		profile.UserReadableName(), profile.Fingerprint(), profile.SdkVer(), locale)

	body := encodeCheckinRequest(profile, locale)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, CheckinURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-protobuf")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("checkin error: %s", res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	resp, err := decodeCheckinResponse(data)
	if err != nil {
		return nil, err
	}
	if resp.androidID == 0 {
		return nil, fmt.Errorf("checkin response did not contain an android id, the device profile was likely rejected")
	}

	return &session.CheckinResult{
		GsfID:                         strconv.FormatUint(resp.androidID, 16),
		DeviceCheckinConsistencyToken: resp.consistencyToken,
	}, nil
}

// ExchangeToken trades (email, aasToken) for a fresh market auth token.
func (c *Client) ExchangeToken(ctx context.Context, email, aasToken string) (string, error) {
	params := url.Values{}
	params.Set("service", "oauth2:https://www.googleapis.com/auth/googleplay")
	params.Set("app", "com.android.vending")
	params.Set("Email", email)
	params.Set("Token", aasToken)
	params.Set("source", "android")
	params.Set("client_sig", clientSignature)
	params.Set("callerSig", clientSignature)
	params.Set("oauth2_foreground", "1")
	params.Set("token_request_options", "CAA4AVAB")
	params.Set("has_permission", "1")

	kvs, err := c.doAuthRequest(ctx, params)
	if err != nil {
		return "", err
	}

	if errorDesc, has := kvs["error"]; has {
		return "", &session.AuthDeclinedError{Reason: errorDesc}
	}

	token, has := kvs["auth"]
	if !has || token == "" {
		return "", fmt.Errorf("token exchange response did not contain an auth token: %v", kvs)
	}
	return token, nil
}

/*
ExchangeCredentials trades (email, password) for a market auth token. The
password is RSA-encrypted against the google public key, a WebLoginRequired
answer falls back to browser verification.
*/
func (c *Client) ExchangeCredentials(ctx context.Context, email, password, gsfID string) (string, error) {
	encryptedPasswd, err := encryptCredentials(email, password, nil)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("service", "ac2dm")
	params.Set("Email", email)
	params.Set("EncryptedPasswd", encryptedPasswd)
	params.Set("add_account", "1")

	kvs, err := c.doAuthRequest(ctx, params)
	if err != nil {
		return "", err
	}

	var masterToken string

	if errorDesc, has := kvs["error"]; has {
		if kvs["info"] != "WebLoginRequired" {
			return "", &session.AuthDeclinedError{Reason: errorDesc}
		}

		log.Infof("Verification required, opening browser: %s", kvs["url"])

		oauthCode, err := doBrowserVerification(ctx, kvs["url"])
		if err != nil {
			return "", err
		}

		masterToken, err = c.exchangeOAuthCode(ctx, email, gsfID, oauthCode)
		if err != nil {
			return "", err
		}
	} else {
		has := false
		masterToken, has = kvs["token"]
		if !has {
			return "", fmt.Errorf("auth response did not contain a master token: %v", kvs)
		}
	}

	return c.subToken(ctx, masterToken)
}

// subToken trades a master token for the androidmarket sub token.
func (c *Client) subToken(ctx context.Context, masterToken string) (string, error) {
	params := url.Values{}
	params.Set("service", "androidmarket")
	params.Set("app", "com.android.vending")
	params.Set("Token", masterToken)
	params.Set("source", "android")
	params.Set("client_sig", clientSignature)
	params.Set("callerSig", clientSignature)
	params.Set("has_permission", "1")

	kvs, err := c.doAuthRequest(ctx, params)
	if err != nil {
		return "", err
	}

	if errorDesc, has := kvs["error"]; has {
		return "", &session.AuthDeclinedError{Reason: errorDesc}
	}

	token, has := kvs["auth"]
	if !has || token == "" {
		return "", fmt.Errorf("sub token response did not contain an auth token: %v", kvs)
	}
	return token, nil
}

func (c *Client) exchangeOAuthCode(ctx context.Context, email, gsfID, code string) (string, error) {
	params := url.Values{}
	params.Set("androidId", gsfID)
	params.Set("Email", email)
	params.Set("Token", "oauth2_"+code)
	params.Set("service", "ac2dm")
	params.Set("add_account", "1")
	params.Set("get_accountid", "1")
	params.Set("ACCESS_TOKEN", "1")
	params.Set("callerPkg", "com.google.android.gms")
	params.Set("callerSig", clientSignature)

	kvs, err := c.doAuthRequest(ctx, params)
	if err != nil {
		return "", err
	}

	if token, has := kvs["token"]; has {
		return token, nil
	}
	return "", fmt.Errorf("oauth response did not contain a master token: %v", kvs)
}

func (c *Client) doAuthRequest(ctx context.Context, params url.Values) (map[string]string, error) {
	httpClient := createAuthHTTPClient()

	req, err := xhttp.NewRequest("POST", AuthURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	kvs := parseKeyValues(res.Body)
	log.Debugf("Auth endpoint returned keys: %v", keysOf(kvs))
	return kvs, nil
}

// UploadDeviceConfig pushes the device configuration for a freshly minted
// gsfId. Must run after the auth token is available and before normal use.
func (c *Client) UploadDeviceConfig(ctx context.Context, profile *device.Profile, gsfID, authToken string) (string, error) {
	body := encodeUploadDeviceConfigRequest(profile)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, UploadDeviceConfigURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-protobuf")
	req.Header.Set("X-DFE-Device-Id", gsfID)
	req.Header.Set("Authorization", fmt.Sprintf("GoogleLogin auth=%s", authToken))
	req.Header.Set("User-Agent", dfeUserAgent(profile))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("device config upload error: %s", res.Status)
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return decodeUploadDeviceConfigResponse(data)
}

func dfeUserAgent(profile *device.Profile) string {
	return fmt.Sprintf(
		"Android-Finsky/8.5.39 (api=3,versionCode=%d,sdk=%d,device=%s,hardware=%s,product=%s)",
		profile.VendingVersion(), profile.SdkVer(), profile.Device(),
		profile.Hardware(), profile.Product())
}

// log only which keys came back, values may contain tokens
func keysOf(kvs map[string]string) []string {
	keys := make([]string, 0, len(kvs))
	for key := range kvs {
		keys = append(keys, key)
	}
	return keys
}

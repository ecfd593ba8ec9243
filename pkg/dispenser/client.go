package dispenser

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gojektech/heimdall/v6/hystrix"
)

/*
Client talks to a token dispenser mirror, a third-party service handing out
anonymous email/token pairs. Responses are plain text bodies.
*/
type Client struct {
	baseURL    string
	httpClient *hystrix.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: hystrix.NewClient(
			hystrix.WithHTTPTimeout(10*time.Second),
			hystrix.WithMaxConcurrentRequests(10),
			hystrix.WithErrorPercentThreshold(20),
			hystrix.WithRetryCount(2),
		),
	}
}

// RandomEmail asks the dispenser for a fresh anonymous email.
func (c *Client) RandomEmail(ctx context.Context) (string, error) {
	return c.getText(ctx, c.baseURL+"/api/email")
}

// Token fetches an auth token for a previously dispensed email.
func (c *Client) Token(ctx context.Context, email string) (string, error) {
	return c.getText(ctx, c.baseURL+"/api/token/email/"+url.PathEscape(email))
}

func (c *Client) getText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token dispenser returned %s", res.Status)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

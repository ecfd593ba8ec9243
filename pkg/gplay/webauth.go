package gplay

import (
	"context"
	"net/http"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	log "github.com/sirupsen/logrus"
)

var execAllocatorOptions = [...]chromedp.ExecAllocatorOption{
	chromedp.NoFirstRun,
	chromedp.NoDefaultBrowserCheck,

	// After Puppeteer's default behavior.
	chromedp.Flag("disable-background-networking", true),
	chromedp.Flag("enable-features", "NetworkService,NetworkServiceInProcess"),
	chromedp.Flag("disable-background-timer-throttling", true),
	chromedp.Flag("disable-backgrounding-occluded-windows", true),
	chromedp.Flag("disable-breakpad", true),
	chromedp.Flag("disable-client-side-phishing-detection", true),
	chromedp.Flag("disable-default-apps", true),
	chromedp.Flag("disable-dev-shm-usage", true),
	chromedp.Flag("disable-extensions", true),
	chromedp.Flag("disable-features", "site-per-process,Translate,BlinkGenPropertyTrees"),
	chromedp.Flag("disable-hang-monitor", true),
	chromedp.Flag("disable-ipc-flooding-protection", true),
	chromedp.Flag("disable-popup-blocking", true),
	chromedp.Flag("disable-prompt-on-repost", true),
	chromedp.Flag("disable-renderer-backgrounding", true),
	chromedp.Flag("disable-sync", true),
	chromedp.Flag("force-color-profile", "srgb"),
	chromedp.Flag("metrics-recording-only", true),
	chromedp.Flag("safebrowsing-disable-auto-update", true),
	chromedp.Flag("enable-automation", true),
	chromedp.Flag("password-store", "basic"),
	chromedp.Flag("use-mock-keychain", true),
}

/*
doBrowserVerification opens the WebLoginRequired url in a browser and waits
until the login flow sets the oauth_code cookie.
*/
func doBrowserVerification(ctx context.Context, url string) (string, error) {
	verificationCompleted := make(chan string, 1)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, execAllocatorOptions[:]...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Printf))
	defer cancel()

	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		switch ev := ev.(type) {

		case *network.EventResponseReceived:
			resp := ev.Response

			if len(resp.Headers) != 0 {
				cookies := resp.Headers["set-cookie"]
				if cookies != nil {
					rawCookies := cookies.(string)

					header := http.Header{}
					header.Add("Cookie", rawCookies)
					req := http.Request{Header: header}
					for _, cookie := range req.Cookies() {
						if cookie.Name == "oauth_code" {
							verificationCompleted <- cookie.Value
						}
					}
				}
			}
		}
	})

	if err := chromedp.Run(taskCtx, chromedp.Navigate(url)); err != nil {
		return "", err
	}

	select {
	case code := <-verificationCompleted:
		return code, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

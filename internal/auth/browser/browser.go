// Package browser authorizes through a real Chromium window driven by
// playwright.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/components/telemetry"

	"github.com/playwright-community/playwright-go"
)

const report_authorizer_cleanup = "authorizer.cleanup"

type Authorizer struct {
	// Headless hides the window, only useful when something else fills in
	// the sign in form.
	Headless bool

	tel telemetry.API
}

func NewAuthorizer(headless bool, tel telemetry.API) *Authorizer {
	return &Authorizer{
		Headless: headless,
		tel:      telemetry.NewScopedAPI("browser", tel),
	}
}

// IsCallback reports whether target is a navigation to the callback scheme.
func IsCallback(target, callbackScheme string) bool {
	return strings.HasPrefix(strings.ToLower(target), strings.ToLower(callbackScheme)+":")
}

// Start launches Chromium on authURL. The browser never loads the callback
// url (nothing serves its scheme); the attempt to request it is enough to
// complete the flow. Closing the window cancels it.
func (a *Authorizer) Start(ctx context.Context, authURL, callbackScheme string, complete func(*url.URL, error)) error {
	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(a.Headless),
	})
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch chromium: %w", err)
	}
	page, err := browser.NewPage()
	if err != nil {
		browser.Close()
		pw.Stop()
		return fmt.Errorf("open page: %w", err)
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func(callback *url.URL, err error) {
		once.Do(func() {
			complete(callback, err)
			close(done)
		})
	}
	onRequest := func(req playwright.Request) {
		if !IsCallback(req.URL(), callbackScheme) {
			return
		}
		callback, err := url.Parse(req.URL())
		finish(callback, err)
	}

	page.OnRequest(onRequest)
	page.OnRequestFailed(onRequest)
	page.OnClose(func(playwright.Page) {
		finish(nil, apperr.ErrAuthCancelled)
	})
	browser.OnDisconnected(func(playwright.Browser) {
		finish(nil, apperr.ErrAuthCancelled)
	})

	go func() {
		select {
		case <-done:
		case <-ctx.Done():
			finish(nil, ctx.Err())
		}
		if err := browser.Close(); err != nil {
			a.tel.ReportWarning(report_authorizer_cleanup, err)
		}
		if err := pw.Stop(); err != nil {
			a.tel.ReportWarning(report_authorizer_cleanup, err)
		}
	}()

	if _, err := page.Goto(authURL); err != nil {
		select {
		case <-done:
			// navigation was aborted by the callback itself
			return nil
		default:
		}
		finish(nil, err)
		return fmt.Errorf("open %s: %w", authURL, err)
	}
	return nil
}

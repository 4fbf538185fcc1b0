// Package transport sends requests to the inventory backend and classifies
// what comes back.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"inventory-adapter/internal/apperr"
	"inventory-adapter/internal/assert"
	"inventory-adapter/internal/components/telemetry"
	"inventory-adapter/internal/config"
	"inventory-adapter/internal/session"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_client_send     = "client.send"
	report_client_classify = "client.classify"
)

const (
	DefaultLoginPath = "/login"
	snippetLength    = 200
	acceptHeader     = "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8"
)

type Options struct {
	BaseURL        string
	UserAgent      string
	ConnectTimeout time.Duration
	TotalTimeout   time.Duration
	// RequestsPerSecond <= 0 disables rate limiting.
	RequestsPerSecond float64
	CloudflareBypass  bool
	LoginPath         string
	LoginMarkers      []string
}

func OptionsFromConfig(c config.Config) Options {
	return Options{
		BaseURL:           c.BaseURL,
		UserAgent:         c.UserAgent,
		ConnectTimeout:    c.ConnectTimeout(),
		TotalTimeout:      c.TotalTimeout(),
		RequestsPerSecond: c.RequestsPerSecond,
		CloudflareBypass:  c.CloudflareBypass,
		LoginMarkers:      c.LoginMarkers,
	}
}

// Client is the only thing that talks to the backend. It never follows
// redirects: a redirect is an answer in itself (a login that succeeded, a
// session that expired).
type Client struct {
	base         *url.URL
	http         *resty.Client
	store        session.Store
	loginPath    string
	loginMarkers []string

	tel telemetry.API
}

func New(opts Options, store session.Store, tel telemetry.API) (*Client, error) {
	assert.NotNil(store, "session store")
	assert.NotNil(tel, "telemetry")

	tel = telemetry.NewScopedAPI("transport", tel)

	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", apperr.ErrInvalidURL, opts.BaseURL)
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = 30 * time.Second
	}
	if opts.TotalTimeout <= 0 {
		opts.TotalTimeout = 60 * time.Second
	}
	if opts.LoginPath == "" {
		opts.LoginPath = DefaultLoginPath
	}

	httpClient := resty.New()
	httpClient.SetBaseURL(strings.TrimSuffix(base.String(), "/"))
	httpClient.SetTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: opts.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout:   opts.ConnectTimeout,
		ResponseHeaderTimeout: opts.ConnectTimeout,
		MaxIdleConnsPerHost:   8,
		IdleConnTimeout:       90 * time.Second,
	})
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	// the session is threaded through every request explicitly, a jar would
	// let a stale cookie ride along
	httpClient.SetCookieJar(nil)
	httpClient.SetRedirectPolicy(observeRedirects())
	httpClient.SetTimeout(opts.TotalTimeout)
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	httpClient.SetHeader("accept", acceptHeader)

	if opts.RequestsPerSecond > 0 {
		burst := max(int(opts.RequestsPerSecond), 1)
		rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
	}

	telemetry.InstrumentResty(httpClient, tel)

	markers := make([]string, 0, len(opts.LoginMarkers))
	for _, m := range opts.LoginMarkers {
		if m = strings.TrimSpace(m); m != "" {
			markers = append(markers, strings.ToLower(m))
		}
	}

	return &Client{
		base:         base,
		http:         httpClient,
		store:        store,
		loginPath:    opts.LoginPath,
		loginMarkers: markers,
		tel:          tel,
	}, nil
}

// URL resolves a backend path (with an optional query) against the base url.
func (c *Client) URL(path string, query url.Values) string {
	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) Store() session.Store {
	return c.store
}

// Token returns the token of the current session, or ErrUnauthorized when
// nobody is logged in. Operations that issue several requests take it once
// and pass it along in Request.Token.
func (c *Client) Token() (string, error) {
	s, ok := c.store.Get()
	if !ok || session.CookieValue(s.Token) == "" {
		return "", apperr.ErrUnauthorized
	}
	return s.Token, nil
}

// Send issues a single request. It is never retried.
//
// An authenticated request without a token fails with ErrUnauthorized
// before any I/O. A response that says the session is no longer valid fails
// with ErrUnauthorized and clears the session store.
func (c *Client) Send(ctx context.Context, req Request) (*Response, error) {
	token := req.Token
	if req.Authenticated && token == "" {
		current, err := c.Token()
		if err != nil {
			return nil, err
		}
		token = current
	}
	if req.Authenticated && session.CookieValue(token) == "" {
		return nil, apperr.ErrUnauthorized
	}

	redirects := &redirectCookies{}
	ctx = withRedirectCookies(ctx, redirects)

	r := c.http.R().SetContext(ctx)
	if token != "" {
		r.SetHeader("cookie", session.CookieHeader(token))
	}
	if len(req.Query) > 0 {
		r.SetQueryParamsFromValues(req.Query)
	}
	if err := req.encodeBody(r); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	res, err := r.Execute(method, req.Path)
	if err != nil {
		c.tel.ReportBroken(report_client_send, fmt.Errorf("%s %s: %w", method, req.Path, err))
		return nil, err
	}

	response := newResponse(res, redirects.values())
	err = c.classify(response)
	if errors.Is(err, apperr.ErrUnauthorized) && req.Authenticated {
		c.store.Clear()
	}
	if err != nil {
		c.tel.ReportDebug(report_client_classify, method, req.Path, response.Status, err)
		return nil, err
	}
	return response, nil
}

func (c *Client) classify(res *Response) error {
	switch {
	case res.Status >= 300 && res.Status < 400:
		if c.isLoginLocation(res.Location) {
			return apperr.ErrUnauthorized
		}
		return nil
	case res.Status == http.StatusUnauthorized || res.Status == http.StatusForbidden:
		return apperr.ErrUnauthorized
	case res.Status < 200 || res.Status >= 400:
		return &apperr.ServerError{
			Status: res.Status,
			Detail: apperr.Snippet(strings.TrimSpace(string(res.Body)), snippetLength),
		}
	}
	if c.IsLoginPage(res.Body) {
		return apperr.ErrUnauthorized
	}
	return nil
}

// isLoginLocation matches any redirect whose path contains the login path,
// so /auth/login and /login.html count as well. The query is ignored.
func (c *Client) isLoginLocation(location string) bool {
	if location == "" {
		return false
	}
	path := location
	if u, err := url.Parse(location); err == nil {
		path = u.Path
	}
	return strings.Contains(strings.ToLower(path), strings.ToLower(c.loginPath))
}

// IsLoginPage reports whether body carries one of the login page markers.
// The backend sometimes answers an expired session with a 200 and the login
// form instead of a redirect.
func (c *Client) IsLoginPage(body []byte) bool {
	lowered := strings.ToLower(string(body))
	for _, marker := range c.loginMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

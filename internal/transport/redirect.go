package transport

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-resty/resty/v2"
)

// redirectCookies collects the Set-Cookie headers of redirect responses for
// a single Send. Some clients consume a redirect before its headers can be
// inspected, the redirect policy sees every one of them first.
type redirectCookies struct {
	mu      sync.Mutex
	cookies []string
}

func (r *redirectCookies) add(values []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cookies = append(r.cookies, values...)
}

func (r *redirectCookies) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.cookies...)
}

type redirectCookiesKeyType int

var redirectCookiesKey redirectCookiesKeyType

func withRedirectCookies(ctx context.Context, r *redirectCookies) context.Context {
	return context.WithValue(ctx, redirectCookiesKey, r)
}

// observeRedirects records the cookies of a redirect and stops there, the
// redirect response is returned to the caller as is.
func observeRedirects() resty.RedirectPolicy {
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		collector, ok := req.Context().Value(redirectCookiesKey).(*redirectCookies)
		if ok && req.Response != nil {
			collector.add(req.Response.Header.Values("Set-Cookie"))
		}
		return http.ErrUseLastResponse
	})
}

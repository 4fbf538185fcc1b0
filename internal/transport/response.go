package transport

import (
	"net/http"
	"sort"
	"strings"

	"inventory-adapter/internal/extract"

	"github.com/go-resty/resty/v2"
)

type Response struct {
	Status   int
	Header   http.Header
	Body     []byte
	Location string
	// Cookies holds the raw Set-Cookie values of the response and of any
	// redirect observed on the way to it.
	Cookies []string
}

func newResponse(res *resty.Response, redirectCookies []string) *Response {
	header := res.Header()
	cookies := append([]string{}, header.Values("Set-Cookie")...)
	for _, c := range redirectCookies {
		if !contains(cookies, c) {
			cookies = append(cookies, c)
		}
	}
	return &Response{
		Status:   res.StatusCode(),
		Header:   header,
		Body:     res.Body(),
		Location: header.Get("Location"),
		Cookies:  cookies,
	}
}

func (r *Response) Redirected() bool {
	return r.Status >= 300 && r.Status < 400
}

func (r *Response) Page() (*extract.Page, error) {
	return extract.NewPage(r.Body)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/mazen160/go-random"
)

type Request struct {
	Method string
	Path   string
	Query  url.Values

	// at most one of Form, Multipart and JSON is set
	Form      url.Values
	Multipart *Multipart
	JSON      any

	// Token overrides the token of the current session.
	Token         string
	Authenticated bool
}

func Get(path string, query url.Values) Request {
	return Request{Method: "GET", Path: path, Query: query, Authenticated: true}
}

func PostForm(path string, form url.Values) Request {
	return Request{Method: "POST", Path: path, Form: form, Authenticated: true}
}

// WithToken returns the request carrying token instead of the token of the
// current session.
func (r Request) WithToken(token string) Request {
	r.Token = token
	return r
}

type File struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

type Multipart struct {
	Fields url.Values
	// field order of the encoded body, fields missing from it follow in
	// sorted order
	Order []string
	Files []File
}

const boundaryPrefix = "InventoryAdapterBoundary"

func (m *Multipart) encode() ([]byte, string, error) {
	suffix, err := random.String(24)
	if err != nil {
		return nil, "", fmt.Errorf("multipart boundary: %w", err)
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.SetBoundary(boundaryPrefix + suffix); err != nil {
		return nil, "", err
	}

	written := map[string]bool{}
	writeField := func(name string) error {
		if written[name] {
			return nil
		}
		written[name] = true
		for _, value := range m.Fields[name] {
			if err := w.WriteField(name, value); err != nil {
				return err
			}
		}
		return nil
	}
	for _, name := range m.Order {
		if err := writeField(name); err != nil {
			return nil, "", err
		}
	}
	for _, name := range sortedKeys(m.Fields) {
		if err := writeField(name); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(
			`form-data; name="%s"; filename="%s"`,
			escapeQuotes(f.Field), escapeQuotes(f.Name),
		))
		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), w.FormDataContentType(), nil
}

func (r Request) encodeBody(req *resty.Request) error {
	switch {
	case r.Multipart != nil:
		body, contentType, err := r.Multipart.encode()
		if err != nil {
			return err
		}
		req.SetHeader("content-type", contentType)
		req.SetBody(body)
	case r.JSON != nil:
		req.SetHeader("content-type", "application/json")
		req.SetBody(r.JSON)
	case r.Form != nil:
		req.SetHeader("content-type", "application/x-www-form-urlencoded")
		req.SetBody(r.Form.Encode())
	}
	return nil
}

package intake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Defaults applied when the downstream response omits the header.
const (
	DefaultContentType        = "application/pdf"
	DefaultContentDisposition = "attachment; filename=document.pdf"
)

// DefaultTimeout bounds one forwarded request.
const DefaultTimeout = 60 * time.Second

// Response is a downstream response relayed to the caller.
type Response struct {
	StatusCode         int
	Body               []byte
	ContentType        string
	ContentDisposition string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Forwarder posts request bodies to the downstream PDF service unchanged.
type Forwarder struct {
	URL        *url.URL
	HTTPClient *http.Client
	newID      func() string
}

// NewForwarder creates a forwarder for rawURL. A nil client gets DefaultTimeout.
func NewForwarder(rawURL string, client *http.Client) (*Forwarder, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid forward URL %q: %w", rawURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid forward URL %q: scheme and host are required", rawURL)
	}
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &Forwarder{URL: u, HTTPClient: client, newID: uuid.NewString}, nil
}

// Forward posts body with the caller's Authorization header, if any. Non-2xx
// responses are returned, not treated as errors; only transport failures
// produce *UpstreamError.
func (f *Forwarder) Forward(ctx context.Context, body []byte, authorization string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.URL.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &UpstreamError{URL: f.URL.String(), Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", f.newID())
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{URL: f.URL.String(), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{URL: f.URL.String(), Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	out := &Response{
		StatusCode:         resp.StatusCode,
		Body:               data,
		ContentType:        resp.Header.Get("Content-Type"),
		ContentDisposition: resp.Header.Get("Content-Disposition"),
	}
	if out.ContentType == "" {
		out.ContentType = DefaultContentType
	}
	if out.ContentDisposition == "" {
		out.ContentDisposition = DefaultContentDisposition
	}
	return out, nil
}

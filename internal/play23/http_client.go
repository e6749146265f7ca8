package play23

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/luiso2/betbridge/internal/pkg/config"
)

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// httpClient is the cookie-bearing transport for one upstream session.
// The jar is what makes the session: upstream issues an opaque cookie at
// login and recognizes the caller by nothing else.
type httpClient struct {
	client    *http.Client
	baseURL   string
	userAgent string
	headers   map[string]string
}

// upstreamResponse carries what the protocol layers need: the raw body, the
// post-redirect URL (login classification) and the declared content type
// (parser dispatch).
type upstreamResponse struct {
	Body        []byte
	FinalURL    string
	ContentType string
	StatusCode  int
}

func newHTTPClient(cfg *config.UpstreamConfig) (*httpClient, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &httpClient{
		client: &http.Client{
			Jar:     jar,
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		headers:   cfg.Headers,
	}, nil
}

func (c *httpClient) get(ctx context.Context, path string, query url.Values, headers map[string]string) (*upstreamResponse, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, headers)
}

func (c *httpClient) postForm(ctx context.Context, path string, form url.Values, headers map[string]string) (*upstreamResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, headers)
}

func (c *httpClient) do(req *http.Request, headers map[string]string) (*upstreamResponse, error) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", req.URL.Path, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("unexpected status code %d from %s", resp.StatusCode, req.URL.Path)
	}

	finalURL := ""
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &upstreamResponse{
		Body:        body,
		FinalURL:    finalURL,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// xhrHeaders marks a request the way the upstream frontend does for its
// helper endpoints.
func xhrHeaders(accept string) map[string]string {
	h := map[string]string{"X-Requested-With": "XMLHttpRequest"}
	if accept != "" {
		h["Accept"] = accept
	}
	return h
}

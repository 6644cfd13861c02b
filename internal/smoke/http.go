package smoke

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync/atomic"
	"time"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 4 << 20

// httpClient wraps http.Client with a base URL and a request counter.
type httpClient struct {
	client   *http.Client
	baseURL  string
	requests atomic.Int64
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *httpClient) do(ctx context.Context, method, path, contentType string, body io.Reader, header http.Header) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range header {
		req.Header[k] = v
	}

	c.requests.Add(1)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w", method, path, err)
	}
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// get performs a GET request.
func (c *httpClient) get(ctx context.Context, path string) (*response, error) {
	return c.do(ctx, http.MethodGet, path, "", http.NoBody, nil)
}

// postJSON posts raw JSON bytes.
func (c *httpClient) postJSON(ctx context.Context, path string, body []byte) (*response, error) {
	return c.do(ctx, http.MethodPost, path, "application/json", bytes.NewReader(body), nil)
}

// postFile posts content as the multipart field "file".
func (c *httpClient) postFile(ctx context.Context, path, filename string, content []byte) (*response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := fw.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, mw.FormDataContentType(), &buf, nil)
}

// preflight sends a CORS preflight for path.
func (c *httpClient) preflight(ctx context.Context, path, origin, method string) (*response, error) {
	h := http.Header{}
	h.Set("Origin", origin)
	h.Set("Access-Control-Request-Method", method)
	h.Set("Access-Control-Request-Headers", "content-type")
	return c.do(ctx, http.MethodOptions, path, "", http.NoBody, h)
}

// expectStatus returns ErrUnexpected when r.status is not want.
func expectStatus(r *response, want int) error {
	if r.status != want {
		return fmt.Errorf("%w: status %d, want %d: %s", ErrUnexpected, r.status, want, truncate(r.body))
	}
	return nil
}

func truncate(b []byte) string {
	const limit = 200
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}

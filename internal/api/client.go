package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artisania/storefront/pkg/credentials"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL        string `json:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

const defaultTimeout = 10 * time.Second

// Client talks to the marketplace REST backend. Every request carries a JSON
// content type, a correlation id and, when the credential provider holds one,
// a bearer token. Each request runs under its own deadline; hitting it surfaces
// as KindTimeout, distinct from a network failure.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	creds      credentials.Provider
	log        *zap.Logger
}

func New(cfg Config, creds credentials.Provider, log *zap.Logger) *Client {
	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
		creds:      creds,
		log:        log,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, "", out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, body, out)
}

// Delete sends an optional JSON body; the cart removal endpoint identifies the
// line by body fields rather than by path.
func (c *Client) Delete(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, body, out)
}

// PostAuthorized issues a POST with an explicit bearer token, bypassing the
// credential provider. Needed for the refresh flow, which authenticates with
// the refresh token instead of the access token.
func (c *Client) PostAuthorized(ctx context.Context, path, bearer string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return wrapRequest(http.MethodPost, path, err)
	}
	return c.send(ctx, http.MethodPost, path, nil, payload, "application/json", bearer, out)
}

// FilePart is one file entry of a multipart form.
type FilePart struct {
	Field    string
	Filename string
	Reader   io.Reader
}

// Upload submits a multipart form with one file part plus extra string fields.
// Content type is set by the multipart writer, not forced to JSON.
func (c *Client) Upload(ctx context.Context, path, field, filename string, file io.Reader, extra map[string]string, out any) error {
	return c.PostForm(ctx, path, []FilePart{{Field: field, Filename: filename, Reader: file}}, extra, out)
}

// PostForm submits a multipart form with any number of file parts and string
// fields.
func (c *Client) PostForm(ctx context.Context, path string, files []FilePart, fields map[string]string, out any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return wrapRequest(http.MethodPost, path, err)
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return wrapRequest(http.MethodPost, path, err)
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return wrapRequest(http.MethodPost, path, err)
		}
	}
	if err := writer.Close(); err != nil {
		return wrapRequest(http.MethodPost, path, err)
	}

	return c.send(ctx, http.MethodPost, path, nil, &buf, writer.FormDataContentType(), c.creds.AccessToken(), out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	payload, err := encodeBody(body)
	if err != nil {
		return wrapRequest(method, path, err)
	}
	return c.do(ctx, method, path, nil, payload, "application/json", out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	return c.send(ctx, method, path, query, body, contentType, c.creds.AccessToken(), out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType, bearer string, out any) error {
	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return wrapRequest(method, path, err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	} else if body == nil && method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return wrapRequest(method, path, c.transportError(err, requestID))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		apiErr := errorFromStatus(resp.StatusCode, strings.TrimSpace(string(text)), requestID)
		c.log.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", requestID))
		return wrapRequest(method, path, apiErr)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return wrapRequest(method, path, c.transportError(err, requestID))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return wrapRequest(method, path, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *Client) transportError(err error, requestID string) *Error {
	kind := KindNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, RequestID: requestID}
}

func encodeBody(body any) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}

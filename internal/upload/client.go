// Package upload sends user-selected document files to the ingestion
// endpoint as a single multipart POST. One request per action: no retry,
// no pooling, and failures are reported as plain errors for the caller
// to log and ignore.
package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/quillchat/quill/internal/log"
)

// Sentinel errors for Go-idiomatic checking with errors.Is().
var (
	ErrEndpointInvalid = errors.New("invalid upload endpoint")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrRateLimited     = errors.New("upload rate limit exceeded")
	ErrUploadFailed    = errors.New("upload failed")
)

// formField is the multipart field name the ingestion endpoint expects.
const formField = "file"

// responseBodyLimit caps how much of the response body is read.
// The body is consumed only for logging, so 64KB is plenty.
const responseBodyLimit = 64 * 1024

// Default token bucket for upload throttling: one upload per 2 seconds
// with a small initial burst. Uploads are user-triggered, so this only
// guards against accidental rapid-fire submissions.
const (
	defaultRate  = 0.5
	defaultBurst = 3
)

// documentExts lists the accepted document file extensions.
var documentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
}

// Allowed reports whether the file at path has an accepted document
// extension. Matching is case-insensitive.
func Allowed(path string) bool {
	return documentExts[strings.ToLower(filepath.Ext(path))]
}

// Result carries the endpoint's response. The decoded JSON body is kept
// only so callers can log it; no schema is relied upon.
type Result struct {
	StatusCode int
	Response   map[string]any
}

// Client uploads documents to a fixed endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	limiter  *rate.Limiter
	tracer   trace.Tracer
	logger   log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (for tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit overrides the upload token bucket.
// r is tokens refilled per second, burst the maximum (and initial) tokens.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// NewClient creates an upload client for the given endpoint URL.
// The endpoint must be an absolute http or https URL.
func NewClient(endpoint string, logger log.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEndpointInvalid, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrEndpointInvalid, endpoint)
	}
	if logger == nil {
		return nil, errors.New("upload.NewClient: logger is required")
	}

	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 2 * time.Minute},
		limiter:  rate.NewLimiter(rate.Limit(defaultRate), defaultBurst),
		tracer:   otel.Tracer("quill/upload"),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Upload sends the file at path as a multipart POST and returns the
// endpoint's response. The caller decides whether a failure matters;
// this client never retries.
func (c *Client) Upload(ctx context.Context, path string) (*Result, error) {
	if !Allowed(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(path))
	}
	if !c.limiter.Allow() {
		return nil, ErrRateLimited
	}

	fileName := filepath.Base(path)
	ctx, span := c.tracer.Start(ctx, "upload.document",
		trace.WithAttributes(attribute.String("upload.file", fileName)))
	defer span.End()

	data, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return nil, fmt.Errorf("reading document %s: %w", path, err)
	}
	span.SetAttributes(attribute.Int("upload.bytes", len(data)))

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(formField, fileName)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("creating upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return nil, fmt.Errorf("posting document: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	result := &Result{StatusCode: resp.StatusCode}
	// Body is consumed only for logging; a malformed body is not an error.
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyLimit)).Decode(&result.Response); err != nil {
		c.logger.Debug("upload response body not JSON", "error", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, resp.Status)
		return result, fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	c.logger.Info("document uploaded", "file", fileName, "status", resp.StatusCode, "response", result.Response)
	return result, nil
}

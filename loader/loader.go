// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package loader fetches timeplot data from http(s) URLs and local files.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/afero"
	"golang.org/x/net/html/charset"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// ErrUnsupportedScheme is returned for URLs that are neither http(s) nor
// file URLs or plain paths.
var ErrUnsupportedScheme = errors.New("loader: unsupported URL scheme")

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("loader: GET %s: %s", e.URL, e.Status)
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs sets the filesystem for paths and file URLs. The default is the
// OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(l *Loader) {
		l.fs = fs
	}
}

// WithLimiter throttles fetches.
func WithLimiter(lim *rate.Limiter) Option {
	return func(l *Loader) {
		l.limiter = lim
	}
}

// WithRetryMax sets the number of HTTP retries.
func WithRetryMax(n int) Option {
	return func(l *Loader) {
		l.client.RetryMax = n
	}
}

// WithRetryWait sets the bounds of the HTTP retry backoff.
func WithRetryWait(lo, hi time.Duration) Option {
	return func(l *Loader) {
		l.client.RetryWaitMin, l.client.RetryWaitMax = lo, hi
	}
}

// WithTransport sets the HTTP transport.
func WithTransport(t http.RoundTripper) Option {
	return func(l *Loader) {
		l.client.HTTPClient.Transport = t
	}
}

// WithLogger sets the logger for fetches and HTTP retries.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// Loader fetches documents. Concurrent fetches of the same URL share one
// request.
//
// Loader is safe for concurrent use.
type Loader struct {
	client  *retryablehttp.Client
	fs      afero.Fs
	limiter *rate.Limiter
	group   singleflight.Group
	logger  *slog.Logger
}

// New returns a Loader.
func New(opts ...Option) *Loader {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	l := &Loader{
		client: client,
		fs:     afero.NewOsFs(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.client.Logger = slog.NewLogLogger(l.logger.Handler(), slog.LevelDebug)
	return l
}

// Fetch returns the document at rawURL decoded to UTF-8. The encoding is
// taken from the Content-Type header, or sniffed from the content.
func (l *Loader) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	return l.do(ctx, rawURL, true)
}

// FetchRaw returns the document at rawURL as served, for formats that
// declare their own encoding.
func (l *Loader) FetchRaw(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	return l.do(ctx, rawURL, false)
}

func (l *Loader) do(ctx context.Context, rawURL string, decode bool) (io.ReadCloser, error) {
	key := "raw:" + rawURL
	if decode {
		key = "text:" + rawURL
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("loader: %s: %w", rawURL, err)
	}

	// The shared fetch outlives a canceled caller; the HTTP client timeout
	// bounds it.
	flight := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		return l.fetch(flight, rawURL, decode)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("loader: %s: %w", rawURL, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			l.logger.Debug("loader: shared fetch", "url", rawURL)
		}
		return io.NopCloser(bytes.NewReader(res.Val.([]byte))), nil
	}
}

func (l *Loader) fetch(ctx context.Context, rawURL string, decode bool) ([]byte, error) {
	if l.limiter != nil {
		if err := l.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("loader: %s: %w", rawURL, err)
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}

	start := time.Now()
	var b []byte
	switch u.Scheme {
	case "http", "https":
		b, err = l.fetchHTTP(ctx, rawURL, decode)
	case "file":
		b, err = l.readFile(u.Path, decode)
	case "":
		b, err = l.readFile(rawURL, decode)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	if err != nil {
		return nil, err
	}
	l.logger.Debug("loader: fetched", "url", rawURL, "bytes", len(b), "elapsed", time.Since(start))
	return b, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string, decode bool) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: GET %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var r io.Reader = resp.Body
	if decode {
		if r, err = charset.NewReader(resp.Body, resp.Header.Get("Content-Type")); err != nil {
			return nil, fmt.Errorf("loader: %s: %w", rawURL, err)
		}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", rawURL, err)
	}
	return b, nil
}

func (l *Loader) readFile(path string, decode bool) ([]byte, error) {
	b, err := afero.ReadFile(l.fs, path)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	if !decode {
		return b, nil
	}
	r, err := charset.NewReader(bytes.NewReader(b), "")
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", path, err)
	}
	if b, err = io.ReadAll(r); err != nil {
		return nil, fmt.Errorf("loader: read %s: %w", path, err)
	}
	return b, nil
}

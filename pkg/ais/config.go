// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Config holds the connection settings for one bucket on one endpoint.
type Config struct {
	// Endpoint is the service address, with or without a scheme. A bare
	// host gets https.
	Endpoint string
	// Bucket is the bucket every operation targets.
	Bucket string
	// Token optionally authenticates requests as a bearer token.
	Token string
	// AllowHTTP permits plain-http endpoints.
	AllowHTTP bool
	// S3ViaRoot addresses the bucket at the endpoint root instead of under
	// the /s3 path.
	S3ViaRoot bool
	// Policy overrides DefaultRequestPolicy when set.
	Policy *RequestPolicy
}

// Option adjusts a Client beyond what Config covers.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, for custom transports
// and timeouts. The client is copied and its redirect following disabled;
// redirects stay under the request policy's budget.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		cp.CheckRedirect = noFollow
		c.httpClient = &cp
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = l.With().Str("component", "ais-client").Logger()
	}
}

// WithRateLimit throttles request attempts to rps with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithTokenSource supplies refreshing credentials, overriding Config.Token.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.token = ts
	}
}

// New builds a client for one bucket. Configuration problems are reported
// here, before any request is sent.
func New(cfg Config, opts ...Option) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, configErrorf("endpoint must be set")
	}
	if cfg.Bucket == "" {
		return nil, configErrorf("bucket must be set")
	}
	base, err := bucketURL(cfg)
	if err != nil {
		return nil, err
	}

	policy := DefaultRequestPolicy()
	if cfg.Policy != nil {
		policy = *cfg.Policy
	}

	c := &Client{
		bucket:     cfg.Bucket,
		baseURL:    base,
		policy:     policy,
		logger:     zerolog.Nop(),
		httpClient: &http.Client{CheckRedirect: noFollow},
	}
	if cfg.Token != "" {
		if err := checkToken(cfg.Token); err != nil {
			return nil, err
		}
		c.token = staticToken(cfg.Token)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// noFollow keeps the stdlib client from chasing redirects itself; the
// request loop follows them so the policy's redirect budget applies.
func noFollow(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}

// bucketURL builds the base URL object keys are appended to. The bucket
// lives under the /s3 prefix by default, or at the endpoint root when
// S3ViaRoot is set.
func bucketURL(cfg Config) (string, error) {
	endpoint := cfg.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", configErrorf("invalid endpoint %q: %v", cfg.Endpoint, err)
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !cfg.AllowHTTP {
			return "", configErrorf("endpoint %q uses plain http; set AllowHTTP to permit it", cfg.Endpoint)
		}
	default:
		return "", configErrorf("unsupported endpoint scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", configErrorf("endpoint %q has no host", cfg.Endpoint)
	}
	if cfg.S3ViaRoot {
		u = u.JoinPath(cfg.Bucket)
	} else {
		u = u.JoinPath("s3", cfg.Bucket)
	}
	return u.String(), nil
}

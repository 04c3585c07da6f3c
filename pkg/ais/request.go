// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	zctx "github.com/LeeDigitalWorks/zapstore/pkg/context"
	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// RequestPolicy controls retry, redirect, and backoff behavior for every
// request the client sends.
type RequestPolicy struct {
	// MaxRetries is the number of additional attempts after the first.
	MaxRetries int
	// MaxRedirects bounds how many Location hops a single request follows.
	MaxRedirects int
	// InitialDelay is the backoff before the first retry.
	InitialDelay time.Duration
	// Factor multiplies the delay after each retry.
	Factor float64
	// MaxDelay caps the grown backoff delay.
	MaxDelay time.Duration
}

// DefaultRequestPolicy returns the policy used when none is configured:
// up to 3 retries with exponential backoff starting at 100ms and doubling
// up to a 10s cap, and up to 10 redirects.
func DefaultRequestPolicy() RequestPolicy {
	return RequestPolicy{
		MaxRetries:   3,
		MaxRedirects: 10,
		InitialDelay: 100 * time.Millisecond,
		Factor:       2.0,
		MaxDelay:     10 * time.Second,
	}
}

// request describes one logical API call before execution.
type request struct {
	op       string
	location objstore.Location
	method   string
	url      string
	query    url.Values
	header   http.Header
	body     *Body
}

// do executes a request with retry, redirect, and backoff handling. The
// final response is returned as is, including non-2xx statuses that carry
// semantic meaning; callers translate those. Transport failures that
// survive the retry budget come back under KindRequest.
//
// Every attempt of one logical call carries the same request ID, minted
// here unless the caller already put one on the context.
func (c *Client) do(ctx context.Context, r *request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &Error{Kind: KindRequest, Op: r.op, Location: r.location, Err: err}
		}
	}

	ctx, reqID := zctx.WithUUID(ctx)

	target := r.url
	retries := 0
	redirects := 0
	delay := c.policy.InitialDelay

	for {
		req, err := c.buildRequest(ctx, r, target)
		if err != nil {
			return nil, err
		}
		req.Header.Set(zctx.RequestKey, reqID)

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			if retries < c.policy.MaxRetries && retryableTransport(ctx, err) {
				retries++
				RequestRetries.WithLabelValues(r.op).Inc()
				c.logger.Debug().Str("op", r.op).Str("req_id", reqID).Int("retry", retries).Err(err).Msg("retrying after transport error")
				if err := sleepCtx(ctx, delay); err != nil {
					return nil, &Error{Kind: KindRequest, Op: r.op, Location: r.location, Err: err}
				}
				delay = nextDelay(delay, c.policy)
				continue
			}
			return nil, &Error{Kind: KindRequest, Op: r.op, Location: r.location, Err: err}
		}

		RequestsTotal.WithLabelValues(r.op, strconv.Itoa(resp.StatusCode)).Inc()
		RequestDuration.WithLabelValues(r.op).Observe(time.Since(start).Seconds())

		if isRedirect(resp.StatusCode) {
			loc := resp.Header.Get(HeaderLocation)
			status := resp.StatusCode
			drain(resp)
			if redirects >= c.policy.MaxRedirects {
				return nil, &Error{
					Kind: KindTooManyRedirects, Op: r.op, Location: r.location, Status: status,
					Message: fmt.Sprintf("stopped after %d redirects", redirects),
				}
			}
			if loc == "" {
				return nil, &Error{
					Kind: KindRedirectWithoutLocation, Op: r.op, Location: r.location, Status: status,
					Message: "redirect response missing Location header",
				}
			}
			next, err := req.URL.Parse(loc)
			if err != nil {
				return nil, &Error{
					Kind: KindInvalidResponse, Op: r.op, Location: r.location, Status: status,
					Message: "invalid redirect location", Err: err,
				}
			}
			target = next.String()
			redirects++
			RequestRedirects.WithLabelValues(r.op).Inc()
			c.logger.Debug().Str("op", r.op).Str("req_id", reqID).Str("target", target).Int("redirect", redirects).Msg("following redirect")
			continue
		}

		if retryableStatus(resp.StatusCode) && retries < c.policy.MaxRetries {
			status := resp.StatusCode
			drain(resp)
			retries++
			RequestRetries.WithLabelValues(r.op).Inc()
			c.logger.Debug().Str("op", r.op).Str("req_id", reqID).Int("status", status).Int("retry", retries).Msg("retrying after status")
			if err := sleepCtx(ctx, delay); err != nil {
				return nil, &Error{Kind: KindRequest, Op: r.op, Location: r.location, Err: err}
			}
			delay = nextDelay(delay, c.policy)
			continue
		}

		return resp, nil
	}
}

// doOK executes a request and translates any non-2xx response into a typed
// error, so callers only see successful responses.
func (c *Client) doOK(ctx context.Context, r *request) (*http.Response, error) {
	resp, err := c.do(ctx, r)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody+1))
	_ = resp.Body.Close()
	return nil, translateStatus(r.op, r.location, resp.StatusCode, body)
}

// readAll consumes and closes a response body.
func readAll(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

func (c *Client) buildRequest(ctx context.Context, r *request, target string) (*http.Request, error) {
	var reader io.Reader
	if r.body != nil {
		reader = r.body.NewReader()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Op: r.op, Location: r.location, Err: err}
	}
	if len(r.query) > 0 {
		req.URL.RawQuery = r.query.Encode()
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.body != nil {
		n := r.body.Len()
		req.ContentLength = n
		if n == 0 {
			// Force Content-Length: 0 instead of chunked encoding
			req.Body = http.NoBody
			req.GetBody = func() (io.ReadCloser, error) { return http.NoBody, nil }
		} else {
			body := r.body
			req.GetBody = func() (io.ReadCloser, error) {
				return io.NopCloser(body.NewReader()), nil
			}
		}
	}
	if c.token != nil {
		tok, err := c.token.Token()
		if err != nil {
			return nil, &Error{Kind: KindRequest, Op: r.op, Location: r.location, Message: "fetching auth token", Err: err}
		}
		tok.SetAuthHeader(req)
	}
	return req, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// retryableStatus reports whether a status is transient. Other statuses,
// 304 and 412 included, carry semantic meaning and are never retried.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// retryableTransport reports whether a transport error may succeed on a
// fresh attempt. Context cancellation and deadline expiry are terminal.
func retryableTransport(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// nextDelay grows the backoff delay by the policy factor up to its cap.
func nextDelay(cur time.Duration, p RequestPolicy) time.Duration {
	next := time.Duration(float64(cur) * p.Factor)
	if next > p.MaxDelay {
		return p.MaxDelay
	}
	return next
}

// sleepCtx waits for d or until the context is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drainLimit bounds how much of a discarded body is read before closing, so
// reusing the connection never requires consuming a large error payload.
const drainLimit = 64 << 10

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()
}

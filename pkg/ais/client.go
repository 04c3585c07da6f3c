// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

// Package ais is a client for AIStore's S3-compatible HTTP API. A Client is
// scoped to one bucket and implements objstore.Store. Requests authenticate
// with a bearer token and run under a RequestPolicy that bounds retries,
// redirects, and exponential backoff.
package ais

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// Client talks to one bucket through the endpoint's S3 compatibility layer.
// It is safe for concurrent use.
type Client struct {
	bucket     string
	baseURL    string
	policy     RequestPolicy
	httpClient *http.Client
	limiter    *rate.Limiter
	token      oauth2.TokenSource
	logger     zerolog.Logger
}

var _ objstore.Store = (*Client)(nil)

func (c *Client) Type() objstore.StoreType { return StoreTypeAIS }

// Bucket returns the bucket this client is scoped to.
func (c *Client) Bucket() string { return c.bucket }

// objectURL appends an object key to the bucket URL, escaping each path
// segment.
func (c *Client) objectURL(loc objstore.Location) string {
	segs := loc.Segments()
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(parts, "/")
}

// Put creates or overwrites the object at loc.
func (c *Client) Put(ctx context.Context, loc objstore.Location, data []byte) (objstore.PutResult, error) {
	return c.PutBody(ctx, loc, BodyBytes(data))
}

// PutBody is Put for payloads already shaped as a replayable Body, avoiding
// a copy when the data is chunked or textual.
func (c *Client) PutBody(ctx context.Context, loc objstore.Location, body *Body) (objstore.PutResult, error) {
	resp, err := c.doOK(ctx, &request{
		op:       "put",
		location: loc,
		method:   http.MethodPut,
		url:      c.objectURL(loc),
		body:     body,
	})
	if err != nil {
		return objstore.PutResult{}, err
	}
	drain(resp)
	return putResultFrom(resp.Header), nil
}

func putResultFrom(hdr http.Header) objstore.PutResult {
	return objstore.PutResult{
		ETag:    objstore.UnquoteETag(hdr.Get(HeaderETag)),
		Version: hdr.Get(HeaderVersion),
	}
}

// Get fetches an object, a byte range of it, or just its metadata when
// opts.Head is set. Conditional options surface 304 as
// objstore.ErrNotModified and 412 as objstore.ErrPreconditionFailed.
func (c *Client) Get(ctx context.Context, loc objstore.Location, opts objstore.GetOptions) (*objstore.GetResult, error) {
	method := http.MethodGet
	if opts.Head {
		method = http.MethodHead
	}

	hdr := make(http.Header)
	if opts.Range != nil {
		hdr.Set(HeaderRange, opts.Range.Header())
	}
	if opts.IfMatch != "" {
		hdr.Set(HeaderIfMatch, objstore.QuoteETag(opts.IfMatch))
	}
	if opts.IfNoneMatch != "" {
		hdr.Set(HeaderIfNoneMatch, objstore.QuoteETag(opts.IfNoneMatch))
	}
	if !opts.IfModifiedSince.IsZero() {
		hdr.Set(HeaderIfModifiedSince, opts.IfModifiedSince.UTC().Format(http.TimeFormat))
	}
	if !opts.IfUnmodifiedSince.IsZero() {
		hdr.Set(HeaderIfUnmodifiedSince, opts.IfUnmodifiedSince.UTC().Format(http.TimeFormat))
	}

	resp, err := c.doOK(ctx, &request{
		op:       "get",
		location: loc,
		method:   method,
		url:      c.objectURL(loc),
		header:   hdr,
	})
	if err != nil {
		return nil, err
	}

	meta := extractMeta(loc, resp.Header)
	return &objstore.GetResult{
		Meta:  meta,
		Range: servedRange(resp.Header, meta.Size),
		Body:  resp.Body,
	}, nil
}

// Head returns object metadata without transferring the body.
func (c *Client) Head(ctx context.Context, loc objstore.Location) (objstore.ObjectMeta, error) {
	resp, err := c.doOK(ctx, &request{
		op:       "head",
		location: loc,
		method:   http.MethodHead,
		url:      c.objectURL(loc),
	})
	if err != nil {
		return objstore.ObjectMeta{}, err
	}
	drain(resp)
	return extractMeta(loc, resp.Header), nil
}

// Delete removes the object at loc. The service reports success for
// missing objects, matching S3 delete semantics.
func (c *Client) Delete(ctx context.Context, loc objstore.Location) error {
	resp, err := c.doOK(ctx, &request{
		op:       "delete",
		location: loc,
		method:   http.MethodDelete,
		url:      c.objectURL(loc),
	})
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// Copy duplicates the object at from onto to on the server side,
// overwriting to if it exists.
func (c *Client) Copy(ctx context.Context, from, to objstore.Location) error {
	hdr := make(http.Header)
	hdr.Set(HeaderCopySource, c.bucket+"/"+string(from))

	resp, err := c.doOK(ctx, &request{
		op:       "copy",
		location: to,
		method:   http.MethodPut,
		url:      c.objectURL(to),
		header:   hdr,
	})
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// CopyIfNotExists copies only when to does not exist yet. The existence
// check and the copy are separate requests, so a concurrent writer can
// still slip in between them.
func (c *Client) CopyIfNotExists(ctx context.Context, from, to objstore.Location) error {
	_, err := c.Head(ctx, to)
	switch {
	case err == nil:
		return &Error{
			Kind: KindAlreadyExists, Op: "copy_if_not_exists", Location: to,
			Message: "destination already exists",
		}
	case errors.Is(err, objstore.ErrNotFound):
		return c.Copy(ctx, from, to)
	default:
		return err
	}
}

// Close releases idle connections. The client must not be used afterwards.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// Upload is an in-progress multipart upload session. Part numbers come from
// an atomic counter and the recorded part list is the only mutex-guarded
// state; the mutex is never held across a network call, so parts upload
// concurrently and only contend on bookkeeping.
type Upload struct {
	client   *Client
	location objstore.Location
	id       string

	nextPart atomic.Int32

	mu     sync.Mutex
	closed bool
	parts  []CompletedPart
}

var _ objstore.Upload = (*Upload)(nil)

// ID returns the server-assigned upload id.
func (u *Upload) ID() string { return u.id }

// PutPart uploads the next part. Safe for concurrent use; each call gets a
// unique ascending part number.
func (u *Upload) PutPart(ctx context.Context, data []byte) error {
	num := int(u.nextPart.Add(1))
	if num > MaxPartNumber {
		return &Error{
			Kind: KindConfiguration, Op: "put_part", Location: u.location,
			Message: fmt.Sprintf("part number %d exceeds the maximum of %d", num, MaxPartNumber),
		}
	}

	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return fmt.Errorf("put part %d of %s: %w", num, u.location, objstore.ErrUploadClosed)
	}

	etag, err := u.client.uploadPart(ctx, u.location, u.id, num, data)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return fmt.Errorf("put part %d of %s: %w", num, u.location, objstore.ErrUploadClosed)
	}
	u.parts = append(u.parts, CompletedPart{PartNumber: num, ETag: etag})
	return nil
}

// Complete assembles the uploaded parts into the final object. No further
// PutPart calls may be in flight when Complete is called.
func (u *Upload) Complete(ctx context.Context) (objstore.PutResult, error) {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return objstore.PutResult{}, fmt.Errorf("complete upload of %s: %w", u.location, objstore.ErrUploadClosed)
	}
	u.closed = true
	parts := make([]CompletedPart, len(u.parts))
	copy(parts, u.parts)
	u.mu.Unlock()

	// Concurrent uploads record parts out of arrival order
	sort.Slice(parts, func(i, j int) bool { return parts[i].PartNumber < parts[j].PartNumber })

	return u.client.completeUpload(ctx, u.location, u.id, parts)
}

// Abort discards the upload and any parts stored so far. Aborting an
// already closed session is a no-op, so it is safe to defer.
func (u *Upload) Abort(ctx context.Context) error {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return nil
	}
	u.closed = true
	u.parts = nil
	u.mu.Unlock()

	return u.client.abortUpload(ctx, u.location, u.id)
}

// StartUpload begins a multipart upload for loc. The upload id is read from
// the x-ais-upload-id header when present, falling back to the XML body;
// the header shortcut spares parsing on the common path.
func (c *Client) StartUpload(ctx context.Context, loc objstore.Location) (objstore.Upload, error) {
	q := url.Values{}
	q.Set(QparamUploads, "")

	resp, err := c.doOK(ctx, &request{
		op:       "create_upload",
		location: loc,
		method:   http.MethodPost,
		url:      c.objectURL(loc),
		query:    q,
	})
	if err != nil {
		return nil, err
	}

	id := resp.Header.Get(HeaderUploadID)
	body, err := readAll(resp)
	if err != nil {
		return nil, &Error{Kind: KindRequest, Op: "create_upload", Location: loc, Message: "reading create response", Err: err}
	}
	if id == "" {
		var result InitiateMultipartUploadResult
		if err := decodeXML("create_upload", loc, body, &result); err != nil {
			return nil, err
		}
		id = result.UploadID
	}
	if id == "" {
		return nil, &Error{Kind: KindInvalidResponse, Op: "create_upload", Location: loc, Message: "no upload id in response"}
	}

	c.logger.Debug().Str("location", string(loc)).Str("upload_id", id).Msg("multipart upload started")
	return &Upload{client: c, location: loc, id: id}, nil
}

func (c *Client) uploadPart(ctx context.Context, loc objstore.Location, id string, num int, data []byte) (string, error) {
	q := url.Values{}
	q.Set(QparamPartNumber, strconv.Itoa(num))
	q.Set(QparamUploadID, id)

	resp, err := c.doOK(ctx, &request{
		op:       "put_part",
		location: loc,
		method:   http.MethodPut,
		url:      c.objectURL(loc),
		query:    q,
		body:     BodyBytes(data),
	})
	if err != nil {
		return "", err
	}
	drain(resp)

	// The ETag is the only evidence the part was stored
	etag := objstore.UnquoteETag(resp.Header.Get(HeaderETag))
	if etag == "" {
		return "", &Error{
			Kind: KindInvalidResponse, Op: "put_part", Location: loc,
			Message: fmt.Sprintf("no ETag in response for part %d", num),
		}
	}
	return etag, nil
}

func (c *Client) completeUpload(ctx context.Context, loc objstore.Location, id string, parts []CompletedPart) (objstore.PutResult, error) {
	payload, err := xml.Marshal(CompleteMultipartUpload{Parts: parts})
	if err != nil {
		return objstore.PutResult{}, &Error{
			Kind: KindInvalidResponse, Op: "complete_upload", Location: loc,
			Message: "encoding complete request", Err: err,
		}
	}

	q := url.Values{}
	q.Set(QparamUploadID, id)
	hdr := make(http.Header)
	hdr.Set(HeaderContentType, "application/xml")

	resp, err := c.doOK(ctx, &request{
		op:       "complete_upload",
		location: loc,
		method:   http.MethodPost,
		url:      c.objectURL(loc),
		query:    q,
		header:   hdr,
		body:     BodyBytes(payload),
	})
	if err != nil {
		return objstore.PutResult{}, err
	}
	drain(resp)
	return putResultFrom(resp.Header), nil
}

// abortUpload is best-effort cleanup; the server expires leftover uploads
// on its own schedule.
func (c *Client) abortUpload(ctx context.Context, loc objstore.Location, id string) error {
	q := url.Values{}
	q.Set(QparamUploadID, id)

	resp, err := c.doOK(ctx, &request{
		op:       "abort_upload",
		location: loc,
		method:   http.MethodDelete,
		url:      c.objectURL(loc),
		query:    q,
	})
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

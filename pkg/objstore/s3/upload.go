// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// maxPartNumber is the S3 limit on parts per multipart upload.
const maxPartNumber = 10000

// Upload is an in-progress multipart upload. Part numbers come from an
// atomic counter; the mutex guards only the recorded part list and is never
// held across an SDK call.
type Upload struct {
	store    *Store
	location objstore.Location
	id       string

	nextPart atomic.Int32

	mu     sync.Mutex
	closed bool
	parts  []types.CompletedPart
}

var _ objstore.Upload = (*Upload)(nil)

// StartUpload begins a multipart upload for loc.
func (s *Store) StartUpload(ctx context.Context, loc objstore.Location) (objstore.Upload, error) {
	out, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(loc)),
	})
	if err != nil {
		return nil, wrapErr("create_upload", loc, err)
	}
	id := aws.ToString(out.UploadId)
	if id == "" {
		return nil, fmt.Errorf("s3: create_upload %q: no upload id in response", loc)
	}
	return &Upload{store: s, location: loc, id: id}, nil
}

// ID returns the server-assigned upload id.
func (u *Upload) ID() string { return u.id }

// PutPart uploads the next part. Safe for concurrent use; each call gets a
// unique ascending part number.
func (u *Upload) PutPart(ctx context.Context, data []byte) error {
	num := u.nextPart.Add(1)
	if num > maxPartNumber {
		return fmt.Errorf("s3: put_part %q: part number %d exceeds the maximum of %d", u.location, num, maxPartNumber)
	}

	u.mu.Lock()
	closed := u.closed
	u.mu.Unlock()
	if closed {
		return fmt.Errorf("put part %d of %s: %w", num, u.location, objstore.ErrUploadClosed)
	}

	out, err := u.store.client.UploadPart(ctx, &s3.UploadPartInput{
		Bucket:        aws.String(u.store.bucket),
		Key:           aws.String(string(u.location)),
		UploadId:      aws.String(u.id),
		PartNumber:    aws.Int32(num),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return wrapErr("put_part", u.location, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return fmt.Errorf("put part %d of %s: %w", num, u.location, objstore.ErrUploadClosed)
	}
	u.parts = append(u.parts, types.CompletedPart{ETag: out.ETag, PartNumber: aws.Int32(num)})
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
	parts := make([]types.CompletedPart, len(u.parts))
	copy(parts, u.parts)
	u.mu.Unlock()

	// Concurrent uploads record parts out of arrival order
	sort.Slice(parts, func(i, j int) bool {
		return aws.ToInt32(parts[i].PartNumber) < aws.ToInt32(parts[j].PartNumber)
	})

	out, err := u.store.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(u.store.bucket),
		Key:             aws.String(string(u.location)),
		UploadId:        aws.String(u.id),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: parts},
	})
	if err != nil {
		return objstore.PutResult{}, wrapErr("complete_upload", u.location, err)
	}
	return objstore.PutResult{
		ETag:    objstore.UnquoteETag(aws.ToString(out.ETag)),
		Version: aws.ToString(out.VersionId),
	}, nil
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

	_, err := u.store.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(u.store.bucket),
		Key:      aws.String(string(u.location)),
		UploadId: aws.String(u.id),
	})
	return wrapErr("abort_upload", u.location, err)
}

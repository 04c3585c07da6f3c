// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

// Package s3 implements objstore.Store on the AWS SDK, for buckets on AWS
// or any S3-compatible service reachable through a custom endpoint.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// StoreTypeS3 identifies this backend in store configs.
const StoreTypeS3 objstore.StoreType = "s3"

func init() {
	objstore.Register(StoreTypeS3, New)
}

// API is the slice of the SDK client the store uses. Tests substitute a
// fake; production passes *s3.Client.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	CreateMultipartUpload(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error)
	UploadPart(ctx context.Context, params *s3.UploadPartInput, optFns ...func(*s3.Options)) (*s3.UploadPartOutput, error)
	CompleteMultipartUpload(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error)
	AbortMultipartUpload(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error)
}

var _ API = (*s3.Client)(nil)

// Store implements objstore.Store for one bucket.
type Store struct {
	client API
	bucket string
}

var _ objstore.Store = (*Store)(nil)

// New builds a store from generic config. Credentials fall back to the
// default AWS resolution chain when no static keys are given; a custom
// endpoint switches the client to path-style addressing.
func New(cfg objstore.Config) (objstore.Store, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*config.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, cfg.Token),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load AWS config: %w", err)
	}

	s3Opts := []func(*s3.Options){}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3Opts...), cfg.Bucket)
}

// NewWithClient builds a store around an existing client, for callers that
// configure the SDK themselves.
func NewWithClient(client API, bucket string) (*Store, error) {
	if client == nil {
		return nil, errors.New("s3: client is required")
	}
	if bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}
	return &Store{client: client, bucket: bucket}, nil
}

func (s *Store) Type() objstore.StoreType { return StoreTypeS3 }

// Bucket returns the bucket this store is scoped to.
func (s *Store) Bucket() string { return s.bucket }

// Put creates or overwrites the object at loc.
func (s *Store) Put(ctx context.Context, loc objstore.Location, data []byte) (objstore.PutResult, error) {
	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(string(loc)),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return objstore.PutResult{}, wrapErr("put", loc, err)
	}
	return objstore.PutResult{
		ETag:    objstore.UnquoteETag(aws.ToString(out.ETag)),
		Version: aws.ToString(out.VersionId),
	}, nil
}

// Get fetches an object, a byte range of it, or just its metadata when
// opts.Head is set.
func (s *Store) Get(ctx context.Context, loc objstore.Location, opts objstore.GetOptions) (*objstore.GetResult, error) {
	if opts.Head {
		return s.headResult(ctx, loc, opts)
	}

	in := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(loc)),
	}
	if opts.Range != nil {
		in.Range = aws.String(opts.Range.Header())
	}
	if opts.IfMatch != "" {
		in.IfMatch = aws.String(objstore.QuoteETag(opts.IfMatch))
	}
	if opts.IfNoneMatch != "" {
		in.IfNoneMatch = aws.String(objstore.QuoteETag(opts.IfNoneMatch))
	}
	if !opts.IfModifiedSince.IsZero() {
		in.IfModifiedSince = aws.Time(opts.IfModifiedSince)
	}
	if !opts.IfUnmodifiedSince.IsZero() {
		in.IfUnmodifiedSince = aws.Time(opts.IfUnmodifiedSince)
	}

	out, err := s.client.GetObject(ctx, in)
	if err != nil {
		return nil, wrapErr("get", loc, err)
	}

	size, served := sizeAndRange(out.ContentRange, aws.ToInt64(out.ContentLength))
	return &objstore.GetResult{
		Meta:  objectMeta(loc, out.ETag, out.VersionId, size, out.LastModified),
		Range: served,
		Body:  out.Body,
	}, nil
}

func (s *Store) headResult(ctx context.Context, loc objstore.Location, opts objstore.GetOptions) (*objstore.GetResult, error) {
	in := &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(loc)),
	}
	if opts.Range != nil {
		in.Range = aws.String(opts.Range.Header())
	}
	if opts.IfMatch != "" {
		in.IfMatch = aws.String(objstore.QuoteETag(opts.IfMatch))
	}
	if opts.IfNoneMatch != "" {
		in.IfNoneMatch = aws.String(objstore.QuoteETag(opts.IfNoneMatch))
	}
	if !opts.IfModifiedSince.IsZero() {
		in.IfModifiedSince = aws.Time(opts.IfModifiedSince)
	}
	if !opts.IfUnmodifiedSince.IsZero() {
		in.IfUnmodifiedSince = aws.Time(opts.IfUnmodifiedSince)
	}

	out, err := s.client.HeadObject(ctx, in)
	if err != nil {
		return nil, wrapErr("head", loc, err)
	}

	size, served := sizeAndRange(out.ContentRange, aws.ToInt64(out.ContentLength))
	return &objstore.GetResult{
		Meta:  objectMeta(loc, out.ETag, out.VersionId, size, out.LastModified),
		Range: served,
		Body:  io.NopCloser(bytes.NewReader(nil)),
	}, nil
}

// Head returns object metadata without transferring the body.
func (s *Store) Head(ctx context.Context, loc objstore.Location) (objstore.ObjectMeta, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(loc)),
	})
	if err != nil {
		return objstore.ObjectMeta{}, wrapErr("head", loc, err)
	}
	return objectMeta(loc, out.ETag, out.VersionId, aws.ToInt64(out.ContentLength), out.LastModified), nil
}

// Delete removes the object at loc. S3 reports success for missing keys.
func (s *Store) Delete(ctx context.Context, loc objstore.Location) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(string(loc)),
	})
	return wrapErr("delete", loc, err)
}

// Copy duplicates the object at from onto to on the server side.
func (s *Store) Copy(ctx context.Context, from, to objstore.Location) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(string(to)),
		CopySource: aws.String(copySource(s.bucket, from)),
	})
	return wrapErr("copy", to, err)
}

// CopyIfNotExists copies only when to does not exist. CopyObject has no
// conditional form, so this is head-then-copy and best-effort against
// concurrent writers.
func (s *Store) CopyIfNotExists(ctx context.Context, from, to objstore.Location) error {
	_, err := s.Head(ctx, to)
	switch {
	case err == nil:
		return fmt.Errorf("s3: copy %q to %q: %w", from, to, objstore.ErrAlreadyExists)
	case errors.Is(err, objstore.ErrNotFound):
		return s.Copy(ctx, from, to)
	default:
		return err
	}
}

// Close releases nothing; the SDK client holds no resources of its own.
func (s *Store) Close() error {
	return nil
}

// copySource renders "bucket/key" with each key segment escaped, as the
// x-amz-copy-source header requires.
func copySource(bucket string, loc objstore.Location) string {
	segs := loc.Segments()
	parts := make([]string, len(segs))
	for i, s := range segs {
		parts[i] = url.PathEscape(s)
	}
	return bucket + "/" + strings.Join(parts, "/")
}

// sizeAndRange derives the full object size and the served byte range.
// Content-Range is authoritative for partial responses; its total is the
// full object size even though Content-Length only covers the slice.
func sizeAndRange(contentRange *string, contentLength int64) (int64, objstore.Range) {
	if cr := aws.ToString(contentRange); cr != "" {
		if r, total, ok := objstore.ParseContentRange(cr); ok {
			if total >= 0 {
				return total, r
			}
			return contentLength, r
		}
	}
	return contentLength, objstore.Range{Start: 0, End: contentLength}
}

func objectMeta(loc objstore.Location, etag, version *string, size int64, lastModified *time.Time) objstore.ObjectMeta {
	meta := objstore.ObjectMeta{
		Location:     loc,
		Size:         size,
		LastModified: aws.ToTime(lastModified),
		ETag:         objstore.UnquoteETag(aws.ToString(etag)),
		Version:      aws.ToString(version),
	}
	if meta.LastModified.IsZero() {
		meta.LastModified = time.Now().UTC()
	}
	return meta
}

// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

// Package objstore defines a generic object-store contract with pluggable
// backends. Implementations register themselves with Register and are
// constructed through Open; callers program against Store and never see
// backend-specific wire details.
package objstore

import (
	"context"
	"fmt"
	"io"
	"iter"
	"strings"
	"time"
)

// StoreType identifies a backend implementation
type StoreType string

// ObjectMeta describes a stored object. It is produced from backend
// metadata (HTTP headers or list entries); ETag is always unquoted and
// LastModified is never the zero time.
type ObjectMeta struct {
	Location     Location  `json:"location"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"e_tag,omitempty"`
	Version      string    `json:"version,omitempty"`
}

// PutResult is returned by any operation that creates or overwrites an
// object (single put, multipart complete). Empty strings mean the backend
// did not report the field.
type PutResult struct {
	ETag    string `json:"e_tag,omitempty"`
	Version string `json:"version,omitempty"`
}

// Range is a half-open byte interval [Start, End).
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Length returns the number of bytes covered by the range.
func (r Range) Length() int64 {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// GetResult is the outcome of a successful get or head. For head requests
// Body is empty and Range covers the full object. Callers own Body and
// must close it.
type GetResult struct {
	Meta  ObjectMeta
	Range Range
	Body  io.ReadCloser
}

// GetOptions controls a get or head request. Zero values mean "not set".
type GetOptions struct {
	// IfMatch and IfNoneMatch carry unquoted ETags ("*" is allowed).
	IfMatch     string
	IfNoneMatch string

	IfModifiedSince   time.Time
	IfUnmodifiedSince time.Time

	// Range selects a byte range of the object. Nil fetches everything.
	Range *RangeSpec

	// Head requests metadata only, without a body.
	Head bool
}

type rangeKind uint8

const (
	rangeBounded rangeKind = iota + 1
	rangeFrom
	rangeSuffix
)

// RangeSpec is one of the three HTTP byte-range forms: a bounded interval,
// an open-ended offset, or a suffix of the object.
type RangeSpec struct {
	kind   rangeKind
	start  int64
	end    int64
	suffix int64
}

// RangeBounded selects the half-open interval [start, end).
func RangeBounded(start, end int64) RangeSpec {
	return RangeSpec{kind: rangeBounded, start: start, end: end}
}

// RangeFrom selects everything from offset to the end of the object.
func RangeFrom(offset int64) RangeSpec {
	return RangeSpec{kind: rangeFrom, start: offset}
}

// RangeSuffix selects the final length bytes of the object.
func RangeSuffix(length int64) RangeSpec {
	return RangeSpec{kind: rangeSuffix, suffix: length}
}

// Header renders the spec as a Range header value. The wire format uses
// inclusive end offsets, so [0, 10) becomes "bytes=0-9".
func (r RangeSpec) Header() string {
	switch r.kind {
	case rangeBounded:
		return fmt.Sprintf("bytes=%d-%d", r.start, r.end-1)
	case rangeFrom:
		return fmt.Sprintf("bytes=%d-", r.start)
	case rangeSuffix:
		return fmt.Sprintf("bytes=-%d", r.suffix)
	default:
		return ""
	}
}

// Resolve computes the concrete interval against an object of the given
// size, clamping to the object's bounds.
func (r RangeSpec) Resolve(size int64) Range {
	switch r.kind {
	case rangeBounded:
		return Range{Start: min(r.start, size), End: min(r.end, size)}
	case rangeFrom:
		return Range{Start: min(r.start, size), End: size}
	case rangeSuffix:
		return Range{Start: max(0, size-r.suffix), End: size}
	default:
		return Range{Start: 0, End: size}
	}
}

// ListResult is the outcome of a delimiter-grouped listing: direct-child
// objects plus synthetic directory-style common prefixes (each ending in
// the delimiter, deduplicated, in first-seen order).
type ListResult struct {
	Objects        []ObjectMeta `json:"objects"`
	CommonPrefixes []string     `json:"common_prefixes,omitempty"`
}

// DelimitKey classifies key for directory-style grouping under prefix.
// When key nests at least one separator deeper than prefix, it returns the
// re-qualified common prefix, ending in the separator, and true. Direct
// children return "", false. The separator stripped between prefix and the
// remainder is restored on the way out, so prefix "a" groups "a/b/c" under
// "a/b/" and "ab/c" under "ab/".
func DelimitKey(prefix, key Location) (string, bool) {
	rest := strings.TrimPrefix(string(key), string(prefix))
	qualifier := string(prefix)
	if strings.HasPrefix(rest, "/") {
		rest = rest[1:]
		qualifier += "/"
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return qualifier + rest[:idx+1], true
	}
	return "", false
}

// Store is the interface for reading/writing objects on a backend.
// Implementations: the AIStore protocol client, the in-memory store, and
// the AWS-SDK S3 store. Implementations are safe for concurrent use.
type Store interface {
	// Type returns the backend type
	Type() StoreType

	// Put creates or overwrites the object at loc
	Put(ctx context.Context, loc Location, data []byte) (PutResult, error)

	// Get fetches an object (or a range of it) subject to opts
	Get(ctx context.Context, loc Location, opts GetOptions) (*GetResult, error)

	// Head returns metadata without a body
	Head(ctx context.Context, loc Location) (ObjectMeta, error)

	// Delete removes an object. S3-style backends report success even
	// when the object is missing
	Delete(ctx context.Context, loc Location) error

	// Copy duplicates from onto to, overwriting to if it exists
	Copy(ctx context.Context, from, to Location) error

	// CopyIfNotExists copies only when to is absent. Backends without a
	// native conditional copy implement this as head-then-copy, which is
	// best-effort against concurrent writers.
	CopyIfNotExists(ctx context.Context, from, to Location) error

	// List lazily yields all objects under prefix. The sequence is
	// single-consumer and not restartable; a failure yields exactly one
	// error element and then stops.
	List(ctx context.Context, prefix Location) iter.Seq2[*ObjectMeta, error]

	// ListWithDelimiter groups keys under prefix into direct-child
	// objects and common prefixes, simulating directories.
	ListWithDelimiter(ctx context.Context, prefix Location) (ListResult, error)

	// StartUpload begins a multipart upload for loc
	StartUpload(ctx context.Context, loc Location) (Upload, error)

	// Close releases any resources
	Close() error
}

// Upload is an in-progress multipart upload. PutPart may be called
// concurrently; Complete and Abort are terminal and must not be
// interleaved with further PutPart calls.
type Upload interface {
	// PutPart uploads the next part of the object
	PutPart(ctx context.Context, data []byte) error

	// Complete assembles all uploaded parts into the final object
	Complete(ctx context.Context) (PutResult, error)

	// Abort discards the upload and any parts stored so far
	Abort(ctx context.Context) error
}

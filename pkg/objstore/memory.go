// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// StoreTypeMemory is used for testing and local development
const StoreTypeMemory StoreType = "memory"

func init() {
	Register(StoreTypeMemory, func(cfg Config) (Store, error) {
		return NewMemory(), nil
	})
}

// Memory is an in-memory Store. It mirrors the remote backends' semantics
// (unquoted md5 ETags, per-write version tokens, conditional gets) so it
// can stand in for them in tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[Location]memObject
}

type memObject struct {
	data []byte
	meta ObjectMeta
}

// NewMemory creates a new in-memory store
func NewMemory() *Memory {
	return &Memory{
		objects: make(map[Location]memObject),
	}
}

func (m *Memory) Type() StoreType {
	return StoreTypeMemory
}

func (m *Memory) Put(ctx context.Context, loc Location, data []byte) (PutResult, error) {
	obj := newMemObject(loc, data)

	m.mu.Lock()
	m.objects[loc] = obj
	m.mu.Unlock()

	return PutResult{ETag: obj.meta.ETag, Version: obj.meta.Version}, nil
}

func newMemObject(loc Location, data []byte) memObject {
	buf := make([]byte, len(data))
	copy(buf, data)

	sum := md5.Sum(buf)
	return memObject{
		data: buf,
		meta: ObjectMeta{
			Location:     loc,
			Size:         int64(len(buf)),
			LastModified: time.Now().UTC(),
			ETag:         hex.EncodeToString(sum[:]),
			Version:      uuid.NewString(),
		},
	}
}

func (m *Memory) Get(ctx context.Context, loc Location, opts GetOptions) (*GetResult, error) {
	m.mu.RLock()
	obj, ok := m.objects[loc]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get %s: %w", loc, ErrNotFound)
	}

	if err := checkConditions(obj.meta, opts); err != nil {
		return nil, fmt.Errorf("get %s: %w", loc, err)
	}

	rng := Range{Start: 0, End: obj.meta.Size}
	if opts.Range != nil {
		rng = opts.Range.Resolve(obj.meta.Size)
	}

	body := io.NopCloser(bytes.NewReader(nil))
	if !opts.Head {
		body = io.NopCloser(bytes.NewReader(obj.data[rng.Start:rng.End]))
	}

	return &GetResult{Meta: obj.meta, Range: rng, Body: body}, nil
}

// checkConditions evaluates conditional-request options in RFC 7232
// precedence order: If-Match, If-Unmodified-Since, If-None-Match,
// If-Modified-Since.
func checkConditions(meta ObjectMeta, opts GetOptions) error {
	if opts.IfMatch != "" && opts.IfMatch != "*" && opts.IfMatch != meta.ETag {
		return ErrPreconditionFailed
	}
	if !opts.IfUnmodifiedSince.IsZero() && meta.LastModified.After(opts.IfUnmodifiedSince) {
		return ErrPreconditionFailed
	}
	if opts.IfNoneMatch != "" && (opts.IfNoneMatch == "*" || opts.IfNoneMatch == meta.ETag) {
		return ErrNotModified
	}
	if !opts.IfModifiedSince.IsZero() && !meta.LastModified.After(opts.IfModifiedSince) {
		return ErrNotModified
	}
	return nil
}

func (m *Memory) Head(ctx context.Context, loc Location) (ObjectMeta, error) {
	m.mu.RLock()
	obj, ok := m.objects[loc]
	m.mu.RUnlock()

	if !ok {
		return ObjectMeta{}, fmt.Errorf("head %s: %w", loc, ErrNotFound)
	}
	return obj.meta, nil
}

func (m *Memory) Delete(ctx context.Context, loc Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, loc)
	return nil
}

func (m *Memory) Copy(ctx context.Context, from, to Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyLocked(from, to)
}

func (m *Memory) copyLocked(from, to Location) error {
	src, ok := m.objects[from]
	if !ok {
		return fmt.Errorf("copy %s: %w", from, ErrNotFound)
	}
	m.objects[to] = newMemObject(to, src.data)
	return nil
}

func (m *Memory) CopyIfNotExists(ctx context.Context, from, to Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.objects[to]; exists {
		return fmt.Errorf("copy %s to %s: %w", from, to, ErrAlreadyExists)
	}
	return m.copyLocked(from, to)
}

func (m *Memory) List(ctx context.Context, prefix Location) iter.Seq2[*ObjectMeta, error] {
	return func(yield func(*ObjectMeta, error) bool) {
		for _, meta := range m.snapshot(prefix) {
			if ctx.Err() != nil {
				yield(nil, ctx.Err())
				return
			}
			if !yield(&meta, nil) {
				return
			}
		}
	}
}

// snapshot returns metadata for all keys under prefix in key order.
func (m *Memory) snapshot(prefix Location) []ObjectMeta {
	m.mu.RLock()
	defer m.mu.RUnlock()

	metas := make([]ObjectMeta, 0, len(m.objects))
	for loc, obj := range m.objects {
		if prefix != "" && !strings.HasPrefix(string(loc), string(prefix)) {
			continue
		}
		metas = append(metas, obj.meta)
	}
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].Location < metas[j].Location
	})
	return metas
}

func (m *Memory) ListWithDelimiter(ctx context.Context, prefix Location) (ListResult, error) {
	var result ListResult
	seen := make(map[string]bool)

	for meta, err := range m.List(ctx, prefix) {
		if err != nil {
			return ListResult{}, err
		}

		if cp, ok := DelimitKey(prefix, meta.Location); ok {
			if !seen[cp] {
				seen[cp] = true
				result.CommonPrefixes = append(result.CommonPrefixes, cp)
			}
			continue
		}
		result.Objects = append(result.Objects, *meta)
	}
	return result, nil
}

func (m *Memory) StartUpload(ctx context.Context, loc Location) (Upload, error) {
	return &memoryUpload{
		store:    m,
		location: loc,
		id:       uuid.NewString(),
		parts:    make(map[int][]byte),
	}, nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects = make(map[Location]memObject)
	return nil
}

// memoryUpload buffers parts until Complete assembles them in part-number
// order. Part numbers come from an atomic counter so concurrent PutPart
// calls never collide.
type memoryUpload struct {
	store    *Memory
	location Location
	id       string

	nextPart atomic.Int64

	mu     sync.Mutex
	closed bool
	parts  map[int][]byte
}

func (u *memoryUpload) PutPart(ctx context.Context, data []byte) error {
	num := int(u.nextPart.Add(1))

	buf := make([]byte, len(data))
	copy(buf, data)

	u.mu.Lock()
	defer u.mu.Unlock()
	if u.closed {
		return fmt.Errorf("put part %d of %s: %w", num, u.location, ErrUploadClosed)
	}
	u.parts[num] = buf
	return nil
}

func (u *memoryUpload) Complete(ctx context.Context) (PutResult, error) {
	u.mu.Lock()
	if u.closed {
		u.mu.Unlock()
		return PutResult{}, fmt.Errorf("complete upload of %s: %w", u.location, ErrUploadClosed)
	}
	u.closed = true

	numbers := make([]int, 0, len(u.parts))
	for num := range u.parts {
		numbers = append(numbers, num)
	}
	sort.Ints(numbers)

	var assembled []byte
	for _, num := range numbers {
		assembled = append(assembled, u.parts[num]...)
	}
	u.parts = nil
	u.mu.Unlock()

	return u.store.Put(ctx, u.location, assembled)
}

func (u *memoryUpload) Abort(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	u.parts = nil
	return nil
}

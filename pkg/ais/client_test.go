// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// ============================================================================
// Put
// ============================================================================

func TestClient_Put(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/s3/test-bucket/data/file.bin", r.URL.Path)
		assert.EqualValues(t, 7, r.ContentLength)

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "payload", string(body))

		w.Header().Set(HeaderETag, `"abc123"`)
		w.Header().Set(HeaderVersion, "v1")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	res, err := c.Put(context.Background(), "data/file.bin", []byte("payload"))
	require.NoError(t, err)
	assert.Equal(t, "abc123", res.ETag)
	assert.Equal(t, "v1", res.Version)
}

func TestClient_Put_EscapesKey(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	_, err := c.Put(context.Background(), "dir with space/file%.bin", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/s3/test-bucket/dir%20with%20space/file%25.bin", gotPath)
}

func TestClient_Put_ViaRoot(t *testing.T) {
	t.Parallel()

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c, err := New(Config{
		Endpoint:  srv.URL,
		Bucket:    "test-bucket",
		AllowHTTP: true,
		S3ViaRoot: true,
		Policy:    fastPolicy(),
	})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Put(context.Background(), "key", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/test-bucket/key", gotPath)
}

// ============================================================================
// Get / Head
// ============================================================================

func TestClient_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/s3/test-bucket/obj", r.URL.Path)

		w.Header().Set(HeaderETag, `"e1"`)
		w.Header().Set(HeaderVersion, "v2")
		w.Header().Set(HeaderLastModified, "Wed, 01 Jan 2025 00:00:00 GMT")
		w.Header().Set(HeaderContentLength, "5")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	got, err := c.Get(context.Background(), "obj", objstore.GetOptions{})
	require.NoError(t, err)
	defer got.Body.Close()

	body, err := io.ReadAll(got.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, objstore.Location("obj"), got.Meta.Location)
	assert.Equal(t, int64(5), got.Meta.Size)
	assert.Equal(t, "e1", got.Meta.ETag)
	assert.Equal(t, "v2", got.Meta.Version)
	assert.Equal(t, objstore.Range{Start: 0, End: 5}, got.Range)
}

func TestClient_Get_Range(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=5-14", r.Header.Get(HeaderRange))

		w.Header().Set(HeaderContentRange, "bytes 5-14/100")
		w.Header().Set(HeaderContentLength, "10")
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	spec := objstore.RangeBounded(5, 15)
	got, err := c.Get(context.Background(), "obj", objstore.GetOptions{Range: &spec})
	require.NoError(t, err)
	defer got.Body.Close()

	// Meta reports the full object, Range the slice actually served
	assert.Equal(t, int64(100), got.Meta.Size)
	assert.Equal(t, objstore.Range{Start: 5, End: 15}, got.Range)
}

func TestClient_Get_ConditionalHeaders(t *testing.T) {
	t.Parallel()

	since := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `"e1"`, r.Header.Get(HeaderIfMatch))
		assert.Equal(t, `"e2"`, r.Header.Get(HeaderIfNoneMatch))
		assert.Equal(t, "Sun, 01 Jun 2025 12:00:00 GMT", r.Header.Get(HeaderIfModifiedSince))
		assert.Equal(t, "Sun, 01 Jun 2025 12:00:00 GMT", r.Header.Get(HeaderIfUnmodifiedSince))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	got, err := c.Get(context.Background(), "obj", objstore.GetOptions{
		IfMatch:           "e1",
		IfNoneMatch:       "e2",
		IfModifiedSince:   since,
		IfUnmodifiedSince: since,
	})
	require.NoError(t, err)
	got.Body.Close()
}

func TestClient_Get_NotModified(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	_, err := c.Get(context.Background(), "obj", objstore.GetOptions{IfNoneMatch: "e1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, objstore.ErrNotModified)

	var aisErr *Error
	require.ErrorAs(t, err, &aisErr)
	assert.Equal(t, objstore.Location("obj"), aisErr.Location)
}

func TestClient_Get_PreconditionFailed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPreconditionFailed)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	_, err := c.Get(context.Background(), "obj", objstore.GetOptions{IfMatch: "stale"})
	require.Error(t, err)
	assert.ErrorIs(t, err, objstore.ErrPreconditionFailed)
}

func TestClient_Get_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such key", http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	_, err := c.Get(context.Background(), "missing", objstore.GetOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, objstore.ErrNotFound)
}

func TestClient_Get_HeadOption(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set(HeaderContentLength, "11")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	got, err := c.Get(context.Background(), "obj", objstore.GetOptions{Head: true})
	require.NoError(t, err)
	defer got.Body.Close()

	body, _ := io.ReadAll(got.Body)
	assert.Empty(t, body)
	assert.Equal(t, int64(11), got.Meta.Size)
	assert.Equal(t, objstore.Range{Start: 0, End: 11}, got.Range)
}

func TestClient_Head(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		w.Header().Set(HeaderContentLength, "42")
		w.Header().Set(HeaderETag, `"e9"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	meta, err := c.Head(context.Background(), "obj")
	require.NoError(t, err)
	assert.Equal(t, int64(42), meta.Size)
	assert.Equal(t, "e9", meta.ETag)
}

// ============================================================================
// Delete / Copy
// ============================================================================

func TestClient_Delete(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	require.NoError(t, c.Delete(context.Background(), "obj"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/s3/test-bucket/obj", gotPath)
}

func TestClient_Copy(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/s3/test-bucket/dst/obj", r.URL.Path)
		assert.Equal(t, "test-bucket/src/obj", r.Header.Get(HeaderCopySource))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	require.NoError(t, c.Copy(context.Background(), "src/obj", "dst/obj"))
}

func TestClient_CopyIfNotExists(t *testing.T) {
	t.Parallel()

	var copied bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case r.Method == http.MethodPut:
			copied = true
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	require.NoError(t, c.CopyIfNotExists(context.Background(), "src", "dst"))
	assert.True(t, copied)
}

func TestClient_CopyIfNotExists_DestinationExists(t *testing.T) {
	t.Parallel()

	var copied bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.Header().Set(HeaderContentLength, "1")
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			copied = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, fastPolicy())
	defer c.Close()

	err := c.CopyIfNotExists(context.Background(), "src", "dst")
	require.Error(t, err)
	assert.ErrorIs(t, err, objstore.ErrAlreadyExists)
	assert.False(t, copied)
}

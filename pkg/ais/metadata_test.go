package ais

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

func TestExtractMeta(t *testing.T) {
	t.Parallel()

	hdr := http.Header{}
	hdr.Set(HeaderContentLength, "42")
	hdr.Set(HeaderLastModified, "Wed, 01 Jan 2025 00:00:00 GMT")
	hdr.Set(HeaderETag, `"abc123"`)
	hdr.Set(HeaderVersion, "v7")

	meta := extractMeta("data/file", hdr)
	assert.Equal(t, objstore.Location("data/file"), meta.Location)
	assert.Equal(t, int64(42), meta.Size)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), meta.LastModified.UTC())
	assert.Equal(t, "abc123", meta.ETag)
	assert.Equal(t, "v7", meta.Version)
}

func TestExtractMeta_ContentRangeWins(t *testing.T) {
	t.Parallel()

	// A ranged response reports the slice length in Content-Length but the
	// full object size in the Content-Range total
	hdr := http.Header{}
	hdr.Set(HeaderContentLength, "10")
	hdr.Set(HeaderContentRange, "bytes 5-14/100")

	meta := extractMeta("k", hdr)
	assert.Equal(t, int64(100), meta.Size)
}

func TestExtractMeta_LastModifiedFallback(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)

	meta := extractMeta("k", http.Header{})
	require.False(t, meta.LastModified.IsZero())
	assert.True(t, meta.LastModified.After(before))

	hdr := http.Header{}
	hdr.Set(HeaderLastModified, "not a date")
	meta = extractMeta("k", hdr)
	assert.False(t, meta.LastModified.IsZero())
}

func TestServedRange(t *testing.T) {
	t.Parallel()

	hdr := http.Header{}
	hdr.Set(HeaderContentRange, "bytes 5-14/100")
	assert.Equal(t, objstore.Range{Start: 5, End: 15}, servedRange(hdr, 100))

	// Without Content-Range the body is the whole object
	assert.Equal(t, objstore.Range{Start: 0, End: 42}, servedRange(http.Header{}, 42))
}

func TestBody(t *testing.T) {
	t.Parallel()

	var nilBody *Body
	assert.EqualValues(t, 0, nilBody.Len())
	assert.Nil(t, nilBody.NewReader())

	b := BodyBytes([]byte("hello"))
	assert.EqualValues(t, 5, b.Len())

	chunked := BodyChunks([]byte("he"), []byte("llo"))
	assert.EqualValues(t, 5, chunked.Len())

	text := BodyText("hello")
	assert.EqualValues(t, 5, text.Len())

	// Readers are independent; a second read starts from the beginning
	for _, body := range []*Body{b, chunked, text} {
		first := readAllString(t, body)
		second := readAllString(t, body)
		assert.Equal(t, "hello", first)
		assert.Equal(t, "hello", second)
	}
}

package ais

import (
	"bytes"
	"io"
	"strings"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyBytes
	bodyChunks
	bodyText
)

// Body is a replayable request payload. Unlike a plain io.Reader it can be
// re-read for every retry and redirect attempt. The backing slices are not
// copied; callers must not mutate them while a request is in flight.
type Body struct {
	kind   bodyKind
	bytes  []byte
	chunks [][]byte
	text   string
}

// BodyBytes wraps a single byte slice.
func BodyBytes(b []byte) *Body {
	return &Body{kind: bodyBytes, bytes: b}
}

// BodyChunks wraps a sequence of byte slices that are sent back to back
// without copying them into one buffer.
func BodyChunks(chunks ...[]byte) *Body {
	return &Body{kind: bodyChunks, chunks: chunks}
}

// BodyText wraps a string payload.
func BodyText(s string) *Body {
	return &Body{kind: bodyText, text: s}
}

// Len returns the total payload size in bytes. A nil Body has length zero.
func (b *Body) Len() int64 {
	if b == nil {
		return 0
	}
	switch b.kind {
	case bodyBytes:
		return int64(len(b.bytes))
	case bodyChunks:
		var n int64
		for _, c := range b.chunks {
			n += int64(len(c))
		}
		return n
	case bodyText:
		return int64(len(b.text))
	}
	return 0
}

// NewReader returns a fresh reader over the payload. Each request attempt
// gets its own reader so partial reads from a failed attempt cannot leak
// into the next one. Returns nil for a nil or empty-kind Body.
func (b *Body) NewReader() io.Reader {
	if b == nil {
		return nil
	}
	switch b.kind {
	case bodyBytes:
		return bytes.NewReader(b.bytes)
	case bodyChunks:
		readers := make([]io.Reader, len(b.chunks))
		for i, c := range b.chunks {
			readers[i] = bytes.NewReader(c)
		}
		return io.MultiReader(readers...)
	case bodyText:
		return strings.NewReader(b.text)
	}
	return nil
}

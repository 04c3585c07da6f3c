// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"net/http"
	"strconv"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// extractMeta builds object metadata from response headers. Size prefers the
// Content-Range total so ranged responses still report the full object size.
// LastModified is never zero; when the header is absent or unparseable it
// falls back to the time the response was observed.
func extractMeta(loc objstore.Location, hdr http.Header) objstore.ObjectMeta {
	meta := objstore.ObjectMeta{Location: loc}

	sized := false
	if cr := hdr.Get(HeaderContentRange); cr != "" {
		if _, total, ok := objstore.ParseContentRange(cr); ok && total >= 0 {
			meta.Size = total
			sized = true
		}
	}
	if !sized {
		if n, err := strconv.ParseInt(hdr.Get(HeaderContentLength), 10, 64); err == nil && n >= 0 {
			meta.Size = n
		}
	}

	if lm, err := http.ParseTime(hdr.Get(HeaderLastModified)); err == nil {
		meta.LastModified = lm
	} else {
		meta.LastModified = time.Now().UTC()
	}

	meta.ETag = objstore.UnquoteETag(hdr.Get(HeaderETag))
	meta.Version = hdr.Get(HeaderVersion)
	return meta
}

// servedRange reports which bytes of the object the response body covers.
// Content-Range is authoritative for partial responses; without it the body
// is the whole object.
func servedRange(hdr http.Header, size int64) objstore.Range {
	if cr := hdr.Get(HeaderContentRange); cr != "" {
		if r, _, ok := objstore.ParseContentRange(cr); ok {
			return r
		}
	}
	return objstore.Range{Start: 0, End: size}
}

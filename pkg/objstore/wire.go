// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"strconv"
	"strings"
)

// UnquoteETag strips the surrounding double quotes servers put on ETag
// values. Unquoted values pass through unchanged. Stored metadata always
// carries the unquoted form.
func UnquoteETag(s string) string {
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		return s[1 : len(s)-1]
	}
	return s
}

// QuoteETag wraps an ETag in the double quotes conditional headers expect.
// The wildcard and already-quoted values pass through unchanged.
func QuoteETag(s string) string {
	if s == "*" || strings.HasPrefix(s, `"`) {
		return s
	}
	return `"` + s + `"`
}

// ParseContentRange parses a Content-Range header of the form
// "bytes <start>-<end>/<total>". The wire format uses inclusive end offsets;
// the returned Range is half-open. An unknown total ("*") is reported as -1.
func ParseContentRange(s string) (r Range, total int64, ok bool) {
	rest, found := strings.CutPrefix(s, "bytes ")
	if !found {
		return Range{}, 0, false
	}
	rangePart, totalPart, found := strings.Cut(rest, "/")
	if !found {
		return Range{}, 0, false
	}
	startStr, endStr, found := strings.Cut(rangePart, "-")
	if !found {
		return Range{}, 0, false
	}
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return Range{}, 0, false
	}
	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || end < start {
		return Range{}, 0, false
	}
	r = Range{Start: start, End: end + 1}
	if totalPart == "*" {
		return r, -1, true
	}
	if total, err = strconv.ParseInt(totalPart, 10, 64); err != nil {
		return Range{}, 0, false
	}
	return r, total, true
}

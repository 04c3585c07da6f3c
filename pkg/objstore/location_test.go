// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "single segment", key: "file.txt"},
		{name: "nested", key: "a/b/c"},
		{name: "deep nesting", key: "data/2025/08/25/events.json"},
		{name: "dots inside segment", key: "archive.tar.gz"},
		{name: "spaces", key: "my folder/my file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			loc, err := ParseLocation(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.key, loc.String())
		})
	}
}

func TestParseLocation_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{name: "empty", key: ""},
		{name: "leading slash", key: "/a/b"},
		{name: "trailing slash", key: "a/b/"},
		{name: "double slash", key: "a//b"},
		{name: "dot segment", key: "a/./b"},
		{name: "dotdot segment", key: "a/../b"},
		{name: "bare slash", key: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseLocation(tt.key)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidLocation)
		})
	}
}

func TestJoinLocation(t *testing.T) {
	t.Parallel()

	loc, err := JoinLocation("a", "b", "c.txt")
	require.NoError(t, err)
	assert.Equal(t, Location("a/b/c.txt"), loc)

	_, err = JoinLocation("a", "", "c")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestLocation_Segments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"a", "b", "c"}, Location("a/b/c").Segments())
	assert.Equal(t, []string{"single"}, Location("single").Segments())
	assert.Nil(t, Location("").Segments())
}

func TestRangeSpec_Header(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec RangeSpec
		want string
	}{
		{name: "bounded", spec: RangeBounded(0, 10), want: "bytes=0-9"},
		{name: "bounded offset", spec: RangeBounded(100, 250), want: "bytes=100-249"},
		{name: "from offset", spec: RangeFrom(42), want: "bytes=42-"},
		{name: "suffix", spec: RangeSuffix(16), want: "bytes=-16"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.spec.Header())
		})
	}
}

func TestRangeSpec_Resolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec RangeSpec
		size int64
		want Range
	}{
		{name: "bounded inside", spec: RangeBounded(2, 6), size: 10, want: Range{Start: 2, End: 6}},
		{name: "bounded clamped", spec: RangeBounded(5, 100), size: 10, want: Range{Start: 5, End: 10}},
		{name: "bounded past end", spec: RangeBounded(20, 30), size: 10, want: Range{Start: 10, End: 10}},
		{name: "from offset", spec: RangeFrom(4), size: 10, want: Range{Start: 4, End: 10}},
		{name: "suffix", spec: RangeSuffix(3), size: 10, want: Range{Start: 7, End: 10}},
		{name: "suffix longer than object", spec: RangeSuffix(50), size: 10, want: Range{Start: 0, End: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.spec.Resolve(tt.size)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.End-tt.want.Start, got.Length())
		})
	}
}

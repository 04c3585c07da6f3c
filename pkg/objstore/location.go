// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import (
	"fmt"
	"strings"
)

// Location is a slash-delimited object key within a bucket. It is immutable
// once constructed and carries no leading or trailing separator. The zero
// value is only meaningful as an empty listing prefix, never as an object key.
type Location string

// ParseLocation validates a raw key and returns it as a Location.
func ParseLocation(key string) (Location, error) {
	if key == "" {
		return "", fmt.Errorf("%w: empty key", ErrInvalidLocation)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("%w: %q: leading slash", ErrInvalidLocation, key)
	}
	for _, seg := range strings.Split(key, "/") {
		switch seg {
		case "":
			return "", fmt.Errorf("%w: %q: empty segment", ErrInvalidLocation, key)
		case ".", "..":
			return "", fmt.Errorf("%w: %q: relative segment", ErrInvalidLocation, key)
		}
	}
	return Location(key), nil
}

// JoinLocation builds a Location from individual segments.
func JoinLocation(segments ...string) (Location, error) {
	return ParseLocation(strings.Join(segments, "/"))
}

func (l Location) String() string {
	return string(l)
}

// Segments returns the slash-separated parts of the key.
func (l Location) Segments() []string {
	if l == "" {
		return nil
	}
	return strings.Split(string(l), "/")
}

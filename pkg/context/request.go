// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

// Package context carries per-operation request IDs, so the attempts that
// make up one logical call can be correlated across logs and servers.
package context

import (
	"context"

	"github.com/google/uuid"
)

const (
	// RequestKey is the HTTP header that propagates the request ID.
	RequestKey = "X-Request-Id"
)

type RequestID struct{}

// WithUUID returns ctx carrying a request ID, minting one when none is set.
func WithUUID(c context.Context) (context.Context, string) {
	if id := c.Value(RequestID{}); id != nil {
		return c, id.(string)
	}
	newID := uuid.New().String()
	c = context.WithValue(c, RequestID{}, newID)
	return c, newID
}

// FromUUID returns ctx carrying the caller's own request ID.
func FromUUID(c context.Context, reqID string) context.Context {
	return context.WithValue(c, RequestID{}, reqID)
}

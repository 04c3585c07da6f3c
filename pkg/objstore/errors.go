// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package objstore

import "errors"

// Generic error categories shared by every Store implementation. Backends
// wrap these (or map onto them via errors.Is) so callers can branch on a
// condition without knowing which backend produced it.
var (
	ErrNotFound           = errors.New("object not found")
	ErrAlreadyExists      = errors.New("object already exists")
	ErrNotModified        = errors.New("object not modified")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidLocation    = errors.New("invalid object location")
	ErrUploadClosed       = errors.New("multipart upload already completed or aborted")
)

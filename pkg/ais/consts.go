// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

// https://aistore.nvidia.com/docs/s3compat
const (
	// --- Response headers ---
	HeaderETag          = "ETag"
	HeaderLastModified  = "Last-Modified"
	HeaderContentLength = "Content-Length"
	HeaderContentRange  = "Content-Range"
	HeaderLocation      = "Location"
	HeaderRetryAfter    = "Retry-After"

	// --- Request headers ---
	HeaderAuthorization     = "Authorization"
	HeaderContentType       = "Content-Type"
	HeaderRange             = "Range"
	HeaderIfMatch           = "If-Match"
	HeaderIfNoneMatch       = "If-None-Match"
	HeaderIfModifiedSince   = "If-Modified-Since"
	HeaderIfUnmodifiedSince = "If-Unmodified-Since"

	// --- Copy source ---
	HeaderCopySource = "x-amz-copy-source"

	// --- AIS extensions ---
	HeaderVersion  = "x-ais-version"
	HeaderUploadID = "x-ais-upload-id"

	// --- List query parameters ---
	QparamListType          = "list-type"
	QparamPrefix            = "prefix"
	QparamContinuationToken = "continuation-token"
	QparamMaxKeys           = "max-keys"
	QparamDelimiter         = "delimiter"

	// --- Multipart query parameters ---
	QparamUploads    = "uploads"
	QparamUploadID   = "uploadId"
	QparamPartNumber = "partNumber"

	// ListTypeV2 selects the ListObjectsV2 response shape.
	ListTypeV2 = "2"

	// DefaultMaxKeys is the page size requested when the caller does not
	// override it.
	DefaultMaxKeys = 1000

	// MaxPartNumber is the highest part number accepted for multipart
	// uploads. Acceptable values range from 1 to 10000 inclusive.
	MaxPartNumber = 10000
)

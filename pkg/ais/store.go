// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package ais

import (
	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
)

// StoreTypeAIS identifies this backend in the objstore registry.
const StoreTypeAIS objstore.StoreType = "ais"

func init() {
	objstore.Register(StoreTypeAIS, func(cfg objstore.Config) (objstore.Store, error) {
		c, err := FromConfig(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	})
}

// FromConfig builds a Client from a generic store config. Callers that need
// a custom policy, logger, rate limit, or HTTP client should use New.
func FromConfig(cfg objstore.Config, opts ...Option) (*Client, error) {
	return New(Config{
		Endpoint:  cfg.Endpoint,
		Bucket:    cfg.Bucket,
		Token:     cfg.Token,
		AllowHTTP: cfg.AllowHTTP,
		S3ViaRoot: cfg.S3ViaRoot,
	}, opts...)
}

// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/debug"
	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"

	// Imported for their objstore.Register side effects.
	_ "github.com/LeeDigitalWorks/zapstore/pkg/ais"
	_ "github.com/LeeDigitalWorks/zapstore/pkg/objstore/s3"

	"github.com/spf13/cobra"
)

// StoreOpts holds the connection configuration shared by every subcommand.
type StoreOpts struct {
	Store     string
	Endpoint  string
	Bucket    string
	Token     string
	AccessKey string
	SecretKey string
	Region    string
	AllowHTTP bool
	S3ViaRoot bool

	Timeout   time.Duration
	DebugAddr string
}

func loadStoreOpts(cmd *cobra.Command) StoreOpts {
	f := NewFlagLoader(cmd)
	return StoreOpts{
		Store:     f.String("store"),
		Endpoint:  f.String("endpoint"),
		Bucket:    f.String("bucket"),
		Token:     f.String("token"),
		AccessKey: f.String("access-key"),
		SecretKey: f.String("secret-key"),
		Region:    f.String("region"),
		AllowHTTP: f.Bool("allow-http"),
		S3ViaRoot: f.Bool("s3-root"),
		Timeout:   f.Duration("timeout"),
		DebugAddr: f.String("debug-addr"),
	}
}

// openStore builds the configured backend and, when requested, starts the
// debug server for the lifetime of the command.
func openStore(cmd *cobra.Command) (objstore.Store, StoreOpts) {
	opts := loadStoreOpts(cmd)

	if opts.DebugAddr != "" {
		startDebugServer(opts.DebugAddr)
	}

	st, err := objstore.Open(objstore.Config{
		Type:      objstore.StoreType(opts.Store),
		Endpoint:  opts.Endpoint,
		Bucket:    opts.Bucket,
		Region:    opts.Region,
		AccessKey: opts.AccessKey,
		SecretKey: opts.SecretKey,
		Token:     opts.Token,
		AllowHTTP: opts.AllowHTTP,
		S3ViaRoot: opts.S3ViaRoot,
	})
	if err != nil {
		logger.Fatal().Err(err).Str("store", opts.Store).Msg("failed to open store")
	}

	debug.SetReady()
	return st, opts
}

// commandContext derives the operation context, honoring --timeout.
func commandContext(cmd *cobra.Command, opts StoreOpts) (context.Context, context.CancelFunc) {
	if opts.Timeout > 0 {
		return context.WithTimeout(cmd.Context(), opts.Timeout)
	}
	return context.WithCancel(cmd.Context())
}

func mustLocation(arg string) objstore.Location {
	loc, err := objstore.ParseLocation(arg)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid object key")
	}
	return loc
}

func startDebugServer(addr string) *http.Server {
	listener, err := utils.NewListener(addr, 0)
	if err != nil {
		logger.Fatal().Err(err).Str("debug_addr", addr).Msg("failed to create debug listener")
	}

	srv := &http.Server{Handler: debug.GetMux()}
	go func() {
		logger.Info().Str("debug_addr", addr).Msg("Starting debug server")
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start debug server")
		}
	}()
	return srv
}

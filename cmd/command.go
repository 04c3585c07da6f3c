// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"os"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/utils"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "zapstore",
	Short: "ZapStore - An object storage client",
	Long: `ZapStore is a command-line client for S3-compatible object storage.
It speaks to AIStore endpoints through their S3 compatibility layer, to plain
S3/MinIO endpoints through the AWS SDK, and to an in-memory store for testing.
Every command targets one bucket on one endpoint.`,
	PersistentPreRun: initializeConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&utils.ConfigurationFileDirectory, "config-dir", ".", "Directory for configuration files")

	// Connection settings, shared by every subcommand. Each can also come
	// from zapstore.yaml or a ZAPSTORE_* environment variable.
	pf.String("store", "ais", "Backend type (ais, s3, memory)")
	pf.String("endpoint", "", "Service endpoint, with or without a scheme")
	pf.String("bucket", "", "Bucket every operation targets")
	pf.String("token", "", "Bearer token for authenticated endpoints")
	pf.String("access-key", "", "Access key (s3 backend)")
	pf.String("secret-key", "", "Secret key (s3 backend)")
	pf.String("region", "", "Region (s3 backend)")
	pf.Bool("allow-http", false, "Permit plain-http endpoints")
	pf.Bool("s3-root", false, "Address the bucket at the endpoint root instead of under /s3")
	pf.Duration("timeout", 0, "Overall deadline per command (0 = none)")

	pf.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	pf.String("debug-addr", "", "Serve /metrics, /health and pprof on this address while the command runs")

	viper.BindPFlags(pf)
}

// initializeConfig loads the optional config file and applies the log level
// before any subcommand runs.
func initializeConfig(cmd *cobra.Command, args []string) {
	utils.LoadConfiguration("zapstore", false)

	f := NewFlagLoader(cmd)
	if lvl := f.String("log-level"); lvl != "" {
		level, err := zerolog.ParseLevel(lvl)
		if err != nil {
			logger.Fatal().Err(err).Str("log_level", lvl).Msg("invalid log level")
		}
		logger.SetLevel(level)
	}
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

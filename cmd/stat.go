// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statCmd = &cobra.Command{
	Use:   "stat <key>",
	Short: "Print object metadata",
	Args:  cobra.ExactArgs(1),
	Run:   runStat,
}

func init() {
	rootCmd.AddCommand(statCmd)
}

func runStat(cmd *cobra.Command, args []string) {
	st, opts := openStore(cmd)
	defer st.Close()

	loc := mustLocation(args[0])

	ctx, cancel := commandContext(cmd, opts)
	defer cancel()

	meta, err := st.Head(ctx, loc)
	if err != nil {
		logger.Fatal().Err(err).Str("key", loc.String()).Msg("stat failed")
	}

	fmt.Printf("%s\n", meta.Location)
	fmt.Printf("  Size:          %s (%d bytes)\n", humanize.Bytes(uint64(meta.Size)), meta.Size)
	fmt.Printf("  Last modified: %s (%s)\n", meta.LastModified.Format(time.RFC3339), humanize.Time(meta.LastModified))
	if meta.ETag != "" {
		fmt.Printf("  ETag:          %s\n", meta.ETag)
	}
	if meta.Version != "" {
		fmt.Printf("  Version:       %s\n", meta.Version)
	}
}

// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/LeeDigitalWorks/zapstore/pkg/logger"

	"github.com/spf13/cobra"
)

var cpCmd = &cobra.Command{
	Use:   "cp <src> <dst>",
	Short: "Copy an object within the bucket",
	Long: `Copy an object to a new key in the same bucket. By default the
destination is overwritten when it exists; --if-not-exists makes the copy
fail instead.`,
	Args: cobra.ExactArgs(2),
	Run:  runCp,
}

func init() {
	rootCmd.AddCommand(cpCmd)

	cpCmd.Flags().Bool("if-not-exists", false, "Fail when the destination already exists")
}

func runCp(cmd *cobra.Command, args []string) {
	st, opts := openStore(cmd)
	defer st.Close()

	from := mustLocation(args[0])
	to := mustLocation(args[1])

	ctx, cancel := commandContext(cmd, opts)
	defer cancel()

	var err error
	if NewFlagLoader(cmd).Bool("if-not-exists") {
		err = st.CopyIfNotExists(ctx, from, to)
	} else {
		err = st.Copy(ctx, from, to)
	}
	if err != nil {
		logger.Fatal().Err(err).Str("from", from.String()).Str("to", to.String()).Msg("copy failed")
	}

	logger.Info().Str("from", from.String()).Str("to", to.String()).Msg("Copied")
}

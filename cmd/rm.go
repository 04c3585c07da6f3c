// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/LeeDigitalWorks/zapstore/pkg/logger"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:   "rm <key>",
	Short: "Delete an object",
	Long: `Delete an object from the bucket. Deleting a key that does not
exist is not an error.`,
	Args: cobra.ExactArgs(1),
	Run:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) {
	st, opts := openStore(cmd)
	defer st.Close()

	loc := mustLocation(args[0])

	ctx, cancel := commandContext(cmd, opts)
	defer cancel()

	if err := st.Delete(ctx, loc); err != nil {
		logger.Fatal().Err(err).Str("key", loc.String()).Msg("delete failed")
	}

	logger.Info().Str("key", loc.String()).Msg("Deleted")
}

// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"io"
	"os"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <key> [dest]",
	Short: "Download an object",
	Long: `Download an object to a local file, or to stdout when dest is "-"
or omitted. --offset/--length select a byte range; --suffix selects the
final bytes instead.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)

	f := getCmd.Flags()
	f.Int64("offset", 0, "Start reading at this byte offset")
	f.Int64("length", 0, "Read at most this many bytes")
	f.Int64("suffix", 0, "Read only the final N bytes")
}

func runGet(cmd *cobra.Command, args []string) {
	st, opts := openStore(cmd)
	defer st.Close()

	loc := mustLocation(args[0])

	f := NewFlagLoader(cmd)
	offset, length, suffix := f.Int64("offset"), f.Int64("length"), f.Int64("suffix")

	var getOpts objstore.GetOptions
	switch {
	case suffix > 0:
		if offset > 0 || length > 0 {
			logger.Fatal().Msg("--suffix cannot be combined with --offset or --length")
		}
		spec := objstore.RangeSuffix(suffix)
		getOpts.Range = &spec
	case length > 0:
		spec := objstore.RangeBounded(offset, offset+length)
		getOpts.Range = &spec
	case offset > 0:
		spec := objstore.RangeFrom(offset)
		getOpts.Range = &spec
	}

	ctx, cancel := commandContext(cmd, opts)
	defer cancel()

	res, err := st.Get(ctx, loc, getOpts)
	if err != nil {
		logger.Fatal().Err(err).Str("key", loc.String()).Msg("get failed")
	}
	defer res.Body.Close()

	out := os.Stdout
	if len(args) == 2 && args[1] != "-" {
		out, err = os.Create(args[1])
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create destination file")
		}
		defer out.Close()
	}

	n, err := io.Copy(out, res.Body)
	if err != nil {
		logger.Fatal().Err(err).Str("key", loc.String()).Msg("download failed")
	}

	logger.Info().
		Str("key", loc.String()).
		Str("size", humanize.Bytes(uint64(n))).
		Str("etag", res.Meta.ETag).
		Msg("Download complete")
}

// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var putCmd = &cobra.Command{
	Use:   "put <file> <key>",
	Short: "Upload a file to the bucket",
	Long: `Upload a local file to the bucket under the given key.
Files larger than --part-size are streamed through a multipart upload.`,
	Args: cobra.ExactArgs(2),
	Run:  runPut,
}

func init() {
	rootCmd.AddCommand(putCmd)

	putCmd.Flags().String("part-size", "64MiB", "Switch to multipart upload above this size")
}

func runPut(cmd *cobra.Command, args []string) {
	st, opts := openStore(cmd)
	defer st.Close()

	loc := mustLocation(args[1])

	f := NewFlagLoader(cmd)
	partSize, err := humanize.ParseBytes(f.String("part-size"))
	if err != nil || partSize == 0 {
		logger.Fatal().Err(err).Str("part_size", f.String("part-size")).Msg("invalid part size")
	}

	file, err := os.Open(args[0])
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open source file")
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to stat source file")
	}

	ctx, cancel := commandContext(cmd, opts)
	defer cancel()

	start := time.Now()
	var result objstore.PutResult
	if uint64(info.Size()) > partSize {
		result, err = putParts(ctx, st, loc, file, int64(partSize))
	} else {
		var data []byte
		data, err = io.ReadAll(file)
		if err == nil {
			result, err = st.Put(ctx, loc, data)
		}
	}
	if err != nil {
		logger.Fatal().Err(err).Str("key", loc.String()).Msg("put failed")
	}

	logger.Info().
		Str("key", loc.String()).
		Str("size", humanize.Bytes(uint64(info.Size()))).
		Str("etag", result.ETag).
		Dur("elapsed", time.Since(start)).
		Msg("Upload complete")
}

// putParts streams r through a multipart upload in partSize chunks. The
// deferred Abort is a no-op once Complete has succeeded.
func putParts(ctx context.Context, st objstore.Store, loc objstore.Location, r io.Reader, partSize int64) (objstore.PutResult, error) {
	up, err := st.StartUpload(ctx, loc)
	if err != nil {
		return objstore.PutResult{}, err
	}
	defer up.Abort(context.Background())

	buf := make([]byte, partSize)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			if perr := up.PutPart(ctx, buf[:n]); perr != nil {
				return objstore.PutResult{}, perr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return objstore.PutResult{}, err
		}
	}
	return up.Complete(ctx)
}

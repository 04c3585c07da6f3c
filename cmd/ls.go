// Copyright 2025 ZapStore Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/LeeDigitalWorks/zapstore/pkg/logger"
	"github.com/LeeDigitalWorks/zapstore/pkg/objstore"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls [prefix]",
	Short: "List objects under a prefix",
	Long: `List all objects under a prefix. With -d, direct children are
listed and deeper keys are grouped into directory-style common prefixes.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)

	lsCmd.Flags().BoolP("delimiter", "d", false, "Group keys into directory-style common prefixes")
}

func runLs(cmd *cobra.Command, args []string) {
	st, opts := openStore(cmd)
	defer st.Close()

	var prefix objstore.Location
	if len(args) == 1 {
		if raw := strings.TrimSuffix(args[0], "/"); raw != "" {
			prefix = mustLocation(raw)
		}
	}

	ctx, cancel := commandContext(cmd, opts)
	defer cancel()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LAST MODIFIED\tSIZE\tKEY")
	fmt.Fprintln(w, "-------------\t----\t---")

	if NewFlagLoader(cmd).Bool("delimiter") {
		res, err := st.ListWithDelimiter(ctx, prefix)
		if err != nil {
			logger.Fatal().Err(err).Str("prefix", prefix.String()).Msg("list failed")
		}
		for _, p := range res.CommonPrefixes {
			fmt.Fprintf(w, "\tPRE\t%s\n", p)
		}
		for i := range res.Objects {
			printEntry(w, &res.Objects[i])
		}
		w.Flush()
		return
	}

	for meta, err := range st.List(ctx, prefix) {
		if err != nil {
			logger.Fatal().Err(err).Str("prefix", prefix.String()).Msg("list failed")
		}
		printEntry(w, meta)
	}
	w.Flush()
}

func printEntry(w *tabwriter.Writer, meta *objstore.ObjectMeta) {
	fmt.Fprintf(w, "%s\t%s\t%s\n",
		meta.LastModified.Format("2006-01-02 15:04:05"),
		humanize.Bytes(uint64(meta.Size)),
		meta.Location,
	)
}

// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

// Command ncsinfo reads a directory of record files, reports per-file
// problems and checks that the channels form one simultaneous acquisition.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/OpenPSG/ncs"
	"github.com/spf13/cobra"
)

type options struct {
	extension         string
	keyword           string
	skipContinuations bool
	workers           int
	scaling           string
	strict            bool
	frequency         float64
	verbose           bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "ncsinfo <directory>",
		Short: "Inspect and validate a directory of continuous-signal record files",
		Long: `ncsinfo decodes every record file in a directory, reports files that
could not be read and header or record irregularities, and checks that
all channels share the same acquisition window, length, series index
and sampling frequency.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	defaults := ncs.DefaultBatchOptions()
	cmd.Flags().StringVar(&opts.extension, "ext", ncs.DefaultExtension, "extension of the files to read")
	cmd.Flags().StringVarP(&opts.keyword, "keyword", "k", "", "only read files whose name contains this keyword")
	cmd.Flags().BoolVar(&opts.skipContinuations, "skip-continuations", false, "skip files that continue an earlier recording")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", defaults.Workers, "number of files decoded concurrently")
	cmd.Flags().StringVarP(&opts.scaling, "scaling", "s", defaults.Scaling.String(), "unit of the scaled readings (V, mV, uV)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "treat record integrity warnings as errors")
	cmd.Flags().Float64VarP(&opts.frequency, "frequency", "f", 0, "only validate channels sampled at this frequency (Hz)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every file and warning")

	return cmd
}

func run(ctx context.Context, stdout, stderr io.Writer, dir string, opts options) error {
	level := slog.LevelError
	if opts.verbose {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	scaling, err := ncs.ParseScaling(opts.scaling)
	if err != nil {
		return err
	}

	paths, err := ncs.ListFiles(dir, ncs.Filter{
		Extension:         opts.extension,
		Keyword:           opts.keyword,
		SkipContinuations: opts.skipContinuations,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no %s files found in %s", opts.extension, dir)
	}

	res, err := ncs.ReadFiles(ctx, paths, ncs.BatchOptions{
		ReadOptions: ncs.ReadOptions{Scaling: scaling, StrictIntegrity: opts.strict},
		Workers:     opts.workers,
		Logger:      logger,
	})
	if res != nil {
		fmt.Fprint(stdout, res.Summary())
	}
	if err != nil {
		return err
	}

	channels := res.Channels
	if opts.frequency > 0 {
		channels = ncs.SelectByFrequency(channels, opts.frequency)
	}
	if len(channels) == 0 {
		return errors.New("no channels to validate")
	}

	for _, c := range channels {
		fmt.Fprintf(stdout, "%s: %s to %s (%s, %s)\n", c, c.StartTime().Format("2006-01-02 15:04:05.000000"),
			c.EndTime().Format("2006-01-02 15:04:05.000000"), c.Duration(), c.Unit())
	}

	if err := ncs.CheckConsistency(channels); err != nil {
		var ce *ncs.ConsistencyError
		if errors.As(err, &ce) {
			fmt.Fprintf(stderr, "channel %d (%s) is inconsistent with %s\n", ce.ChannelIndex, channels[ce.ChannelIndex].Name(), channels[0].Name())
		}
		return err
	}

	fmt.Fprintf(stdout, "%d channels are consistent.\n", len(channels))
	return nil
}

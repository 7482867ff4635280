// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ncs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ReadOptions control how a single file is turned into a Channel.
type ReadOptions struct {
	Scaling Scaling // Unit of the scaled readings
	// StrictIntegrity turns record integrity warnings into an *IntegrityError.
	StrictIntegrity bool
}

// ReadFile reads one record file and assembles its Channel. Header and
// integrity warnings are returned alongside the channel.
func ReadFile(path string, opts ReadOptions) (*Channel, []Warning, error) {
	if _, err := opts.Scaling.Factor(); err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	nr, err := Open(f)
	if err != nil {
		return nil, nil, err
	}

	records, err := nr.Records()
	if err != nil {
		return nil, nil, err
	}

	integrity := CheckRecords(records)
	if opts.StrictIntegrity && len(integrity) > 0 {
		return nil, nil, &IntegrityError{Warnings: integrity}
	}

	ch, err := Assemble(nr.Header(), records, opts.Scaling)
	if err != nil {
		return nil, nil, err
	}

	warnings := append(append([]Warning(nil), nr.Warnings()...), integrity...)
	return ch, warnings, nil
}

// BatchOptions control ReadFiles.
type BatchOptions struct {
	ReadOptions
	Workers int          // Maximum files decoded concurrently, GOMAXPROCS if <= 0
	Logger  *slog.Logger // slog.Default() if nil
}

// DefaultBatchOptions returns options scaling readings to microvolts with
// one worker per CPU.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		ReadOptions: ReadOptions{Scaling: Microvolts},
		Workers:     runtime.GOMAXPROCS(0),
	}
}

// FileError ties a failure to the file that caused it.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// FileWarnings lists the warnings raised for one file.
type FileWarnings struct {
	Path     string
	Warnings []Warning
}

// BatchResult collects the outcome of ReadFiles. Channels and Paths are
// parallel and keep the input order.
type BatchResult struct {
	ID          uuid.UUID
	Channels    []*Channel
	Paths       []string
	Failed      []*FileError
	Warnings    []FileWarnings
	Unprocessed []string // Files not scheduled because the context was done
}

// ReadFiles reads a set of files using a bounded pool of workers. A file
// that cannot be read is recorded in Failed and does not stop the batch.
// When ctx is done no further files are scheduled and ctx.Err() is returned
// along with the partial result.
func ReadFiles(ctx context.Context, paths []string, opts BatchOptions) (*BatchResult, error) {
	if _, err := opts.Scaling.Factor(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	res := &BatchResult{ID: uuid.New()}
	logger = logger.With("batch", res.ID.String())
	logger.Info("Reading files", "files", len(paths), "workers", workers, "scaling", opts.Scaling.String())

	type outcome struct {
		done     bool
		ch       *Channel
		warnings []Warning
		err      error
	}
	outcomes := make([]outcome, len(paths))

	// Workers never return an error: failures are per file.
	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			ch, warnings, err := ReadFile(path, opts.ReadOptions)
			outcomes[i] = outcome{done: true, ch: ch, warnings: warnings, err: err}
			return nil
		})
	}
	_ = g.Wait()

	for i, o := range outcomes {
		path := paths[i]
		switch {
		case !o.done:
			res.Unprocessed = append(res.Unprocessed, path)
		case o.err != nil:
			logger.Error("Skipping file", "path", path, "error", o.err)
			res.Failed = append(res.Failed, &FileError{Path: path, Err: o.err})
		default:
			for _, w := range o.warnings {
				logger.Warn(w.Message, "path", path, "kind", string(w.Kind))
			}
			if len(o.warnings) > 0 {
				res.Warnings = append(res.Warnings, FileWarnings{Path: path, Warnings: o.warnings})
			}
			res.Channels = append(res.Channels, o.ch)
			res.Paths = append(res.Paths, path)
		}
	}

	logger.Info("Finished reading files",
		"read", len(res.Channels), "failed", len(res.Failed), "unprocessed", len(res.Unprocessed))

	return res, ctx.Err()
}

// Summary describes the batch outcome for display.
func (r *BatchResult) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "batch %s: %d read, %d failed", r.ID, len(r.Channels), len(r.Failed))
	if len(r.Unprocessed) > 0 {
		fmt.Fprintf(&b, ", %d unprocessed", len(r.Unprocessed))
	}
	b.WriteString("\n")

	for _, fe := range r.Failed {
		fmt.Fprintf(&b, "  skipped %s: %v\n", fe.Path, fe.Err)
	}
	for _, fw := range r.Warnings {
		fmt.Fprintf(&b, "  %d warning(s) in %s\n", len(fw.Warnings), fw.Path)
		for _, w := range fw.Warnings {
			fmt.Fprintf(&b, "    %s\n", w)
		}
	}
	for _, path := range r.Unprocessed {
		fmt.Fprintf(&b, "  not processed %s\n", path)
	}

	return b.String()
}

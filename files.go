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
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// DefaultExtension is the extension of continuous-signal record files.
const DefaultExtension = ".ncs"

var seriesSuffix = regexp.MustCompile(`_(\d+)$`)

// SeriesIndex derives the continuation index from a file name such as
// "CSC1_0002.ncs". A name without a numeric suffix is a standalone
// recording with index 0. The name may be quoted and may use either
// path separator, as devices record Windows paths.
func SeriesIndex(name string) uint32 {
	name = strings.Trim(strings.TrimSpace(name), `"`)
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}

	m := seriesSuffix.FindStringSubmatch(name)
	if m == nil {
		return 0
	}

	index, err := strconv.ParseUint(m[1], 10, 32)
	if err != nil {
		return 0
	}
	return uint32(index)
}

// Filter selects the files returned by ListFiles.
type Filter struct {
	Extension         string // File extension, DefaultExtension if empty
	Keyword           string // Keep only names containing Keyword, if set
	SkipContinuations bool   // Drop files with a non-zero series index
}

// ListFiles returns the sorted paths of the files in dir matching the filter.
func ListFiles(dir string, f Filter) ([]string, error) {
	ext := f.Extension
	if ext == "" {
		ext = DefaultExtension
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ext) {
			continue
		}
		if f.Keyword != "" && !strings.Contains(name, f.Keyword) {
			continue
		}
		if f.SkipContinuations && SeriesIndex(name) != 0 {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}

	sort.Strings(paths)
	return paths, nil
}

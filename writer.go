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
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"golang.org/x/text/encoding/charmap"
)

// Writer writes record files.
type Writer struct {
	w       *bufio.Writer
	records int // Number of records written so far.
}

// Create creates a new writer and writes the header block for hdr.
func Create(w io.Writer, hdr Header) (*Writer, error) {
	block, err := EncodeHeader(hdr.Params())
	if err != nil {
		return nil, fmt.Errorf("error encoding header: %w", err)
	}

	nw := &Writer{w: bufio.NewWriter(w)}
	if _, err := nw.w.Write(block); err != nil {
		return nil, fmt.Errorf("error writing header: %w", err)
	}

	return nw, nil
}

// WriteRecord appends a single record.
func (nw *Writer) WriteRecord(rec Record) error {
	if err := binary.Write(nw.w, binary.LittleEndian, &rec); err != nil {
		return fmt.Errorf("error writing record %d: %w", nw.records, err)
	}

	nw.records++
	return nil
}

// Records returns the number of records written so far.
func (nw *Writer) Records() int {
	return nw.records
}

// Close flushes any buffered records. It does not close the underlying writer.
func (nw *Writer) Close() error {
	return nw.w.Flush()
}

// EncodeHeader renders params as a null-padded header block of HeaderSize
// bytes. Parameters are written in key order after the format marker.
func EncodeHeader(params Params) ([]byte, error) {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteString(FormatMarker + "\r\n")
	for _, k := range keys {
		fmt.Fprintf(&buf, "-%s %s\r\n", k, params[k])
	}

	text, err := charmap.ISO8859_1.NewEncoder().Bytes(buf.Bytes())
	if err != nil {
		return nil, err
	}
	if len(text) > HeaderSize {
		return nil, fmt.Errorf("header too large: %d bytes, max is %d bytes", len(text), HeaderSize)
	}

	block := make([]byte, HeaderSize)
	copy(block, text)
	return block, nil
}

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
)

// Reader reads continuous-signal record files.
type Reader struct {
	r        io.ReadSeeker
	params   Params
	hdr      *Header
	warnings []Warning
}

// Open opens a record file for reading. The header block is parsed
// immediately; records are decoded by Records.
func Open(r io.ReadSeeker) (*Reader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to header: %w", err)
	}

	b := make([]byte, HeaderSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	params, warnings := ParseHeader(b)

	hdr, err := ResolveHeader(params)
	if err != nil {
		return nil, err
	}

	return &Reader{
		r:        r,
		params:   params,
		hdr:      hdr,
		warnings: warnings,
	}, nil
}

// Header returns the typed header of the file.
func (nr *Reader) Header() *Header {
	return nr.hdr
}

// Params returns the raw header parameters.
func (nr *Reader) Params() Params {
	return nr.params
}

// Warnings returns the warnings raised while parsing the header.
func (nr *Reader) Warnings() []Warning {
	return nr.warnings
}

// Records decodes every record following the header block.
func (nr *Reader) Records() ([]Record, error) {
	if _, err := nr.r.Seek(HeaderSize, io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to records: %w", err)
	}

	body, err := io.ReadAll(bufio.NewReader(nr.r))
	if err != nil {
		return nil, fmt.Errorf("error reading records: %w", err)
	}

	return DecodeRecords(body)
}

// DecodeRecords decodes a record stream. The stream length must be an exact
// multiple of RecordSize.
func DecodeRecords(body []byte) ([]Record, error) {
	if len(body)%RecordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is %d records plus %d bytes",
			ErrTruncated, len(body), len(body)/RecordSize, len(body)%RecordSize)
	}

	records := make([]Record, len(body)/RecordSize)

	r := bytes.NewReader(body)
	for i := range records {
		if err := binary.Read(r, binary.LittleEndian, &records[i]); err != nil {
			return nil, fmt.Errorf("error decoding record %d: %w", i, err)
		}
	}

	return records, nil
}

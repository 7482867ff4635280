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
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/encoding/charmap"
)

// ParseHeader decodes a raw header block into its key/value parameters.
// Malformed parameter lines are reported as warnings and skipped, parsing
// never fails.
func ParseHeader(raw []byte) (Params, []Warning) {
	text := decodeLatin1(bytes.TrimRight(raw, "\x00"))

	var lines []string
	for _, line := range strings.Split(text, "\r\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	params := make(Params)
	var warnings []Warning

	// The first line is the format marker.
	if len(lines) == 0 {
		return params, nil
	}

	for _, line := range lines[1:] {
		name, value, ok := splitParam(line)
		if !ok {
			warnings = append(warnings, Warning{
				Kind:    WarningMalformedHeaderLine,
				Message: fmt.Sprintf("unable to parse parameter line %q", line),
			})
			continue
		}
		params[name] = value
	}

	return params, warnings
}

// ResolveHeader extracts the typed fields required to assemble a channel,
// leaving every other parameter in Extra.
func ResolveHeader(params Params) (*Header, error) {
	hdr := &Header{Extra: make(Params)}

	for _, key := range []string{KeySamplingFrequency, KeyADBitVolts, KeyAcqEntName, KeyOriginalFileName} {
		if _, ok := params[key]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeaderKey, key)
		}
	}

	var err error
	hdr.SamplingFrequency, err = parseHeaderFloat(params[KeySamplingFrequency])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidHeaderValue, KeySamplingFrequency, err)
	}
	if hdr.SamplingFrequency <= 0 {
		return nil, fmt.Errorf("%w: %s must be positive, got %v", ErrInvalidHeaderValue, KeySamplingFrequency, hdr.SamplingFrequency)
	}

	hdr.ADBitVolts, err = parseHeaderFloat(params[KeyADBitVolts])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidHeaderValue, KeyADBitVolts, err)
	}

	hdr.AcqEntName = params[KeyAcqEntName]
	hdr.OriginalFileName = params[KeyOriginalFileName]

	for k, v := range params {
		switch k {
		case KeySamplingFrequency, KeyADBitVolts, KeyAcqEntName, KeyOriginalFileName:
		default:
			hdr.Extra[k] = v
		}
	}

	return hdr, nil
}

// Params returns every parameter of the header, required and extra.
func (h *Header) Params() Params {
	params := make(Params, len(h.Extra)+4)
	for k, v := range h.Extra {
		params[k] = v
	}
	params[KeySamplingFrequency] = strconv.FormatFloat(h.SamplingFrequency, 'f', -1, 64)
	params[KeyADBitVolts] = strconv.FormatFloat(h.ADBitVolts, 'f', -1, 64)
	params[KeyAcqEntName] = h.AcqEntName
	params[KeyOriginalFileName] = h.OriginalFileName
	return params
}

// SeriesIndex returns the continuation index encoded in OriginalFileName.
func (h *Header) SeriesIndex() uint32 {
	return SeriesIndex(h.OriginalFileName)
}

// splitParam splits a "-NAME VALUE" line on its first run of whitespace.
func splitParam(line string) (name, value string, ok bool) {
	s := strings.TrimSpace(strings.TrimPrefix(line, "-"))

	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}

	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace), true
}

// parseHeaderFloat parses the first field of a numeric header value. Some
// devices list one value per sub-channel.
func parseHeaderFloat(v string) (float64, error) {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(fields[0], 64)
}

// decodeLatin1 decodes ISO-8859-1 text. Every byte value maps to a rune so
// this cannot fail in practice.
func decodeLatin1(b []byte) string {
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(s)
}

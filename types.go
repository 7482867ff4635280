// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ncs

import "errors"

const (
	// HeaderSize is the size of the text header block that precedes the records.
	HeaderSize = 16 * 1024
	// SamplesPerRecord is the number of samples carried by a single record.
	SamplesPerRecord = 512
	// RecordSize is the encoded size of a single record in bytes.
	RecordSize = 8 + 4 + 4 + 4 + 2*SamplesPerRecord
)

// Header keys required to assemble a channel.
const (
	KeySamplingFrequency = "SamplingFrequency"
	KeyADBitVolts        = "ADBitVolts"
	KeyAcqEntName        = "AcqEntName"
	KeyOriginalFileName  = "OriginalFileName"
)

// FormatMarker is written as the first line of every header block.
const FormatMarker = "######## Neuralynx Data File Header"

var (
	ErrTruncated          = errors.New("ncs: record stream length is not a multiple of the record size")
	ErrNoRecords          = errors.New("ncs: file contains no records")
	ErrMissingHeaderKey   = errors.New("ncs: missing required header key")
	ErrInvalidHeaderValue = errors.New("ncs: invalid header value")
	ErrUnknownScaling     = errors.New("ncs: unknown scaling")
	ErrIntegrity          = errors.New("ncs: record integrity check failed")
	ErrInconsistent       = errors.New("ncs: channels are not consistent")
)

// Params is the raw key/value metadata decoded from a header block.
type Params map[string]string

// Header is the typed view of a header block.
type Header struct {
	SamplingFrequency float64 // Sampling frequency in Hz
	ADBitVolts        float64 // Volts per least significant bit
	AcqEntName        string  // Acquisition entity (channel) name
	OriginalFileName  string  // File name the device originally wrote
	Extra             Params  // Every other key found in the header
}

// Record is a single fixed-size unit of the record stream. The field layout
// matches the little-endian wire format exactly.
type Record struct {
	Timestamp       uint64                  // Microseconds, device clock, of the first sample
	ChannelNumber   uint32                  // Acquisition channel number
	SampleFreq      uint32                  // Declared sampling frequency in Hz
	NumValidSamples uint32                  // Number of valid entries in Samples
	Samples         [SamplesPerRecord]int16 // Raw A/D values
}

type WarningKind string

const (
	WarningMalformedHeaderLine WarningKind = "malformed_header_line"
	WarningChannelNumber       WarningKind = "channel_number_changed"
	WarningSampleFreq          WarningKind = "sample_freq_changed"
	WarningInvalidSamples      WarningKind = "invalid_samples"
	WarningTimestampJitter     WarningKind = "timestamp_jitter"
)

// Warning is a non-fatal deviation found while parsing a header or checking records.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string {
	return string(w.Kind) + ": " + w.Message
}

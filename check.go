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
	"strings"
)

// TimestampTolerance is the allowed deviation, in microseconds, of any
// inter-record timestamp delta from the first one.
const TimestampTolerance = 1

// CheckRecords verifies that a record stream is uniform. Every check runs
// and produces at most one warning.
func CheckRecords(records []Record) []Warning {
	if len(records) == 0 {
		return nil
	}

	var warnings []Warning
	first := records[0]

	for i, rec := range records {
		if rec.ChannelNumber != first.ChannelNumber {
			warnings = append(warnings, Warning{
				Kind:    WarningChannelNumber,
				Message: fmt.Sprintf("channel number changed from %d to %d at record %d", first.ChannelNumber, rec.ChannelNumber, i),
			})
			break
		}
	}

	for i, rec := range records {
		if rec.SampleFreq != first.SampleFreq {
			warnings = append(warnings, Warning{
				Kind:    WarningSampleFreq,
				Message: fmt.Sprintf("sampling frequency changed from %d to %d at record %d", first.SampleFreq, rec.SampleFreq, i),
			})
			break
		}
	}

	for i, rec := range records {
		if rec.NumValidSamples != SamplesPerRecord {
			warnings = append(warnings, Warning{
				Kind:    WarningInvalidSamples,
				Message: fmt.Sprintf("record %d has %d valid samples, expected %d", i, rec.NumValidSamples, SamplesPerRecord),
			})
			break
		}
	}

	if len(records) > 1 {
		dt0 := timestampDelta(records[0], records[1])
		for i := 1; i < len(records)-1; i++ {
			dt := timestampDelta(records[i], records[i+1])
			if diff := dt - dt0; diff > TimestampTolerance || diff < -TimestampTolerance {
				warnings = append(warnings, Warning{
					Kind:    WarningTimestampJitter,
					Message: fmt.Sprintf("timestamp delta %dµs at record %d deviates from %dµs", dt, i, dt0),
				})
				break
			}
		}
	}

	return warnings
}

// IntegrityError is returned in place of integrity warnings when they are
// escalated.
type IntegrityError struct {
	Warnings []Warning
}

func (e *IntegrityError) Error() string {
	msgs := make([]string, len(e.Warnings))
	for i, w := range e.Warnings {
		msgs[i] = w.String()
	}
	return fmt.Sprintf("%s: %s", ErrIntegrity, strings.Join(msgs, "; "))
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrity
}

func timestampDelta(a, b Record) int64 {
	return int64(b.Timestamp - a.Timestamp)
}

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
	"errors"
	"fmt"
)

var ErrNoChannels = errors.New("ncs: no channels")

// Fields compared by CheckConsistency.
const (
	FieldSampleCount          = "sample_count"
	FieldAcquisitionWindow    = "acquisition_window"
	FieldSeriesIndex          = "series_index"
	FieldSamplingFrequency    = "sampling_frequency"
	FieldFirstRecordTimestamp = "first_record_timestamp"
	FieldLastRecordTimestamp  = "last_record_timestamp"
)

// ConsistencyError reports the first field in which a channel differs from
// the reference channel.
type ConsistencyError struct {
	Field        string
	ChannelIndex int
	Expected     any
	Actual       any
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("%s: %s of channel %d is %v, expected %v",
		ErrInconsistent, e.Field, e.ChannelIndex, e.Actual, e.Expected)
}

func (e *ConsistencyError) Unwrap() error {
	return ErrInconsistent
}

// Window is the pair of timestamps, in microseconds, of the first and last
// sample of a channel.
type Window struct {
	Start uint64
	End   uint64
}

func (w Window) String() string {
	return fmt.Sprintf("[%d, %d]", w.Start, w.End)
}

// CheckConsistency verifies that every channel was recorded simultaneously
// with channels[0].
func CheckConsistency(channels []*Channel) error {
	if len(channels) == 0 {
		return ErrNoChannels
	}

	ref := channels[0]
	for i, c := range channels[1:] {
		if err := compareChannel(ref, c, i+1); err != nil {
			return err
		}
	}

	return nil
}

func compareChannel(ref, c *Channel, index int) error {
	mismatch := func(field string, expected, actual any) error {
		return &ConsistencyError{Field: field, ChannelIndex: index, Expected: expected, Actual: actual}
	}

	if ref.Len() != c.Len() {
		return mismatch(FieldSampleCount, ref.Len(), c.Len())
	}
	if rw, cw := window(ref), window(c); rw != cw {
		return mismatch(FieldAcquisitionWindow, rw, cw)
	}
	if ref.seriesIndex != c.seriesIndex {
		return mismatch(FieldSeriesIndex, ref.seriesIndex, c.seriesIndex)
	}
	if ref.samplingFrequency != c.samplingFrequency {
		return mismatch(FieldSamplingFrequency, ref.samplingFrequency, c.samplingFrequency)
	}

	rf, rl := boundaryTimestamps(ref.recordTimestamps)
	cf, cl := boundaryTimestamps(c.recordTimestamps)
	if rf != cf {
		return mismatch(FieldFirstRecordTimestamp, rf, cf)
	}
	if rl != cl {
		return mismatch(FieldLastRecordTimestamp, rl, cl)
	}

	return nil
}

func window(c *Channel) Window {
	first, last := boundaryTimestamps(c.timestamps)
	return Window{Start: first, End: last}
}

func boundaryTimestamps(ts []uint64) (first, last uint64) {
	if len(ts) == 0 {
		return 0, 0
	}
	return ts[0], ts[len(ts)-1]
}

// SelectByFrequency returns the channels sampled at hz, in order.
func SelectByFrequency(channels []*Channel, hz float64) []*Channel {
	var selected []*Channel
	for _, c := range channels {
		if c.samplingFrequency == hz {
			selected = append(selected, c)
		}
	}
	return selected
}

// Matrix returns the scaled readings of each channel alongside its name, the
// layout expected by array-oriented exporters.
func Matrix(channels []*Channel) (data [][]float64, names []string) {
	data = make([][]float64, len(channels))
	names = make([]string, len(channels))
	for i, c := range channels {
		data[i] = c.readings
		names[i] = c.name
	}
	return data, names
}

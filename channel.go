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
	"time"
)

// Channel is a single acquisition source assembled from one record file.
// A Channel is immutable once assembled. Slices returned by its accessors
// are shared and must not be modified.
type Channel struct {
	number            uint32
	name              string
	samplingFrequency float64
	seriesIndex       uint32
	scaling           Scaling
	hdr               *Header

	raw              []int16
	readings         []float64
	timestamps       []uint64
	recordTimestamps []uint64
}

// Assemble builds a Channel from a resolved header and its decoded records.
func Assemble(hdr *Header, records []Record, scaling Scaling) (*Channel, error) {
	factor, err := scaling.Factor()
	if err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	n := len(records) * SamplesPerRecord

	raw := make([]int16, 0, n)
	recordTimestamps := make([]uint64, len(records))
	for i := range records {
		raw = append(raw, records[i].Samples[:]...)
		recordTimestamps[i] = records[i].Timestamp
	}

	readings := make([]float64, n)
	for i, v := range raw {
		readings[i] = float64(v) * hdr.ADBitVolts * factor
	}

	return &Channel{
		number:            records[0].ChannelNumber,
		name:              hdr.AcqEntName,
		samplingFrequency: hdr.SamplingFrequency,
		seriesIndex:       hdr.SeriesIndex(),
		scaling:           scaling,
		hdr:               hdr,
		raw:               raw,
		readings:          readings,
		timestamps:        InterpolateTimestamps(recordTimestamps, SamplesPerRecord, n),
		recordTimestamps:  recordTimestamps,
	}, nil
}

// InterpolateTimestamps reconstructs a timestamp for each of n samples from
// per-record start timestamps, where record k starts at sample k*stride.
// Samples between two record starts are linearly interpolated, samples past
// the last record start take its timestamp.
func InterpolateTimestamps(starts []uint64, stride, n int) []uint64 {
	out := make([]uint64, n)
	if len(starts) == 0 || stride <= 0 {
		return out
	}

	for s := range out {
		k := s / stride
		if k >= len(starts)-1 {
			out[s] = starts[len(starts)-1]
			continue
		}

		j := int64(s - k*stride)
		delta := int64(starts[k+1] - starts[k])
		out[s] = starts[k] + uint64(delta*j/int64(stride))
	}

	return out
}

// WithReadings returns a copy of the channel whose scaled readings are
// replaced. Every other field, including the underlying buffers, is shared
// with the receiver which is left untouched.
func (c *Channel) WithReadings(readings []float64) *Channel {
	cc := *c
	cc.readings = readings
	return &cc
}

// Number returns the acquisition channel number.
func (c *Channel) Number() uint32 { return c.number }

// Name returns the acquisition entity name.
func (c *Channel) Name() string { return c.name }

// SamplingFrequency returns the sampling frequency in Hz.
func (c *Channel) SamplingFrequency() float64 { return c.samplingFrequency }

// SeriesIndex is 0 for a standalone recording and the segment number for a
// continuation file.
func (c *Channel) SeriesIndex() uint32 { return c.seriesIndex }

// Scaling returns the unit of the scaled readings.
func (c *Channel) Scaling() Scaling { return c.scaling }

// Unit returns the symbol of the scaled readings' unit.
func (c *Channel) Unit() string { return c.scaling.Unit() }

// Header returns the header the channel was assembled from.
func (c *Channel) Header() *Header { return c.hdr }

// RawReadings returns the raw A/D samples in record order.
func (c *Channel) RawReadings() []int16 { return c.raw }

// Readings returns the scaled samples.
func (c *Channel) Readings() []float64 { return c.readings }

// Timestamps returns the reconstructed per-sample timestamps in microseconds.
func (c *Channel) Timestamps() []uint64 { return c.timestamps }

// RecordTimestamps returns the timestamp carried by each record.
func (c *Channel) RecordTimestamps() []uint64 { return c.recordTimestamps }

// Len returns the number of samples.
func (c *Channel) Len() int { return len(c.readings) }

// Duration returns the length of the recording.
func (c *Channel) Duration() time.Duration {
	return time.Duration(float64(len(c.readings)) * float64(time.Second) / c.samplingFrequency)
}

// StartTime returns the time of the first sample.
func (c *Channel) StartTime() time.Time {
	if len(c.timestamps) == 0 {
		return time.Time{}
	}
	return time.UnixMicro(int64(c.timestamps[0])).UTC()
}

// EndTime returns the time of the last sample.
func (c *Channel) EndTime() time.Time {
	if len(c.timestamps) == 0 {
		return time.Time{}
	}
	return time.UnixMicro(int64(c.timestamps[len(c.timestamps)-1])).UTC()
}

func (c *Channel) String() string {
	return fmt.Sprintf("%s (channel %d, %g Hz, %d samples, series %d)",
		c.name, c.number, c.samplingFrequency, len(c.readings), c.seriesIndex)
}

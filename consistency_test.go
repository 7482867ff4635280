// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package ncs_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/OpenPSG/ncs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConsistency(t *testing.T) {
	const start = 1_600_000_000_000_000

	channels := []*ncs.Channel{
		assembleTest(t, "CSC1", "CSC1.ncs", testRecords(4, start, 1)),
		assembleTest(t, "CSC2", "CSC2.ncs", testRecords(4, start, 2)),
		assembleTest(t, "CSC3", "CSC3.ncs", testRecords(4, start, 3)),
	}
	require.NoError(t, ncs.CheckConsistency(channels))
	require.NoError(t, ncs.CheckConsistency(channels[:1]))

	t.Run("Empty", func(t *testing.T) {
		require.ErrorIs(t, ncs.CheckConsistency(nil), ncs.ErrNoChannels)
	})

	mismatch := func(t *testing.T, other *ncs.Channel) *ncs.ConsistencyError {
		t.Helper()

		err := ncs.CheckConsistency([]*ncs.Channel{channels[0], channels[1], other})
		require.ErrorIs(t, err, ncs.ErrInconsistent)

		var ce *ncs.ConsistencyError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, 2, ce.ChannelIndex)
		return ce
	}

	t.Run("Sample Count", func(t *testing.T) {
		extra := append(slices.Clone(channels[1].Readings()), 0)
		err := ncs.CheckConsistency([]*ncs.Channel{channels[0], channels[1].WithReadings(extra)})

		var ce *ncs.ConsistencyError
		require.True(t, errors.As(err, &ce))
		assert.Equal(t, ncs.FieldSampleCount, ce.Field)
		assert.Equal(t, 1, ce.ChannelIndex)
		assert.Equal(t, 4*ncs.SamplesPerRecord, ce.Expected)
		assert.Equal(t, 4*ncs.SamplesPerRecord+1, ce.Actual)
	})

	t.Run("Acquisition Window", func(t *testing.T) {
		ce := mismatch(t, assembleTest(t, "CSC4", "CSC4.ncs", testRecords(4, start+1, 4)))
		assert.Equal(t, ncs.FieldAcquisitionWindow, ce.Field)
		assert.Equal(t, ncs.Window{Start: start, End: start + 3*testRecordSpan}, ce.Expected)
	})

	t.Run("Series Index", func(t *testing.T) {
		ce := mismatch(t, assembleTest(t, "CSC4", "CSC4_0001.ncs", testRecords(4, start, 4)))
		assert.Equal(t, ncs.FieldSeriesIndex, ce.Field)
		assert.Equal(t, uint32(0), ce.Expected)
		assert.Equal(t, uint32(1), ce.Actual)
	})

	t.Run("Sampling Frequency", func(t *testing.T) {
		hdr := testHeader("CSC4", "CSC4.ncs")
		hdr.SamplingFrequency = 2000
		other, err := ncs.Assemble(&hdr, testRecords(4, start, 4), ncs.Microvolts)
		require.NoError(t, err)

		ce := mismatch(t, other)
		assert.Equal(t, ncs.FieldSamplingFrequency, ce.Field)
		assert.Contains(t, ce.Error(), "sampling_frequency of channel 2")
	})
}

func TestSelectByFrequency(t *testing.T) {
	slow := testHeader("EOG1", "EOG1.ncs")
	slow.SamplingFrequency = 2000
	eog, err := ncs.Assemble(&slow, testRecords(1, 0, 9), ncs.Microvolts)
	require.NoError(t, err)

	csc := assembleTest(t, "CSC1", "CSC1.ncs", testRecords(1, 0, 1))

	assert.Equal(t, []*ncs.Channel{csc}, ncs.SelectByFrequency([]*ncs.Channel{eog, csc}, testFrequency))
	assert.Equal(t, []*ncs.Channel{eog}, ncs.SelectByFrequency([]*ncs.Channel{eog, csc}, 2000))
	assert.Empty(t, ncs.SelectByFrequency([]*ncs.Channel{eog, csc}, 1000))
}

func TestMatrix(t *testing.T) {
	a := assembleTest(t, "CSC1", "CSC1.ncs", testRecords(1, 0, 1))
	b := assembleTest(t, "CSC2", "CSC2.ncs", testRecords(1, 0, 2))

	data, names := ncs.Matrix([]*ncs.Channel{a, b})
	assert.Equal(t, []string{"CSC1", "CSC2"}, names)
	assert.Equal(t, [][]float64{a.Readings(), b.Readings()}, data)
}

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
	"os"
	"path/filepath"
	"testing"

	"github.com/OpenPSG/ncs"
	"github.com/stretchr/testify/require"
)

const (
	testFrequency  = 32000
	testADBitVolts = 0.000030517578125
	// 512 samples at 32 kHz.
	testRecordSpan = 16000
)

func testHeader(name, originalFileName string) ncs.Header {
	return ncs.Header{
		SamplingFrequency: testFrequency,
		ADBitVolts:        testADBitVolts,
		AcqEntName:        name,
		OriginalFileName:  originalFileName,
		Extra: ncs.Params{
			"RecordSize":      "1044",
			"ApplicationName": `Cheetah "5.7.4"`,
		},
	}
}

func testRecords(n int, start uint64, channel uint32) []ncs.Record {
	records := make([]ncs.Record, n)
	for i := range records {
		records[i] = ncs.Record{
			Timestamp:       start + uint64(i)*testRecordSpan,
			ChannelNumber:   channel,
			SampleFreq:      testFrequency,
			NumValidSamples: ncs.SamplesPerRecord,
		}
		for j := range records[i].Samples {
			records[i].Samples[j] = int16((i*ncs.SamplesPerRecord+j)%4096 - 2048)
		}
	}
	return records
}

func writeTestFile(t *testing.T, dir, name string, hdr ncs.Header, records []ncs.Record) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = f.Close()
	})

	nw, err := ncs.Create(f, hdr)
	require.NoError(t, err)

	for _, rec := range records {
		require.NoError(t, nw.WriteRecord(rec))
	}
	require.NoError(t, nw.Close())

	return path
}

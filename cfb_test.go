// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCompoundFileStartsWithOLESignature(t *testing.T) {
	info := []byte{0x04, 0x00, 0x04, 0x00, 'i', 'n', 'f', 'o'}
	pkg := bytes.Repeat([]byte{0xAB}, 5000)

	out, err := writeCompoundFile(info, pkg)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, oleSignature))
}

func TestWriteCompoundFileRoundTripsThroughExtractStreams(t *testing.T) {
	info := []byte("fake-encryption-info-stream-body")
	pkg := bytes.Repeat([]byte{0x42}, 9000)

	out, err := writeCompoundFile(info, pkg)
	require.NoError(t, err)

	gotInfo, gotPkg, err := cfbExtractStreams(out)
	require.NoError(t, err)
	assert.Equal(t, info, gotInfo)
	assert.Equal(t, pkg, gotPkg)
}

func TestWriteCompoundFileSmallStreamsUseMiniStream(t *testing.T) {
	info := []byte("tiny")
	pkg := []byte("also tiny")

	out, err := writeCompoundFile(info, pkg)
	require.NoError(t, err)

	gotInfo, gotPkg, err := cfbExtractStreams(out)
	require.NoError(t, err)
	assert.Equal(t, info, gotInfo)
	assert.Equal(t, pkg, gotPkg)
}

func TestCfbExtractStreamsRejectsGarbage(t *testing.T) {
	_, _, err := cfbExtractStreams([]byte("not a compound file at all"))
	assert.Error(t, err)
}

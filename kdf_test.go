// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntermediateHashDeterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	h1, err := intermediateHash("SHA512", "correct horse", salt, 1000)
	require.NoError(t, err)
	h2, err := intermediateHash("SHA512", "correct horse", salt, 1000)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	h3, err := intermediateHash("SHA512", "different password", salt, 1000)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)
}

func TestIntermediateHashRejectsUnknownAlgorithm(t *testing.T) {
	_, err := intermediateHash("MD5", "x", []byte("salt"), 10)
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindCrypto))
}

func TestBlockKeyDerivesDistinctKeysPerPurpose(t *testing.T) {
	spun, err := intermediateHash("SHA512", "pw", []byte("saltsaltsaltsalt"), 100)
	require.NoError(t, err)

	k1, err := blockKey("SHA512", spun, blockKeyVerifierHashInput, 256)
	require.NoError(t, err)
	k2, err := blockKey("SHA512", spun, blockKeyVerifierHashValue, 256)
	require.NoError(t, err)

	assert.Len(t, k1, 32)
	assert.Len(t, k2, 32)
	assert.NotEqual(t, k1, k2)
}

func TestFitKeyLengthTruncatesAndPads(t *testing.T) {
	hash := []byte{1, 2, 3, 4, 5}
	assert.Equal(t, []byte{1, 2, 3}, fitKeyLength(hash, 3))

	padded := fitKeyLength(hash, 8)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 0x36, 0x36, 0x36}, padded)
}

func TestUTF16LEBytesEncodesASCII(t *testing.T) {
	b, err := utf16LEBytes("AB")
	require.NoError(t, err)
	assert.Equal(t, []byte{'A', 0, 'B', 0}, b)
}

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

func TestZipWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	zw := newZipWriter(&buf)
	require.NoError(t, zw.WriteEntry("xl/workbook.xml", []byte("<workbook/>")))
	require.NoError(t, zw.WriteEntry("[Content_Types].xml", []byte("<Types/>")))
	require.NoError(t, zw.Close())

	zr, err := newZipReader(buf.Bytes())
	require.NoError(t, err)

	data, err := zr.Entry("xl/workbook.xml")
	require.NoError(t, err)
	assert.Equal(t, "<workbook/>", string(data))

	assert.True(t, zr.Has("[Content_Types].xml"))
	assert.False(t, zr.Has("xl/styles.xml"))
}

func TestZipReaderMissingEntryReturnsErrNoSuchEntry(t *testing.T) {
	var buf bytes.Buffer
	zw := newZipWriter(&buf)
	require.NoError(t, zw.WriteEntry("a.xml", []byte("x")))
	require.NoError(t, zw.Close())

	zr, err := newZipReader(buf.Bytes())
	require.NoError(t, err)

	_, err = zr.Entry("missing.xml")
	assert.Equal(t, errNoSuchEntry, err)
}

func TestNewZipReaderRejectsGarbage(t *testing.T) {
	_, err := newZipReader([]byte("not a zip file"))
	assert.Error(t, err)
	assert.True(t, IsKind(err, KindZip))
}

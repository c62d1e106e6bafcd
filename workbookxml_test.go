// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalWorkbookRelsOrdersSheetsThenStylesThenSharedStrings(t *testing.T) {
	_, sheetRelIDs, stylesRelID, sstRelID := marshalWorkbookRels(2, true)
	assert.Equal(t, []string{"rId1", "rId2"}, sheetRelIDs)
	assert.Equal(t, "rId3", stylesRelID)
	assert.Equal(t, "rId4", sstRelID)
}

func TestMarshalWorkbookRelsStylesLastWithoutSharedStrings(t *testing.T) {
	_, sheetRelIDs, stylesRelID, sstRelID := marshalWorkbookRels(1, false)
	assert.Equal(t, []string{"rId1"}, sheetRelIDs)
	assert.Equal(t, "rId2", stylesRelID)
	assert.Equal(t, "", sstRelID)
}

func TestWorkbookXMLMarshalUnmarshalRoundTrip(t *testing.T) {
	wb := NewWorkbook()
	s1, err := wb.AddSheet("Data")
	require.NoError(t, err)
	s2, err := wb.AddSheet("Hidden")
	require.NoError(t, err)
	s2.Hidden = true

	_, sheetRelIDs, _, _ := marshalWorkbookRels(2, false)
	data, err := marshalWorkbookXML([]*Sheet{s1, s2}, sheetRelIDs)
	require.NoError(t, err)

	parsed, err := unmarshalWorkbookXML(data)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Data", parsed[0].Name)
	assert.False(t, parsed[0].Hidden)
	assert.Equal(t, "Hidden", parsed[1].Name)
	assert.True(t, parsed[1].Hidden)
	assert.Equal(t, "rId1", parsed[0].RID)
	assert.Equal(t, "rId2", parsed[1].RID)
}

func TestUnmarshalRelationships(t *testing.T) {
	data, _, _, _ := marshalWorkbookRels(1, true)
	rels, err := unmarshalRelationships(data)
	require.NoError(t, err)
	assert.Equal(t, "worksheets/sheet1.xml", rels["rId1"])
	assert.Equal(t, "styles.xml", rels["rId2"])
	assert.Equal(t, "sharedStrings.xml", rels["rId3"])
}

func TestMarshalContentTypesIncludesSharedStringsOnlyWhenPresent(t *testing.T) {
	withSST := string(marshalContentTypes(1, true))
	withoutSST := string(marshalContentTypes(1, false))
	assert.Contains(t, withSST, "sharedStrings.xml")
	assert.NotContains(t, withoutSST, "sharedStrings.xml")
}

func TestMarshalRootRelsPointsAtWorkbook(t *testing.T) {
	data := marshalRootRels()
	assert.Contains(t, string(data), "xl/workbook.xml")
}

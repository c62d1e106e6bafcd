// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCFRuleTypeXMLNames(t *testing.T) {
	assert.Equal(t, "cellIs", CFCellIs.xmlName())
	assert.Equal(t, "containsErrors", CFContainsErrors.xmlName())
	assert.Equal(t, "duplicateValues", CFDuplicateValues.xmlName())
}

func TestCompareOperatorXMLNames(t *testing.T) {
	assert.Equal(t, "", OpNone.xmlName())
	assert.Equal(t, "between", OpBetween.xmlName())
	assert.Equal(t, "greaterThanOrEqual", OpGreaterThanOrEqual.xmlName())
}

func TestDataValidationTypeXMLNames(t *testing.T) {
	assert.Equal(t, "any", DVAny.xmlName())
	assert.Equal(t, "list", DVList.xmlName())
	assert.Equal(t, "textLength", DVTextLength.xmlName())
}

func TestNewListValidationBuildsQuotedCommaFormula(t *testing.T) {
	r, err := NewCellRange(0, 0, 0, 0)
	assert := assert.New(t)
	assert.NoError(err)

	dv := NewListValidation(r, []string{"Yes", "No", "Maybe"}, true)
	assert.Equal(DVList, dv.Type)
	assert.Equal(`"Yes,No,Maybe"`, dv.Formula1)
	assert.True(dv.ShowDropdown)
}

func TestAutoFilterColumnWithCustomFilter(t *testing.T) {
	r, err := NewCellRange(0, 0, 10, 3)
	assert.NoError(t, err)

	af := AutoFilter{
		Range: r,
		Columns: []AutoFilterColumn{
			{Index: 1, Values: []string{"A", "B"}},
			{Index: 2, Custom: &CustomFilter{
				Op1: FilterGreaterThan, Val1: "10",
				Op2: FilterLessThan, Val2: "100",
				HasOp2: true, Combine: CombineAnd,
			}},
		},
	}
	assert.Len(t, af.Columns, 2)
	assert.Equal(t, "A", af.Columns[0].Values[0])
	assert.True(t, af.Columns[1].Custom.HasOp2)
	assert.Equal(t, CombineAnd, af.Columns[1].Custom.Combine)
}

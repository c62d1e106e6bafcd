// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

// format.go defines the per-sheet formatting-rule value types (spec §3):
// merged regions, conditional formatting, data validation, and
// auto-filters. Grounded on adnsv-go-xl/xl/sheet.go's MergeCell (a single
// string ref, generalized here into explicit coordinates) and CynicDog-
// xlmd/pkg/excel/types.go's approach of modeling OOXML rule enums as
// dedicated Go types rather than raw strings.

// MergedRegion is an inclusive, normalized rectangular region (spec §3).
// It is the same shape as CellRange; kept as a distinct name since a
// sheet's merged-region list is conceptually independent of the ranges
// conditional formats/validations/filters bind to.
type MergedRegion = CellRange

// CFRuleType enumerates the 15 OOXML conditional-formatting rule types
// (spec §3).
type CFRuleType int

const (
	CFCellIs CFRuleType = iota
	CFExpression
	CFColorScale
	CFDataBar
	CFIconSet
	CFTop10
	CFAboveAverage
	CFDuplicateValues
	CFUniqueValues
	CFContainsText
	CFNotContainsText
	CFBeginsWith
	CFEndsWith
	CFContainsBlanks
	CFContainsErrors
)

func (t CFRuleType) xmlName() string {
	switch t {
	case CFCellIs:
		return "cellIs"
	case CFExpression:
		return "expression"
	case CFColorScale:
		return "colorScale"
	case CFDataBar:
		return "dataBar"
	case CFIconSet:
		return "iconSet"
	case CFTop10:
		return "top10"
	case CFAboveAverage:
		return "aboveAverage"
	case CFDuplicateValues:
		return "duplicateValues"
	case CFUniqueValues:
		return "uniqueValues"
	case CFContainsText:
		return "containsText"
	case CFNotContainsText:
		return "notContainsText"
	case CFBeginsWith:
		return "beginsWith"
	case CFEndsWith:
		return "endsWith"
	case CFContainsBlanks:
		return "containsBlanks"
	case CFContainsErrors:
		return "containsErrors"
	default:
		return "cellIs"
	}
}

func cfRuleTypeFromXML(s string) CFRuleType {
	switch s {
	case "expression":
		return CFExpression
	case "colorScale":
		return CFColorScale
	case "dataBar":
		return CFDataBar
	case "iconSet":
		return CFIconSet
	case "top10":
		return CFTop10
	case "aboveAverage":
		return CFAboveAverage
	case "duplicateValues":
		return CFDuplicateValues
	case "uniqueValues":
		return CFUniqueValues
	case "containsText":
		return CFContainsText
	case "notContainsText":
		return CFNotContainsText
	case "beginsWith":
		return CFBeginsWith
	case "endsWith":
		return CFEndsWith
	case "containsBlanks":
		return CFContainsBlanks
	case "containsErrors":
		return CFContainsErrors
	default:
		return CFCellIs
	}
}

// CompareOperator enumerates the 9 OOXML comparison operators shared by
// ConditionalFormat and DataValidation (spec §3).
type CompareOperator int

const (
	OpNone CompareOperator = iota
	OpLessThan
	OpLessThanOrEqual
	OpEqual
	OpNotEqual
	OpGreaterThanOrEqual
	OpGreaterThan
	OpBetween
	OpNotBetween
)

func (o CompareOperator) xmlName() string {
	switch o {
	case OpLessThan:
		return "lessThan"
	case OpLessThanOrEqual:
		return "lessThanOrEqual"
	case OpEqual:
		return "equal"
	case OpNotEqual:
		return "notEqual"
	case OpGreaterThanOrEqual:
		return "greaterThanOrEqual"
	case OpGreaterThan:
		return "greaterThan"
	case OpBetween:
		return "between"
	case OpNotBetween:
		return "notBetween"
	default:
		return ""
	}
}

func compareOperatorFromXML(s string) CompareOperator {
	switch s {
	case "lessThan":
		return OpLessThan
	case "lessThanOrEqual":
		return OpLessThanOrEqual
	case "equal":
		return OpEqual
	case "notEqual":
		return OpNotEqual
	case "greaterThanOrEqual":
		return OpGreaterThanOrEqual
	case "greaterThan":
		return OpGreaterThan
	case "between":
		return OpBetween
	case "notBetween":
		return OpNotBetween
	default:
		return OpNone
	}
}

// ConditionalFormat is one cfRule bound to a range (spec §3).
type ConditionalFormat struct {
	Range     CellRange
	Type      CFRuleType
	Operator  CompareOperator
	Formula1  string
	Formula2  string
	StyleId   StyleId
}

// DataValidationType enumerates the 8 OOXML validation types (spec §3).
type DataValidationType int

const (
	DVAny DataValidationType = iota
	DVWhole
	DVDecimal
	DVList
	DVDate
	DVTime
	DVTextLength
	DVCustom
)

func (t DataValidationType) xmlName() string {
	switch t {
	case DVWhole:
		return "whole"
	case DVDecimal:
		return "decimal"
	case DVList:
		return "list"
	case DVDate:
		return "date"
	case DVTime:
		return "time"
	case DVTextLength:
		return "textLength"
	case DVCustom:
		return "custom"
	default:
		return "any"
	}
}

func dataValidationTypeFromXML(s string) DataValidationType {
	switch s {
	case "whole":
		return DVWhole
	case "decimal":
		return DVDecimal
	case "list":
		return DVList
	case "date":
		return DVDate
	case "time":
		return DVTime
	case "textLength":
		return DVTextLength
	case "custom":
		return DVCustom
	default:
		return DVAny
	}
}

// DataValidation is one validation rule bound to a range (spec §3).
type DataValidation struct {
	Range         CellRange
	Type          DataValidationType
	Operator      CompareOperator
	Formula1      string
	Formula2      string
	ErrorTitle    string
	ErrorMessage  string
	ShowDropdown  bool
}

// NewListValidation builds a validation that restricts input to a literal
// comma-separated item list, the most common facade-level factory (spec §3
// notes factory helpers exist "at the facade layer only"; this package's
// facade is the public constructor set itself).
func NewListValidation(r CellRange, items []string, showDropdown bool) DataValidation {
	formula := `"` + joinComma(items) + `"`
	return DataValidation{Range: r, Type: DVList, Formula1: formula, ShowDropdown: showDropdown}
}

func joinComma(items []string) string {
	out := ""
	for i, it := range items {
		if i > 0 {
			out += ","
		}
		out += it
	}
	return out
}

// FilterCombine selects how an AutoFilterColumn's two custom conditions
// combine.
type FilterCombine int

const (
	CombineAnd FilterCombine = iota
	CombineOr
)

// FilterOperator is the 6-way comparison set AutoFilter custom conditions
// use (spec §3); distinct from CompareOperator because AutoFilter has no
// between/not-between/none members.
type FilterOperator int

const (
	FilterEqual FilterOperator = iota
	FilterNotEqual
	FilterGreaterThan
	FilterGreaterThanOrEqual
	FilterLessThan
	FilterLessThanOrEqual
)

func filterOperatorFromXML(s string) FilterOperator {
	switch s {
	case "notEqual":
		return FilterNotEqual
	case "greaterThan":
		return FilterGreaterThan
	case "greaterThanOrEqual":
		return FilterGreaterThanOrEqual
	case "lessThan":
		return FilterLessThan
	case "lessThanOrEqual":
		return FilterLessThanOrEqual
	default:
		return FilterEqual
	}
}

// CustomFilter is one side (or both) of an AutoFilterColumn's custom
// condition.
type CustomFilter struct {
	Op1, Op2     FilterOperator
	Val1, Val2   string
	HasOp2       bool
	Combine      FilterCombine
}

// AutoFilterColumn restricts one column of an AutoFilter, either by a
// literal value list or a custom condition (spec §3).
type AutoFilterColumn struct {
	Index  int
	Values []string
	Custom *CustomFilter
}

// AutoFilter is a range plus per-column filter criteria (spec §3).
type AutoFilter struct {
	Range   CellRange
	Columns []AutoFilterColumn
}

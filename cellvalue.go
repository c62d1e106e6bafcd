// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"time"

	"github.com/xuri/efp"
)

// cellvalue.go implements the CellValue tagged union (spec §3). Grounded on
// adnsv-go-xl/xl/cell.go's CellType+raw-string pair, generalized into an
// explicit sum type (a Kind tag plus one populated field per variant) since
// this package's public API exposes CellValue directly rather than hiding
// it behind setter methods only.

// ValueKind tags which variant of CellValue is populated.
type ValueKind int

const (
	ValueEmpty ValueKind = iota
	ValueText
	ValueNumber
	ValueBool
	ValueDate
	ValueFormula
	ValueError
)

// ErrorCode is one of the seven Excel error sigils (spec §3).
type ErrorCode string

const (
	ErrNull  ErrorCode = "#NULL!"
	ErrDiv0  ErrorCode = "#DIV/0!"
	ErrValue ErrorCode = "#VALUE!"
	ErrRef   ErrorCode = "#REF!"
	ErrName  ErrorCode = "#NAME?"
	ErrNum   ErrorCode = "#NUM!"
	ErrNA    ErrorCode = "#N/A"
)

// CellValue is the tagged union a Cell carries (spec §3). Only the field(s)
// matching Kind are meaningful; zero value is ValueEmpty.
type CellValue struct {
	Kind ValueKind

	Text string

	Number float64

	Bool bool

	Date time.Time

	FormulaExpr   string
	FormulaCached *CellValue

	ErrorCode ErrorCode
}

func EmptyValue() CellValue { return CellValue{Kind: ValueEmpty} }

func TextValue(s string) CellValue { return CellValue{Kind: ValueText, Text: s} }

func NumberValue(n float64) CellValue { return CellValue{Kind: ValueNumber, Number: n} }

func BoolValue(b bool) CellValue { return CellValue{Kind: ValueBool, Bool: b} }

func DateValue(t time.Time) CellValue { return CellValue{Kind: ValueDate, Date: t} }

// FormulaValue builds a Formula cell; cached may be nil, meaning an Empty
// cached result. expression is tokenized (never evaluated); an expression
// that yields no tokens or ends in an infix operator (such as "A1+") is
// rejected. Other malformations, such as unbalanced parentheses, are not
// detected.
func FormulaValue(expression string, cached *CellValue) (CellValue, error) {
	parser := efp.ExcelParser()
	tokens := parser.Parse(expression)
	if len(tokens) == 0 || tokens[len(tokens)-1].TType == efp.TokenTypeOperatorInfix {
		return CellValue{}, newErr(KindInvalidArgument, "malformed formula: "+expression)
	}
	return formulaValueUnchecked(expression, cached), nil
}

// formulaValueUnchecked builds a Formula cell without syntax validation, for
// the worksheet reader: a formula already persisted in a file round-trips
// as-is even if efp's tokenizer would reject it as a fresh input.
func formulaValueUnchecked(expression string, cached *CellValue) CellValue {
	c := cached
	if c == nil {
		empty := EmptyValue()
		c = &empty
	}
	return CellValue{Kind: ValueFormula, FormulaExpr: expression, FormulaCached: c}
}

func ErrorValue(code ErrorCode) CellValue { return CellValue{Kind: ValueError, ErrorCode: code} }

func (v CellValue) IsEmpty() bool { return v.Kind == ValueEmpty }

// excelNumber returns the numeric wire value Number/Date/Bool variants
// serialize to (spec §4.10: Date is emitted as Number per §4.2).
func (v CellValue) excelNumber() (float64, error) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, nil
	case ValueDate:
		return ToExcelDate(v.Date)
	case ValueBool:
		if v.Bool {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, newErr(KindInvalidArgument, "value has no numeric wire form")
	}
}

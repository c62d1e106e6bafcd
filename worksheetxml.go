// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
)

// worksheetxml.go serializes/parses one xl/worksheets/sheetN.xml part (spec
// §4.10). Grounded on xmlwriter.go's fluent Writer for the hand-assembled
// section ordering Excel enforces, and on xmlreader.go's pull Reader for
// parsing; cell dispatch on the "t" attribute follows the excelize family's
// convention (see stylesxml.go's note on the same struct-tag idiom, not
// reused here since section ORDER, not field declaration order, is what
// must be enforced across optional sibling elements).

// inlineStringPolicy selects whether Text cells are written as shared-
// string references or inline strings (spec §4.10: "either approach is
// conformant").
type inlineStringPolicy int

const (
	useInlineStrings inlineStringPolicy = iota
	useSharedStrings
)

// marshalWorksheet renders one sheet's part. strings is nil when policy is
// useInlineStrings.
func marshalWorksheet(s *Sheet, policy inlineStringPolicy, strings *sharedStringTable) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartDocument()
	w.StartElement("worksheet")
	w.Attribute("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")

	if err := writeCols(w, s); err != nil {
		return nil, err
	}
	if err := writeSheetData(w, s, policy, strings); err != nil {
		return nil, err
	}
	writeSheetProtection(w, s.Protection)
	writeAutoFilter(w, s.AutoFilter)
	writeMergeCells(w, s.Merges)
	writeConditionalFormatting(w, s.ConditionalFormats)
	writeDataValidations(w, s.DataValidations)

	w.EndElement() // worksheet
	if err := w.EndDocument(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCols(w *Writer, s *Sheet) error {
	widths := s.ColumnWidths()
	if len(widths) == 0 {
		return nil
	}
	w.StartElement("cols")
	for _, cw := range widths {
		w.StartElement("col")
		w.AttributeInt("min", cw.Col+1)
		w.AttributeInt("max", cw.Col+1)
		w.Attribute("width", strconv.FormatFloat(cw.Width, 'f', -1, 64))
		w.Attribute("customWidth", "1")
		w.EndElement()
	}
	w.EndElement()
	return nil
}

func writeSheetData(w *Writer, s *Sheet, policy inlineStringPolicy, strings *sharedStringTable) error {
	w.StartElement("sheetData")
	for _, row := range s.Rows() {
		w.StartElement("row")
		w.AttributeInt("r", row.Index+1)
		if row.Height != nil {
			w.Attribute("ht", strconv.FormatFloat(*row.Height, 'f', -1, 64))
			w.Attribute("customHeight", "1")
		}
		if row.Hidden {
			w.Attribute("hidden", "1")
		}
		for _, cell := range row.Cells() {
			if err := writeCell(w, row.Index, cell, policy, strings); err != nil {
				return err
			}
		}
		w.EndElement() // row
	}
	w.EndElement() // sheetData
	return nil
}

func writeCell(w *Writer, rowIdx int, cell Cell, policy inlineStringPolicy, strings *sharedStringTable) error {
	if cell.Value.IsEmpty() && cell.Style == 0 {
		return nil
	}
	ref, err := ToRef(rowIdx, cell.Col)
	if err != nil {
		return err
	}

	switch cell.Value.Kind {
	case ValueEmpty:
		w.StartElement("c")
		w.Attribute("r", ref)
		if cell.Style > 0 {
			w.AttributeInt("s", int(cell.Style))
		}
		w.EndElement()

	case ValueText:
		w.StartElement("c")
		w.Attribute("r", ref)
		if cell.Style > 0 {
			w.AttributeInt("s", int(cell.Style))
		}
		if policy == useSharedStrings && strings != nil {
			idx := strings.add(cell.Value.Text)
			w.Attribute("t", "s")
			w.StartElement("v")
			w.Text(sharedStringRef(idx))
			w.EndElement()
		} else {
			w.Attribute("t", "inlineStr")
			w.StartElement("is")
			w.StartElement("t")
			if hasEdgeWhitespace(cell.Value.Text) {
				w.Attribute("xml:space", "preserve")
			}
			w.Text(cell.Value.Text)
			w.EndElement() // t
			w.EndElement() // is
		}
		w.EndElement() // c

	case ValueNumber, ValueDate, ValueBool:
		num, err := cell.Value.excelNumber()
		if err != nil {
			return err
		}
		w.StartElement("c")
		w.Attribute("r", ref)
		if cell.Style > 0 {
			w.AttributeInt("s", int(cell.Style))
		}
		if cell.Value.Kind == ValueBool {
			w.Attribute("t", "b")
			w.StartElement("v")
			w.Text(strconv.Itoa(int(num)))
			w.EndElement()
		} else {
			w.StartElement("v")
			w.Text(strconv.FormatFloat(num, 'g', -1, 64))
			w.EndElement()
		}
		w.EndElement() // c

	case ValueFormula:
		w.StartElement("c")
		w.Attribute("r", ref)
		if cell.Style > 0 {
			w.AttributeInt("s", int(cell.Style))
		}
		w.StartElement("f")
		w.Text(cell.Value.FormulaExpr)
		w.EndElement() // f
		if cell.Value.FormulaCached != nil && !cell.Value.FormulaCached.IsEmpty() {
			if err := writeFormulaCache(w, *cell.Value.FormulaCached); err != nil {
				return err
			}
		}
		w.EndElement() // c

	case ValueError:
		w.StartElement("c")
		w.Attribute("r", ref)
		if cell.Style > 0 {
			w.AttributeInt("s", int(cell.Style))
		}
		w.Attribute("t", "e")
		w.StartElement("v")
		w.Text(string(cell.Value.ErrorCode))
		w.EndElement()
		w.EndElement() // c
	}
	return nil
}

// writeFormulaCache writes the <v> sibling following <f> for a cached
// formula result. The cached value itself is never a Formula (spec §3).
func writeFormulaCache(w *Writer, cached CellValue) error {
	switch cached.Kind {
	case ValueText:
		w.Attribute("t", "str")
		w.StartElement("v")
		w.Text(cached.Text)
		w.EndElement()
	case ValueError:
		w.Attribute("t", "e")
		w.StartElement("v")
		w.Text(string(cached.ErrorCode))
		w.EndElement()
	default:
		num, err := cached.excelNumber()
		if err != nil {
			return err
		}
		w.StartElement("v")
		w.Text(strconv.FormatFloat(num, 'g', -1, 64))
		w.EndElement()
	}
	return nil
}

func writeSheetProtection(w *Writer, p *SheetProtection) {
	if p == nil {
		return
	}
	w.StartElement("sheetProtection")
	w.Attribute("sheet", "1")
	if p.Password != nil {
		w.Attribute("algorithmName", p.Password.Algorithm)
		w.Attribute("hashValue", base64.StdEncoding.EncodeToString(p.Password.Hash))
		w.Attribute("saltValue", base64.StdEncoding.EncodeToString(p.Password.Salt))
		w.AttributeInt("spinCount", p.Password.SpinCount)
	}
	w.Attribute("objects", "1")
	w.Attribute("scenarios", "1")
	for _, a := range p.invertedAttrs() {
		if a.emit {
			w.Attribute(a.name, "1")
		}
	}
	w.EndElement()
}

func writeAutoFilter(w *Writer, af *AutoFilter) {
	if af == nil {
		return
	}
	w.StartElement("autoFilter")
	w.Attribute("ref", af.Range.String())
	for _, col := range af.Columns {
		w.StartElement("filterColumn")
		w.AttributeInt("colId", col.Index)
		if col.Custom != nil {
			writeCustomFilters(w, col.Custom)
		} else if len(col.Values) > 0 {
			w.StartElement("filters")
			for _, v := range col.Values {
				w.StartElement("filter")
				w.Attribute("val", v)
				w.EndElement()
			}
			w.EndElement()
		}
		w.EndElement() // filterColumn
	}
	w.EndElement() // autoFilter
}

func writeCustomFilters(w *Writer, c *CustomFilter) {
	w.StartElement("customFilters")
	if c.Combine == CombineAnd {
		w.Attribute("and", "1")
	}
	w.StartElement("customFilter")
	w.Attribute("operator", filterOperatorXMLName(c.Op1))
	w.Attribute("val", c.Val1)
	w.EndElement()
	if c.HasOp2 {
		w.StartElement("customFilter")
		w.Attribute("operator", filterOperatorXMLName(c.Op2))
		w.Attribute("val", c.Val2)
		w.EndElement()
	}
	w.EndElement() // customFilters
}

func filterOperatorXMLName(op FilterOperator) string {
	switch op {
	case FilterNotEqual:
		return "notEqual"
	case FilterGreaterThan:
		return "greaterThan"
	case FilterGreaterThanOrEqual:
		return "greaterThanOrEqual"
	case FilterLessThan:
		return "lessThan"
	case FilterLessThanOrEqual:
		return "lessThanOrEqual"
	default:
		return "equal"
	}
}

func writeMergeCells(w *Writer, merges []MergedRegion) {
	if len(merges) == 0 {
		return
	}
	w.StartElement("mergeCells")
	w.AttributeInt("count", len(merges))
	for _, m := range merges {
		w.StartElement("mergeCell")
		w.Attribute("ref", m.String())
		w.EndElement()
	}
	w.EndElement()
}

func writeConditionalFormatting(w *Writer, cfs []ConditionalFormat) {
	for i, cf := range cfs {
		w.StartElement("conditionalFormatting")
		w.Attribute("sqref", cf.Range.String())
		w.StartElement("cfRule")
		w.Attribute("type", cf.Type.xmlName())
		// Per-rule dxf indices are offset by one from the style table: dxfId
		// "2" names the style at StyleId 3, since dxf entries have no slot
		// for the default style.
		if cf.StyleId > 0 {
			w.AttributeInt("dxfId", int(cf.StyleId)-1)
		}
		w.AttributeInt("priority", i+1)
		if op := cf.Operator.xmlName(); op != "" {
			w.Attribute("operator", op)
		}
		if cf.Formula1 != "" {
			w.StartElement("formula")
			w.Text(cf.Formula1)
			w.EndElement()
		}
		if cf.Formula2 != "" {
			w.StartElement("formula")
			w.Text(cf.Formula2)
			w.EndElement()
		}
		w.EndElement() // cfRule
		w.EndElement() // conditionalFormatting
	}
}

func writeDataValidations(w *Writer, dvs []DataValidation) {
	if len(dvs) == 0 {
		return
	}
	w.StartElement("dataValidations")
	w.AttributeInt("count", len(dvs))
	for _, dv := range dvs {
		w.StartElement("dataValidation")
		w.Attribute("type", dv.Type.xmlName())
		if op := dv.Operator.xmlName(); op != "" {
			w.Attribute("operator", op)
		}
		w.Attribute("sqref", dv.Range.String())
		if dv.Type == DVList {
			if dv.ShowDropdown {
				w.Attribute("showDropDown", "0")
			} else {
				w.Attribute("showDropDown", "1")
			}
		}
		if dv.ErrorMessage != "" {
			w.Attribute("showErrorMessage", "1")
			w.Attribute("errorTitle", dv.ErrorTitle)
			w.Attribute("error", dv.ErrorMessage)
		}
		if dv.Formula1 != "" {
			w.StartElement("formula1")
			w.Text(dv.Formula1)
			w.EndElement()
		}
		if dv.Formula2 != "" {
			w.StartElement("formula2")
			w.Text(dv.Formula2)
			w.EndElement()
		}
		w.EndElement() // dataValidation
	}
	w.EndElement() // dataValidations
}

// unmarshalWorksheet parses one sheet's part back into an existing *Sheet.
// Shared-string lookups resolve through strings, which may be nil if the
// workbook carries no sharedStrings part.
func unmarshalWorksheet(data []byte, s *Sheet, strings *sharedStringTable) error {
	r := NewReader(bytes.NewReader(data))
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		if ev == EventDocument {
			return nil
		}
		if ev != EventStart {
			continue
		}
		switch r.Name() {
		case "col":
			if err := parseCol(r, s); err != nil {
				return err
			}
		case "row":
			if err := parseRow(r, s, strings); err != nil {
				return err
			}
		case "sheetProtection":
			parseSheetProtection(r, s)
		case "autoFilter":
			if err := parseAutoFilter(r, s); err != nil {
				return err
			}
		case "mergeCell":
			if err := parseMergeCell(r, s); err != nil {
				return err
			}
		case "conditionalFormatting":
			if err := parseConditionalFormatting(r, s); err != nil {
				return err
			}
		case "dataValidation":
			if err := parseDataValidation(r, s); err != nil {
				return err
			}
		case "extLst":
			// Extension lists can nest future-namespaced copies of the same
			// local names this loop dispatches on; skip the whole subtree.
			if err := r.Skip(); err != nil {
				return err
			}
		default:
			// Container elements (worksheet, cols, sheetData, mergeCells,
			// dataValidations) are descended into, not skipped: their
			// children carry the dispatchable names.
		}
	}
}

func parseCol(r *Reader, s *Sheet) error {
	minStr, _ := r.Attr("min")
	widthStr, hasWidth := r.Attr("width")
	if err := r.Skip(); err != nil {
		return err
	}
	if !hasWidth {
		return nil
	}
	min, err := strconv.Atoi(minStr)
	if err != nil {
		return nil
	}
	width, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		return nil
	}
	return s.SetColumnWidth(min-1, width)
}

func parseRow(r *Reader, s *Sheet, strings *sharedStringTable) error {
	rStr, _ := r.Attr("r")
	rowIdx, err := strconv.Atoi(rStr)
	if err != nil {
		return newErr(KindXMLParse, "row missing numeric r attribute")
	}
	rowIdx--
	row, err := s.Row(rowIdx)
	if err != nil {
		return err
	}
	if htStr, ok := r.Attr("ht"); ok {
		if ht, err := strconv.ParseFloat(htStr, 64); err == nil {
			row.Height = &ht
		}
	}
	if hidden, ok := r.Attr("hidden"); ok && hidden == "1" {
		row.Hidden = true
	}

	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		switch ev {
		case EventStart:
			if depth == 0 && r.Name() == "c" {
				if err := parseCell(r, row, strings); err != nil {
					return err
				}
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				return nil
			}
			depth--
		case EventDocument:
			return newErr(KindXMLParse, "unexpected end of document inside row")
		}
	}
}

func parseCell(r *Reader, row *Row, strings *sharedStringTable) error {
	ref, _ := r.Attr("r")
	_, col, err := ParseRef(ref)
	if err != nil {
		return err
	}
	typ := r.AttrOr("t", "n")
	styleId := 0
	if sAttr, ok := r.Attr("s"); ok {
		if v, err := strconv.Atoi(sAttr); err == nil {
			styleId = v
		}
	}

	value, err := parseCellBody(r, typ, strings)
	if err != nil {
		return err
	}
	if err := row.SetCell(col, value); err != nil {
		return err
	}
	return row.SetCellStyle(col, StyleId(styleId))
}

func parseCellBody(r *Reader, typ string, strings *sharedStringTable) (CellValue, error) {
	var vText string
	var fText string
	var hasV, hasF bool

	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return CellValue{}, err
		}
		switch ev {
		case EventStart:
			switch {
			case depth == 0 && r.Name() == "v":
				t, err := r.ReadText()
				if err != nil {
					return CellValue{}, err
				}
				vText, hasV = t, true
			case depth == 0 && r.Name() == "f":
				t, err := r.ReadText()
				if err != nil {
					return CellValue{}, err
				}
				fText, hasF = t, true
			case depth == 0 && r.Name() == "is":
				t, err := readInlineString(r)
				if err != nil {
					return CellValue{}, err
				}
				vText, hasV = t, true
				typ = "inlineStr"
			default:
				depth++
			}
		case EventEnd:
			if depth == 0 {
				return buildCellValue(typ, vText, hasV, fText, hasF, strings)
			}
			depth--
		case EventDocument:
			return CellValue{}, newErr(KindXMLParse, "unexpected end of document inside cell")
		}
	}
}

func readInlineString(r *Reader) (string, error) {
	depth := 0
	var out string
	for {
		ev, err := r.Next()
		if err != nil {
			return "", err
		}
		switch ev {
		case EventStart:
			if r.Name() == "t" {
				t, err := r.ReadText()
				if err != nil {
					return "", err
				}
				out += t
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				return out, nil
			}
			depth--
		case EventDocument:
			return "", newErr(KindXMLParse, "unexpected end of document inside is")
		}
	}
}

func buildCellValue(typ, vText string, hasV bool, fText string, hasF bool, strings *sharedStringTable) (CellValue, error) {
	if hasF {
		var cached *CellValue
		if hasV {
			c, err := parseScalar(typ, vText, strings)
			if err != nil {
				return CellValue{}, err
			}
			cached = &c
		}
		return formulaValueUnchecked(fText, cached), nil
	}
	if !hasV {
		return EmptyValue(), nil
	}
	return parseScalar(typ, vText, strings)
}

func parseScalar(typ, text string, strings *sharedStringTable) (CellValue, error) {
	switch typ {
	case "b":
		return BoolValue(text == "1"), nil
	case "e":
		return ErrorValue(ErrorCode(text)), nil
	case "s":
		if strings == nil {
			return EmptyValue(), newErr(KindFileCorrupt, "shared-string cell with no sharedStrings part")
		}
		idx, err := strconv.Atoi(text)
		if err != nil {
			return CellValue{}, newErr(KindFileCorrupt, "invalid shared-string index")
		}
		s, ok := strings.get(idx)
		if !ok {
			return CellValue{}, newErr(KindFileCorrupt, "shared-string index out of range")
		}
		return TextValue(s), nil
	case "str", "inlineStr":
		return TextValue(text), nil
	case "", "n":
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return CellValue{}, newErr(KindFileCorrupt, fmt.Sprintf("invalid numeric cell value %q", text))
		}
		return NumberValue(n), nil
	default:
		return CellValue{}, newErr(KindFileCorrupt, fmt.Sprintf("unrecognized cell type %q", typ))
	}
}

func parseSheetProtection(r *Reader, s *Sheet) {
	p := &SheetProtection{
		SelectLockedCells:   true,
		SelectUnlockedCells: true,
		FormatCells:         true,
		FormatColumns:       true,
		FormatRows:          true,
		InsertRows:          true,
		InsertColumns:       true,
		DeleteRows:          true,
		DeleteColumns:       true,
		Sort:                true,
		AutoFilter:          true,
		PivotTables:         true,
	}
	attrIsOne := func(name string) bool {
		v, ok := r.Attr(name)
		return ok && v == "1"
	}
	if attrIsOne("selectLockedCells") {
		p.SelectLockedCells = false
	}
	if attrIsOne("selectUnlockedCells") {
		p.SelectUnlockedCells = false
	}
	if attrIsOne("formatCells") {
		p.FormatCells = false
	}
	if attrIsOne("formatColumns") {
		p.FormatColumns = false
	}
	if attrIsOne("formatRows") {
		p.FormatRows = false
	}
	if attrIsOne("insertRows") {
		p.InsertRows = false
	}
	if attrIsOne("insertColumns") {
		p.InsertColumns = false
	}
	if attrIsOne("deleteRows") {
		p.DeleteRows = false
	}
	if attrIsOne("deleteColumns") {
		p.DeleteColumns = false
	}
	if attrIsOne("sort") {
		p.Sort = false
	}
	if attrIsOne("autoFilter") {
		p.AutoFilter = false
	}
	if attrIsOne("pivotTables") {
		p.PivotTables = false
	}
	if hashValue, ok := r.Attr("hashValue"); ok {
		salt, _ := r.Attr("saltValue")
		algo := r.AttrOr("algorithmName", "SHA-512")
		spin, _ := strconv.Atoi(r.AttrOr("spinCount", "100000"))
		hashBytes, err1 := base64.StdEncoding.DecodeString(hashValue)
		saltBytes, err2 := base64.StdEncoding.DecodeString(salt)
		if err1 == nil && err2 == nil {
			p.Password = &PasswordHash{Algorithm: algo, Salt: saltBytes, Hash: hashBytes, SpinCount: spin}
		}
	}
	s.Protection = p
}

func parseMergeCell(r *Reader, s *Sheet) error {
	ref, _ := r.Attr("ref")
	region, err := ParseRange(ref)
	if err != nil {
		return err
	}
	s.Merges = append(s.Merges, region)
	return nil
}

// parseConditionalFormatting reads one <conditionalFormatting> group back
// into ConditionalFormat entries, one per cfRule, all bound to the group's
// sqref range.
func parseConditionalFormatting(r *Reader, s *Sheet) error {
	sqref, _ := r.Attr("sqref")
	rng, err := ParseRange(sqref)
	if err != nil {
		return err
	}
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		switch ev {
		case EventStart:
			if depth == 0 && r.Name() == "cfRule" {
				cf, err := parseCFRule(r, rng)
				if err != nil {
					return err
				}
				s.ConditionalFormats = append(s.ConditionalFormats, cf)
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				return nil
			}
			depth--
		case EventDocument:
			return newErr(KindXMLParse, "unexpected end of document inside conditionalFormatting")
		}
	}
}

func parseCFRule(r *Reader, rng CellRange) (ConditionalFormat, error) {
	cf := ConditionalFormat{
		Range:    rng,
		Type:     cfRuleTypeFromXML(r.AttrOr("type", "cellIs")),
		Operator: compareOperatorFromXML(r.AttrOr("operator", "")),
	}
	if dxf, ok := r.Attr("dxfId"); ok {
		if v, err := strconv.Atoi(dxf); err == nil {
			cf.StyleId = StyleId(v + 1)
		}
	}
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return cf, err
		}
		switch ev {
		case EventStart:
			if depth == 0 && r.Name() == "formula" {
				text, err := r.ReadText()
				if err != nil {
					return cf, err
				}
				if cf.Formula1 == "" {
					cf.Formula1 = text
				} else {
					cf.Formula2 = text
				}
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				return cf, nil
			}
			depth--
		case EventDocument:
			return cf, newErr(KindXMLParse, "unexpected end of document inside cfRule")
		}
	}
}

func parseDataValidation(r *Reader, s *Sheet) error {
	sqref, _ := r.Attr("sqref")
	rng, err := ParseRange(sqref)
	if err != nil {
		return err
	}
	dv := DataValidation{
		Range:        rng,
		Type:         dataValidationTypeFromXML(r.AttrOr("type", "any")),
		Operator:     compareOperatorFromXML(r.AttrOr("operator", "")),
		ErrorTitle:   r.AttrOr("errorTitle", ""),
		ErrorMessage: r.AttrOr("error", ""),
	}
	if dv.Type == DVList {
		dv.ShowDropdown = r.AttrOr("showDropDown", "0") != "1"
	}
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		switch ev {
		case EventStart:
			name := r.Name()
			if depth == 0 && (name == "formula1" || name == "formula2") {
				text, err := r.ReadText()
				if err != nil {
					return err
				}
				if name == "formula1" {
					dv.Formula1 = text
				} else {
					dv.Formula2 = text
				}
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				s.DataValidations = append(s.DataValidations, dv)
				return nil
			}
			depth--
		case EventDocument:
			return newErr(KindXMLParse, "unexpected end of document inside dataValidation")
		}
	}
}

func parseAutoFilter(r *Reader, s *Sheet) error {
	ref, _ := r.Attr("ref")
	rng, err := ParseRange(ref)
	if err != nil {
		return err
	}
	af := &AutoFilter{Range: rng}
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return err
		}
		switch ev {
		case EventStart:
			if depth == 0 && r.Name() == "filterColumn" {
				col, err := parseFilterColumn(r)
				if err != nil {
					return err
				}
				af.Columns = append(af.Columns, col)
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				s.AutoFilter = af
				return nil
			}
			depth--
		case EventDocument:
			return newErr(KindXMLParse, "unexpected end of document inside autoFilter")
		}
	}
}

func parseFilterColumn(r *Reader) (AutoFilterColumn, error) {
	col := AutoFilterColumn{}
	if idx, ok := r.Attr("colId"); ok {
		if v, err := strconv.Atoi(idx); err == nil {
			col.Index = v
		}
	}
	depth := 0
	customSeen := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return col, err
		}
		switch ev {
		case EventStart:
			switch {
			case depth == 0 && r.Name() == "customFilters":
				combine := CombineOr
				if r.AttrOr("and", "0") == "1" {
					combine = CombineAnd
				}
				col.Custom = &CustomFilter{Combine: combine}
			case depth == 1 && r.Name() == "customFilter" && col.Custom != nil:
				op := filterOperatorFromXML(r.AttrOr("operator", "equal"))
				val := r.AttrOr("val", "")
				if customSeen == 0 {
					col.Custom.Op1, col.Custom.Val1 = op, val
				} else if customSeen == 1 {
					col.Custom.Op2, col.Custom.Val2 = op, val
					col.Custom.HasOp2 = true
				}
				customSeen++
			case depth == 1 && r.Name() == "filter":
				if v, ok := r.Attr("val"); ok {
					col.Values = append(col.Values, v)
				}
			}
			depth++
		case EventEnd:
			if depth == 0 {
				return col, nil
			}
			depth--
		case EventDocument:
			return col, newErr(KindXMLParse, "unexpected end of document inside filterColumn")
		}
	}
}

// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"encoding/xml"
	"sort"
	"sync"

	"github.com/xuri/nfp"
)

// stylesxml.go serializes/parses xl/styles.xml (spec §4.9). Adapted from the
// teacher's xmlStyles.go: same element shapes (xlsxStyleSheet, xlsxFonts,
// xlsxFills, xlsxBorders, xlsxCellXfs, ...) and the same encoding/xml
// struct-tag technique, which gives section ordering "for free" from Go's
// field-declaration order. Generalized from excelize's loosely-typed,
// pointer-heavy Style/output split into this package's own Style/Font/
// Border/Alignment value types (style.go), with dedup performed at both the
// whole-Style and the individual font/fill/border/numFmt level.

type xlsxStyleSheet struct {
	XMLName xml.Name     `xml:"http://schemas.openxmlformats.org/spreadsheetml/2006/main styleSheet"`
	NumFmts *xlsxNumFmts `xml:"numFmts"`
	Fonts   *xlsxFonts   `xml:"fonts"`
	Fills   *xlsxFills   `xml:"fills"`
	Borders *xlsxBorders `xml:"borders"`
	CellXfs *xlsxCellXfs `xml:"cellXfs"`
}

type xlsxNumFmts struct {
	Count  int           `xml:"count,attr"`
	NumFmt []*xlsxNumFmt `xml:"numFmt"`
}

type xlsxNumFmt struct {
	NumFmtID   int    `xml:"numFmtId,attr"`
	FormatCode string `xml:"formatCode,attr"`
}

type xlsxFonts struct {
	Count int         `xml:"count,attr"`
	Font  []*xlsxFont `xml:"font"`
}

type xlsxFont struct {
	B      *attrValBool   `xml:"b"`
	I      *attrValBool   `xml:"i"`
	Strike *attrValBool   `xml:"strike"`
	U      *attrValBool   `xml:"u"`
	Sz     *attrValFloat  `xml:"sz"`
	Color  *xlsxColor     `xml:"color"`
	Name   *attrValString `xml:"name"`
}

type xlsxColor struct {
	RGB string `xml:"rgb,attr,omitempty"`
}

type xlsxFills struct {
	Count int         `xml:"count,attr"`
	Fill  []*xlsxFill `xml:"fill"`
}

type xlsxFill struct {
	PatternFill *xlsxPatternFill `xml:"patternFill"`
}

type xlsxPatternFill struct {
	PatternType string     `xml:"patternType,attr,omitempty"`
	FgColor     *xlsxColor `xml:"fgColor"`
}

type xlsxBorders struct {
	Count  int           `xml:"count,attr"`
	Border []*xlsxBorder `xml:"border"`
}

type xlsxBorder struct {
	Left   xlsxLine `xml:"left"`
	Right  xlsxLine `xml:"right"`
	Top    xlsxLine `xml:"top"`
	Bottom xlsxLine `xml:"bottom"`
}

type xlsxLine struct {
	Style string     `xml:"style,attr,omitempty"`
	Color *xlsxColor `xml:"color"`
}

type xlsxCellXfs struct {
	Count int      `xml:"count,attr"`
	Xf    []xlsxXf `xml:"xf"`
}

type xlsxXf struct {
	NumFmtID          int             `xml:"numFmtId,attr"`
	FontID            int             `xml:"fontId,attr"`
	FillID            int             `xml:"fillId,attr"`
	BorderID          int             `xml:"borderId,attr"`
	ApplyNumberFormat bool            `xml:"applyNumberFormat,attr,omitempty"`
	ApplyFont         bool            `xml:"applyFont,attr,omitempty"`
	ApplyFill         bool            `xml:"applyFill,attr,omitempty"`
	ApplyBorder       bool            `xml:"applyBorder,attr,omitempty"`
	ApplyAlignment    bool            `xml:"applyAlignment,attr,omitempty"`
	ApplyProtection   bool            `xml:"applyProtection,attr,omitempty"`
	Alignment         *xlsxAlignment  `xml:"alignment"`
	Protection        *xlsxProtection `xml:"protection"`
}

type xlsxAlignment struct {
	Horizontal string `xml:"horizontal,attr,omitempty"`
	Vertical   string `xml:"vertical,attr,omitempty"`
	WrapText   bool   `xml:"wrapText,attr,omitempty"`
}

type xlsxProtection struct {
	Locked *bool `xml:"locked,attr"`
	Hidden *bool `xml:"hidden,attr"`
}

// attrValBool/attrValString/attrValFloat wrap the excelize convention of a
// child element carrying its payload in a "val" attribute (e.g. <b val="1"/>
// or a bare <b/> meaning true).
type attrValBool struct {
	Val *bool `xml:"val,attr"`
}

type attrValString struct {
	Val string `xml:"val,attr"`
}

type attrValFloat struct {
	Val float64 `xml:"val,attr"`
}

func boolPtr(b bool) *bool { return &b }

func (a *attrValBool) isTrue() bool { return a != nil && (a.Val == nil || *a.Val) }

// styleTable owns a workbook's deduplicated style list plus its reverse
// index, so add_style is O(1) amortized (spec §9's dedup requirement).
type styleTable struct {
	mu     sync.Mutex
	styles []Style
	index  map[Style]StyleId
}

func newStyleTable() *styleTable {
	t := &styleTable{index: make(map[Style]StyleId)}
	t.addStyle(DefaultStyle)
	return t
}

// addStyle returns s's StyleId, reusing an existing slot if s already
// occurs in the table (spec §3, §9).
func (t *styleTable) addStyle(s Style) StyleId {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.index[s]; ok {
		return id
	}
	id := StyleId(len(t.styles))
	t.styles = append(t.styles, s)
	t.index[s] = id
	return id
}

func (t *styleTable) style(id StyleId) (Style, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) < 0 || int(id) >= len(t.styles) {
		return Style{}, false
	}
	return t.styles[id], true
}

func (t *styleTable) count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.styles)
}

const firstUserNumFmtID = 164

// marshalStyles builds the xl/styles.xml document for a style table,
// deduplicating fonts, fills, borders, and number formats independently of
// the whole-Style dedup already performed by addStyle (spec §4.9).
func marshalStyles(t *styleTable) ([]byte, error) {
	t.mu.Lock()
	styles := append([]Style(nil), t.styles...)
	t.mu.Unlock()

	fontIndex := map[Font]int{}
	var fonts []*xlsxFont
	fontID := func(f Font) int {
		if id, ok := fontIndex[f]; ok {
			return id
		}
		id := len(fonts)
		fontIndex[f] = id
		fonts = append(fonts, fontToXML(f))
		return id
	}

	borderIndex := map[Border]int{}
	var borders []*xlsxBorder
	borderID := func(b Border) int {
		if id, ok := borderIndex[b]; ok {
			return id
		}
		id := len(borders)
		borderIndex[b] = id
		borders = append(borders, borderToXML(b))
		return id
	}

	// Fill table reserves two initial entries (none, gray125) per OOXML
	// conformance, regardless of whether any style uses a fill.
	fillIndex := map[uint32]int{}
	fills := []*xlsxFill{
		{PatternFill: &xlsxPatternFill{PatternType: "none"}},
		{PatternFill: &xlsxPatternFill{PatternType: "gray125"}},
	}
	fillID := func(argb uint32) int {
		if argb == 0 {
			return 0
		}
		if id, ok := fillIndex[argb]; ok {
			return id
		}
		id := len(fills)
		fillIndex[argb] = id
		fills = append(fills, &xlsxFill{PatternFill: &xlsxPatternFill{
			PatternType: "solid",
			FgColor:     &xlsxColor{RGB: argbHex(argb)},
		}})
		return id
	}

	numFmtIndex := map[string]int{}
	var numFmts []*xlsxNumFmt
	nextNumFmtID := firstUserNumFmtID
	numFmtID := func(code string) int {
		if code == "" {
			return 0
		}
		if id, ok := numFmtIndex[code]; ok {
			return id
		}
		id := nextNumFmtID
		nextNumFmtID++
		numFmtIndex[code] = id
		numFmts = append(numFmts, &xlsxNumFmt{NumFmtID: id, FormatCode: code})
		return id
	}

	xfs := make([]xlsxXf, len(styles))
	for i, s := range styles {
		xf := xlsxXf{
			NumFmtID:          numFmtID(s.NumberFormat),
			FontID:            fontID(s.Font),
			FillID:            fillID(s.FillColor),
			BorderID:          borderID(s.Border),
			ApplyNumberFormat: s.NumberFormat != "",
			ApplyFont:         true,
			ApplyFill:         s.FillColor != 0,
			ApplyBorder:       s.Border != Border{},
			ApplyAlignment:    s.Alignment != DefaultAlignment,
			Alignment: &xlsxAlignment{
				Horizontal: alignmentHorizontalXML(s.Alignment.Horizontal),
				Vertical:   alignmentVerticalXML(s.Alignment.Vertical),
				WrapText:   s.WrapText,
			},
			Protection: &xlsxProtection{Locked: boolPtr(s.Locked)},
		}
		xfs[i] = xf
	}

	sheet := xlsxStyleSheet{
		Fonts:   &xlsxFonts{Count: len(fonts), Font: fonts},
		Fills:   &xlsxFills{Count: len(fills), Fill: fills},
		Borders: &xlsxBorders{Count: len(borders), Border: borders},
		CellXfs: &xlsxCellXfs{Count: len(xfs), Xf: xfs},
	}
	if len(numFmts) > 0 {
		sort.Slice(numFmts, func(i, j int) bool { return numFmts[i].NumFmtID < numFmts[j].NumFmtID })
		sheet.NumFmts = &xlsxNumFmts{Count: len(numFmts), NumFmt: numFmts}
	}

	out, err := xml.Marshal(sheet)
	if err != nil {
		return nil, wrapErr(KindXMLParse, "marshaling styles.xml", err)
	}
	return append([]byte(xmlDeclaration), out...), nil
}

// alignmentHorizontalXML never emits "general" explicitly: the default
// attribute value already is general, so emitting nothing is equivalent and
// preferred for a smaller, idiomatic document.
func alignmentHorizontalXML(h HorizontalAlign) string {
	if h == AlignGeneral {
		return ""
	}
	return h.xmlName()
}

func alignmentVerticalXML(v VerticalAlign) string {
	if v == AlignBottom {
		return ""
	}
	return v.xmlName()
}

func fontToXML(f Font) *xlsxFont {
	x := &xlsxFont{
		Sz:   &attrValFloat{Val: f.Size},
		Name: &attrValString{Val: f.Name},
	}
	if f.Bold {
		x.B = &attrValBool{}
	}
	if f.Italic {
		x.I = &attrValBool{}
	}
	if f.Strikethrough {
		x.Strike = &attrValBool{}
	}
	if f.Underline {
		x.U = &attrValBool{}
	}
	if f.Color != 0 {
		x.Color = &xlsxColor{RGB: argbHex(f.Color)}
	}
	return x
}

func fontFromXML(x *xlsxFont) Font {
	f := DefaultFont
	if x == nil {
		return f
	}
	if x.Sz != nil {
		f.Size = x.Sz.Val
	}
	if x.Name != nil {
		f.Name = x.Name.Val
	}
	f.Bold = x.B.isTrue()
	f.Italic = x.I.isTrue()
	f.Strikethrough = x.Strike.isTrue()
	f.Underline = x.U.isTrue()
	if x.Color != nil {
		f.Color = argbFromHex(x.Color.RGB)
	}
	return f
}

func borderToXML(b Border) *xlsxBorder {
	return &xlsxBorder{
		Left:   lineToXML(b.Left),
		Right:  lineToXML(b.Right),
		Top:    lineToXML(b.Top),
		Bottom: lineToXML(b.Bottom),
	}
}

func lineToXML(s BorderSide) xlsxLine {
	l := xlsxLine{Style: s.Style.xmlName()}
	if s.Color != 0 {
		l.Color = &xlsxColor{RGB: argbHex(s.Color)}
	}
	return l
}

func borderFromXML(x *xlsxBorder) Border {
	if x == nil {
		return Border{}
	}
	return Border{
		Left:   lineFromXML(x.Left),
		Right:  lineFromXML(x.Right),
		Top:    lineFromXML(x.Top),
		Bottom: lineFromXML(x.Bottom),
	}
}

func lineFromXML(l xlsxLine) BorderSide {
	s := BorderSide{Style: borderStyleFromXML(l.Style)}
	if l.Color != nil {
		s.Color = argbFromHex(l.Color.RGB)
	}
	return s
}

// unmarshalStyles parses an xl/styles.xml document into a fresh styleTable,
// rebuilding each cellXf entry's complete Style (spec §4.9's "on read,
// build the inverse map" requirement).
func unmarshalStyles(data []byte) (*styleTable, error) {
	var sheet xlsxStyleSheet
	if err := xml.Unmarshal(data, &sheet); err != nil {
		return nil, wrapErr(KindXMLParse, "parsing styles.xml", err)
	}

	numFmtByID := map[int]string{}
	if sheet.NumFmts != nil {
		for _, nf := range sheet.NumFmts.NumFmt {
			numFmtByID[nf.NumFmtID] = nf.FormatCode
		}
	}

	var fonts []Font
	if sheet.Fonts != nil {
		for _, f := range sheet.Fonts.Font {
			fonts = append(fonts, fontFromXML(f))
		}
	}

	var fills []uint32
	if sheet.Fills != nil {
		for _, fl := range sheet.Fills.Fill {
			var argb uint32
			if fl.PatternFill != nil && fl.PatternFill.PatternType == "solid" && fl.PatternFill.FgColor != nil {
				argb = argbFromHex(fl.PatternFill.FgColor.RGB)
			}
			fills = append(fills, argb)
		}
	}

	var borders []Border
	if sheet.Borders != nil {
		for _, b := range sheet.Borders.Border {
			borders = append(borders, borderFromXML(b))
		}
	}

	t := &styleTable{index: make(map[Style]StyleId)}
	if sheet.CellXfs != nil {
		for _, xf := range sheet.CellXfs.Xf {
			s := Style{Alignment: DefaultAlignment, Locked: true}
			if xf.FontID >= 0 && xf.FontID < len(fonts) {
				s.Font = fonts[xf.FontID]
			} else {
				s.Font = DefaultFont
			}
			if xf.FillID >= 0 && xf.FillID < len(fills) {
				s.FillColor = fills[xf.FillID]
			}
			if xf.BorderID >= 0 && xf.BorderID < len(borders) {
				s.Border = borders[xf.BorderID]
			}
			if code, ok := numFmtByID[xf.NumFmtID]; ok {
				s.NumberFormat = code
			}
			if xf.Alignment != nil {
				s.Alignment = Alignment{
					Horizontal: horizontalAlignFromXML(xf.Alignment.Horizontal),
					Vertical:   verticalAlignFromXML(xf.Alignment.Vertical),
				}
				s.WrapText = xf.Alignment.WrapText
			}
			if xf.Protection != nil && xf.Protection.Locked != nil {
				s.Locked = *xf.Protection.Locked
			}
			t.styles = append(t.styles, s)
			t.index[s] = StyleId(len(t.styles) - 1)
		}
	}
	if len(t.styles) == 0 {
		t.addStyle(DefaultStyle)
	}
	return t, nil
}

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func argbHex(v uint32) string {
	const hexDigits = "0123456789ABCDEF"
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(b)
}

func argbFromHex(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint32
		switch {
		case c >= '0' && c <= '9':
			d = uint32(c - '0')
		case c >= 'A' && c <= 'F':
			d = uint32(c-'A') + 10
		case c >= 'a' && c <= 'f':
			d = uint32(c-'a') + 10
		default:
			continue
		}
		v = v<<4 | d
	}
	return v
}

// IsDateNumberFormat reports whether code (a Style.NumberFormat code) renders
// a date or time value, tokenizing the format string with nfp rather than
// hand-scanning its characters (grounded on TsubasaBE-go-xlsb's numfmt
// package, which hand-rolls this same classification for custom codes).
func IsDateNumberFormat(code string) bool {
	if code == "" || code == "General" {
		return false
	}
	if d, ok := builtinDateNumberFormats[code]; ok {
		return d
	}
	ps := nfp.NumberFormatParser()
	for _, sec := range ps.Parse(code) {
		for _, tok := range sec.Items {
			if tok.TType == nfp.TokenTypeDateTimes || tok.TType == nfp.TokenTypeElapsedDateTimes {
				return true
			}
		}
	}
	return false
}

// builtinDateNumberFormats lists the stock ECMA-376 date/time format codes a
// caller is likely to assign to Style.NumberFormat directly, so common cases
// short-circuit without invoking the parser.
var builtinDateNumberFormats = map[string]bool{
	"m/d/yy h:mm":   true,
	"m/d/yy":        true,
	"d-mmm-yy":      true,
	"d-mmm":         true,
	"mmm-yy":        true,
	"h:mm AM/PM":    true,
	"h:mm:ss AM/PM": true,
	"h:mm":          true,
	"h:mm:ss":       true,
	"mm:ss":         true,
	"mm:ss.0":       true,
	"[h]:mm:ss":     true,
}

// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

// style.go defines the in-memory Style value model (spec §3): Font, Border,
// Alignment, and the composite Style type that a workbook's style table
// deduplicates by structural equality. Grounded on the teacher's Style/Font/
// Border/Alignment/Protection value types in xmlStyles.go, generalized from
// excelize's index-based fields to the spec's explicit enums and ARGB colors.

// StyleId is a non-negative index into a Workbook's style table. StyleId 0
// is always the default style.
type StyleId int

// BorderStyle enumerates the line styles a Border side can have.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderMedium
	BorderThick
	BorderDouble
	BorderDashed
	BorderDotted
)

func (s BorderStyle) xmlName() string {
	switch s {
	case BorderThin:
		return "thin"
	case BorderMedium:
		return "medium"
	case BorderThick:
		return "thick"
	case BorderDouble:
		return "double"
	case BorderDashed:
		return "dashed"
	case BorderDotted:
		return "dotted"
	default:
		return ""
	}
}

func borderStyleFromXML(s string) BorderStyle {
	switch s {
	case "thin":
		return BorderThin
	case "medium":
		return BorderMedium
	case "thick":
		return BorderThick
	case "double":
		return BorderDouble
	case "dashed":
		return BorderDashed
	case "dotted":
		return BorderDotted
	default:
		return BorderNone
	}
}

// HorizontalAlign enumerates horizontal cell alignment.
type HorizontalAlign int

const (
	AlignGeneral HorizontalAlign = iota
	AlignLeft
	AlignCenter
	AlignRight
	AlignFill
	AlignJustify
)

func (h HorizontalAlign) xmlName() string {
	switch h {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignFill:
		return "fill"
	case AlignJustify:
		return "justify"
	default:
		return "general"
	}
}

func horizontalAlignFromXML(s string) HorizontalAlign {
	switch s {
	case "left":
		return AlignLeft
	case "center":
		return AlignCenter
	case "right":
		return AlignRight
	case "fill":
		return AlignFill
	case "justify":
		return AlignJustify
	default:
		return AlignGeneral
	}
}

// VerticalAlign enumerates vertical cell alignment.
type VerticalAlign int

const (
	AlignBottom VerticalAlign = iota
	AlignTop
	AlignMiddle
)

func (v VerticalAlign) xmlName() string {
	switch v {
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "center"
	default:
		return "bottom"
	}
}

func verticalAlignFromXML(s string) VerticalAlign {
	switch s {
	case "top":
		return AlignTop
	case "center":
		return AlignMiddle
	default:
		return AlignBottom
	}
}

// BorderSide is one edge ({style, ARGB color}) of a Border.
type BorderSide struct {
	Style BorderStyle
	Color uint32 // ARGB; 0 means "no explicit color"
}

// Border collects the four sides a cell's box model can carry (spec §3).
type Border struct {
	Left, Right, Top, Bottom BorderSide
}

// Font describes a named, sized, colored typeface (spec §3). The default
// font is {"Calibri", 11.0, 0xFF000000, false, false, false, false}.
type Font struct {
	Name          string
	Size          float64
	Color         uint32
	Bold          bool
	Italic        bool
	Underline     bool
	Strikethrough bool
}

// DefaultFont is the style table slot-0 font (spec §3).
var DefaultFont = Font{Name: "Calibri", Size: 11.0, Color: 0xFF000000}

// Alignment describes horizontal/vertical text placement (spec §3).
type Alignment struct {
	Horizontal HorizontalAlign
	Vertical   VerticalAlign
}

// DefaultAlignment is "general/bottom", the style table slot-0 alignment.
var DefaultAlignment = Alignment{Horizontal: AlignGeneral, Vertical: AlignBottom}

// Style is the composite value a StyleId names (spec §3). All fields are
// value types; equality is structural, which is how add_style dedupes.
type Style struct {
	Font         Font
	Border       Border
	FillColor    uint32 // ARGB; 0x00000000 means "no fill"
	Alignment    Alignment
	NumberFormat string // empty means "General"
	WrapText     bool
	Locked       bool
}

// DefaultStyle is what StyleId 0 MUST be (spec §3): default font, no fill,
// no borders, general/bottom alignment, no number format, wrap=false,
// locked=true.
var DefaultStyle = Style{
	Font:      DefaultFont,
	Alignment: DefaultAlignment,
	Locked:    true,
}

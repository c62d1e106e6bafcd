// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBorderStyleXMLRoundTrip(t *testing.T) {
	for _, b := range []BorderStyle{
		BorderThin, BorderMedium, BorderThick, BorderDouble, BorderDashed, BorderDotted,
	} {
		name := b.xmlName()
		assert.NotEmpty(t, name)
		assert.Equal(t, b, borderStyleFromXML(name))
	}
	assert.Equal(t, "", BorderNone.xmlName())
	assert.Equal(t, BorderNone, borderStyleFromXML("unknown"))
}

func TestHorizontalAlignXMLRoundTrip(t *testing.T) {
	for _, h := range []HorizontalAlign{
		AlignLeft, AlignCenter, AlignRight, AlignFill, AlignJustify,
	} {
		assert.Equal(t, h, horizontalAlignFromXML(h.xmlName()))
	}
	assert.Equal(t, "general", AlignGeneral.xmlName())
	assert.Equal(t, AlignGeneral, horizontalAlignFromXML("bogus"))
}

func TestVerticalAlignXMLRoundTrip(t *testing.T) {
	assert.Equal(t, "top", AlignTop.xmlName())
	assert.Equal(t, "center", AlignMiddle.xmlName())
	assert.Equal(t, "bottom", AlignBottom.xmlName())

	assert.Equal(t, AlignTop, verticalAlignFromXML("top"))
	assert.Equal(t, AlignMiddle, verticalAlignFromXML("center"))
	assert.Equal(t, AlignBottom, verticalAlignFromXML("anything-else"))
}

func TestDefaultStyleInvariants(t *testing.T) {
	assert.Equal(t, DefaultFont, DefaultStyle.Font)
	assert.Equal(t, DefaultAlignment, DefaultStyle.Alignment)
	assert.Equal(t, Border{}, DefaultStyle.Border)
	assert.Equal(t, uint32(0), DefaultStyle.FillColor)
	assert.Equal(t, "", DefaultStyle.NumberFormat)
	assert.False(t, DefaultStyle.WrapText)
	assert.True(t, DefaultStyle.Locked)
}

func TestDefaultFontAndAlignment(t *testing.T) {
	assert.Equal(t, "Calibri", DefaultFont.Name)
	assert.Equal(t, 11.0, DefaultFont.Size)
	assert.Equal(t, uint32(0xFF000000), DefaultFont.Color)

	assert.Equal(t, AlignGeneral, DefaultAlignment.Horizontal)
	assert.Equal(t, AlignBottom, DefaultAlignment.Vertical)
}

func TestStyleStructuralEquality(t *testing.T) {
	a := Style{Font: Font{Name: "Arial", Size: 10}, Locked: true}
	b := Style{Font: Font{Name: "Arial", Size: 10}, Locked: true}
	c := Style{Font: Font{Name: "Arial", Size: 11}, Locked: true}
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

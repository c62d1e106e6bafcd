// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"io"
	"strconv"
	"strings"
)

// Writer is a strict, stack-checked streaming XML writer: start_document,
// start_element(name), attribute(name, value), text(value),
// empty_element(name), end_element, end_document, with strict open/close
// pairing (spec §4.3). Output is UTF-8 with the standard XML declaration.
//
// The fluent chaining (StartElement/Attribute/... returning *Writer) follows
// the OTag/Attr/CTag shape of adnsv-go-xl/xl/writer.go, reimplemented here
// over a plain io.Writer rather than imported. Only stylesxml.go relies on
// encoding/xml.Marshal's field-declaration order; every other part
// (worksheets, workbook.xml, [Content_Types].xml, .rels) is assembled with
// this writer, where section order across optional siblings and exact
// attribute ordering matter more than a struct tag can express.
type Writer struct {
	w       io.Writer
	stack   []string
	started bool
	pending bool // true once '<name' has been written but its '>' not yet closed
	err     error
}

// NewWriter constructs a Writer that emits to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (x *Writer) write(s string) {
	if x.err != nil {
		return
	}
	_, x.err = io.WriteString(x.w, s)
}

// closeStartTag finalizes the '>' of a still-open start tag, if any.
func (x *Writer) closeStartTag() {
	if x.pending {
		x.pending = false
		x.write(">")
	}
}

// StartDocument writes the standard XML declaration. Must be called at most
// once, before any element.
func (x *Writer) StartDocument() *Writer {
	if x.started {
		x.err = newErr(KindXMLParse, "StartDocument called more than once")
		return x
	}
	x.started = true
	x.write(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	return x
}

// StartElement opens a new element named name and pushes it onto the tag
// stack. Following Attribute calls decorate this element until the next
// Text, StartElement, EmptyElement, or EndElement call.
func (x *Writer) StartElement(name string) *Writer {
	x.closeStartTag()
	x.write("<" + name)
	x.stack = append(x.stack, name)
	x.pending = true
	return x
}

// Attribute writes an attribute on the most recently started element.
func (x *Writer) Attribute(name string, value string) *Writer {
	if !x.pending {
		x.err = newErr(KindXMLParse, "Attribute called outside an open start tag")
		return x
	}
	x.write(" " + name + `="` + escapeAttr(value) + `"`)
	return x
}

// AttributeInt writes an integer-valued attribute.
func (x *Writer) AttributeInt(name string, value int) *Writer {
	return x.Attribute(name, strconv.Itoa(value))
}

// Text writes escaped character content inside the current element.
func (x *Writer) Text(value string) *Writer {
	x.closeStartTag()
	x.write(escapeText(value))
	return x
}

// EmptyElement writes a complete, attribute-less self-closing element, e.g.
// <left/>, and does not affect the open-element stack.
func (x *Writer) EmptyElement(name string) *Writer {
	x.closeStartTag()
	x.write("<" + name + "/>")
	return x
}

// EndElement closes the most recently opened, still-open element.
func (x *Writer) EndElement() *Writer {
	if len(x.stack) == 0 {
		x.err = newErr(KindXMLParse, "EndElement with no matching StartElement")
		return x
	}
	name := x.stack[len(x.stack)-1]
	x.stack = x.stack[:len(x.stack)-1]
	if x.pending {
		x.pending = false
		x.write("/>")
		return x
	}
	x.write("</" + name + ">")
	return x
}

// EndDocument verifies that every StartElement has a matching EndElement and
// returns any deferred write error.
func (x *Writer) EndDocument() error {
	if x.err != nil {
		return x.err
	}
	if len(x.stack) != 0 {
		return newErr(KindXMLParse, "unclosed elements: "+strings.Join(x.stack, ","))
	}
	return nil
}

func escapeAttr(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;", `"`, "&quot;", "\t", "&#9;", "\n", "&#10;", "\r", "&#13;")
	return r.Replace(s)
}

func escapeText(s string) string {
	r := strings.NewReplacer(`&`, "&amp;", `<`, "&lt;", `>`, "&gt;")
	return r.Replace(s)
}

// hasEdgeWhitespace reports whether s starts or ends with a whitespace code
// point, the trigger for emitting xml:space="preserve" on inline strings
// (spec §4.10).
func hasEdgeWhitespace(s string) bool {
	if s == "" {
		return false
	}
	isSpace := func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
	return isSpace(s[0]) || isSpace(s[len(s)-1])
}

// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"bytes"
	"io"
	"strconv"
)

// sharedstrings.go implements the xl/sharedStrings.xml part codec (spec
// §3/§4.10: "a Text cell value is either an index into a workbook-level
// shared-strings table or an inline string, chosen by policy"). Grounded on
// stylesxml.go's dedup-table shape (structural-equality index keyed on the
// value itself) and xmlwriter.go/xmlreader.go for the part's own I/O.

// sharedStringTable deduplicates the text values written as shared strings
// across an entire workbook, mirroring styleTable's approach for Style
// values.
type sharedStringTable struct {
	strings []string
	index   map[string]int
}

func newSharedStringTable() *sharedStringTable {
	return &sharedStringTable{index: make(map[string]int)}
}

// add returns s's 0-based index into the shared-strings table, reusing an
// existing slot if s was already added.
func (t *sharedStringTable) add(s string) int {
	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = i
	return i
}

func (t *sharedStringTable) get(i int) (string, bool) {
	if i < 0 || i >= len(t.strings) {
		return "", false
	}
	return t.strings[i], true
}

func (t *sharedStringTable) count() int { return len(t.strings) }

// marshalSharedStrings renders the shared-strings table as xl/sharedStrings.xml.
func marshalSharedStrings(t *sharedStringTable) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartDocument()
	w.StartElement("sst")
	w.Attribute("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	w.AttributeInt("count", len(t.strings))
	w.AttributeInt("uniqueCount", len(t.strings))
	for _, s := range t.strings {
		w.StartElement("si")
		w.StartElement("t")
		if hasEdgeWhitespace(s) {
			w.Attribute("xml:space", "preserve")
		}
		w.Text(s)
		w.EndElement() // t
		w.EndElement() // si
	}
	w.EndElement() // sst
	w.EndDocument()
	return buf.Bytes(), nil
}

// unmarshalSharedStrings parses xl/sharedStrings.xml into a fresh table,
// preserving on-disk order (index i in the file becomes index i in the
// table).
func unmarshalSharedStrings(data []byte) (*sharedStringTable, error) {
	r := NewReader(bytes.NewReader(data))
	t := newSharedStringTable()

	for {
		ev, err := r.Next()
		if err != nil {
			return nil, err
		}
		if ev == EventDocument {
			break
		}
		if ev != EventStart || r.Name() != "si" {
			continue
		}
		s, err := readSI(r)
		if err != nil {
			return nil, err
		}
		t.strings = append(t.strings, s)
		t.index[s] = len(t.strings) - 1
	}
	return t, nil
}

// readSI concatenates the text runs of a <si> element, which may be a bare
// <t> or a sequence of rich-text <r><t>...</t></r> runs; inline formatting
// within each run is discarded (spec records no rich-text run formatting in
// the data model).
func readSI(r *Reader) (string, error) {
	var sb []byte
	depth := 0
	for {
		ev, err := r.Next()
		if err != nil {
			return "", err
		}
		switch ev {
		case EventStart:
			if r.Name() == "t" {
				text, err := r.ReadText()
				if err != nil {
					return "", err
				}
				sb = append(sb, text...)
				continue
			}
			depth++
		case EventEnd:
			if depth == 0 {
				return string(sb), nil
			}
			depth--
		case EventDocument:
			return "", wrapErr(KindXMLParse, "unexpected end of document while reading si", io.ErrUnexpectedEOF)
		}
	}
}

// sharedStringRef renders a shared-string index as the decimal text a
// cell's <v> element stores, kept as its own helper since the worksheet
// codec needs the same conversion in both directions.
func sharedStringRef(i int) string { return strconv.Itoa(i) }

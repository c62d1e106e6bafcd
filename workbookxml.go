// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"bytes"
	"strconv"
)

// workbookxml.go serializes/parses the package-level parts that tie a
// workbook's sheets together: xl/workbook.xml, [Content_Types].xml,
// _rels/.rels, and xl/_rels/workbook.xml.rels (spec §6). Grounded on
// adnsv-go-xl/xl/writer.go's writeWorkbook/writeContentTypes/writeRels,
// reimplemented over this package's own xmlwriter.go Writer since the
// teacher builds its relationship/content-type maps as it visits each part
// writer, while this package computes the full part list up front from a
// *Workbook (spec §4.12's orchestrator owns sequencing, not each part).

const (
	relNSOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relNSWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relNSStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNSSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	relNSPackage        = "http://schemas.openxmlformats.org/package/2006/relationships"

	ctWorkbook      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	ctWorksheet     = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	ctSharedStrings = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
)

// marshalWorkbookXML renders xl/workbook.xml: each sheet listed by name,
// 1-based sheetId, and r:id, in display-index order (spec §6).
func marshalWorkbookXML(sheets []*Sheet, sheetRels []string) ([]byte, error) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartDocument()
	w.StartElement("workbook")
	w.Attribute("xmlns", "http://schemas.openxmlformats.org/spreadsheetml/2006/main")
	w.Attribute("xmlns:r", "http://schemas.openxmlformats.org/officeDocument/2006/relationships")

	w.StartElement("sheets")
	for i, s := range sheets {
		w.StartElement("sheet")
		w.Attribute("name", s.Name)
		w.AttributeInt("sheetId", s.Id)
		if s.Hidden {
			w.Attribute("state", "hidden")
		}
		w.Attribute("r:id", sheetRels[i])
		w.EndElement()
	}
	w.EndElement() // sheets

	w.EndElement() // workbook
	if err := w.EndDocument(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// marshalWorkbookRels renders xl/_rels/workbook.xml.rels: one relationship
// per worksheet (in sheet-index order, ids rId1, rId2, ...), followed by
// styles, followed by sharedStrings if hasSharedStrings is set. Styles is
// the last relationship only when hasSharedStrings is false, which is how
// saveZipBytes always calls it.
func marshalWorkbookRels(sheetCount int, hasSharedStrings bool) (data []byte, sheetRelIDs []string, stylesRelID string, sharedStringsRelID string) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartDocument()
	w.StartElement("Relationships")
	w.Attribute("xmlns", relNSPackage)

	ids := make([]string, sheetCount)
	n := 1
	for i := 0; i < sheetCount; i++ {
		id := "rId" + strconv.Itoa(n)
		ids[i] = id
		w.StartElement("Relationship")
		w.Attribute("Id", id)
		w.Attribute("Type", relNSWorksheet)
		w.Attribute("Target", "worksheets/sheet"+strconv.Itoa(i+1)+".xml")
		w.EndElement()
		n++
	}

	stylesID := "rId" + strconv.Itoa(n)
	w.StartElement("Relationship")
	w.Attribute("Id", stylesID)
	w.Attribute("Type", relNSStyles)
	w.Attribute("Target", "styles.xml")
	w.EndElement()
	n++

	var sstID string
	if hasSharedStrings {
		sstID = "rId" + strconv.Itoa(n)
		w.StartElement("Relationship")
		w.Attribute("Id", sstID)
		w.Attribute("Type", relNSSharedStrings)
		w.Attribute("Target", "sharedStrings.xml")
		w.EndElement()
	}

	w.EndElement() // Relationships
	w.EndDocument()
	return buf.Bytes(), ids, stylesID, sstID
}

// marshalRootRels renders _rels/.rels: the single relationship naming
// xl/workbook.xml as the package's officeDocument (spec §6).
func marshalRootRels() []byte {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartDocument()
	w.StartElement("Relationships")
	w.Attribute("xmlns", relNSPackage)
	w.StartElement("Relationship")
	w.Attribute("Id", "rId1")
	w.Attribute("Type", relNSOfficeDocument)
	w.Attribute("Target", "xl/workbook.xml")
	w.EndElement()
	w.EndElement()
	w.EndDocument()
	return buf.Bytes()
}

// marshalContentTypes renders [Content_Types].xml: Default entries for the
// rels/xml extensions plus an Override per logical part (spec §6).
func marshalContentTypes(sheetCount int, hasSharedStrings bool) []byte {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.StartDocument()
	w.StartElement("Types")
	w.Attribute("xmlns", "http://schemas.openxmlformats.org/package/2006/content-types")

	w.StartElement("Default")
	w.Attribute("Extension", "rels")
	w.Attribute("ContentType", "application/vnd.openxmlformats-package.relationships+xml")
	w.EndElement()

	w.StartElement("Default")
	w.Attribute("Extension", "xml")
	w.Attribute("ContentType", "application/xml")
	w.EndElement()

	w.StartElement("Override")
	w.Attribute("PartName", "/xl/workbook.xml")
	w.Attribute("ContentType", ctWorkbook)
	w.EndElement()

	for i := 0; i < sheetCount; i++ {
		w.StartElement("Override")
		w.Attribute("PartName", "/xl/worksheets/sheet"+strconv.Itoa(i+1)+".xml")
		w.Attribute("ContentType", ctWorksheet)
		w.EndElement()
	}

	w.StartElement("Override")
	w.Attribute("PartName", "/xl/styles.xml")
	w.Attribute("ContentType", ctStyles)
	w.EndElement()

	if hasSharedStrings {
		w.StartElement("Override")
		w.Attribute("PartName", "/xl/sharedStrings.xml")
		w.Attribute("ContentType", ctSharedStrings)
		w.EndElement()
	}

	w.EndElement() // Types
	w.EndDocument()
	return buf.Bytes()
}

// parsedWorkbookSheet is one <sheet> entry read back from xl/workbook.xml,
// in document order (spec §4.12's open path needs name + r:id to resolve
// each worksheet part through workbook.xml.rels).
type parsedWorkbookSheet struct {
	Name   string
	RID    string
	Hidden bool
}

func unmarshalWorkbookXML(data []byte) ([]parsedWorkbookSheet, error) {
	r := NewReader(bytes.NewReader(data))
	var sheets []parsedWorkbookSheet
	for {
		ev, err := r.Next()
		if err != nil {
			return nil, err
		}
		if ev == EventDocument {
			return sheets, nil
		}
		if ev != EventStart || r.Name() != "sheet" {
			continue
		}
		name, _ := r.Attr("name")
		rid, _ := r.Attr("r:id")
		if rid == "" {
			rid, _ = r.Attr("id")
		}
		state, _ := r.Attr("state")
		sheets = append(sheets, parsedWorkbookSheet{Name: name, RID: rid, Hidden: state == "hidden"})
	}
}

// unmarshalRelationships parses a .rels part into an id -> target map.
func unmarshalRelationships(data []byte) (map[string]string, error) {
	r := NewReader(bytes.NewReader(data))
	out := map[string]string{}
	for {
		ev, err := r.Next()
		if err != nil {
			return nil, err
		}
		if ev == EventDocument {
			return out, nil
		}
		if ev != EventStart || r.Name() != "Relationship" {
			continue
		}
		id, _ := r.Attr("Id")
		target, _ := r.Attr("Target")
		out[id] = target
	}
}

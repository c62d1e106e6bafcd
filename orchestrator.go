// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
)

// orchestrator.go implements the workbook orchestrator (spec §4.12): the
// end-to-end Open/Save pair that dispatches plain vs encrypted .xlsx, drives
// the ZIP container (zip.go), the styles/worksheet/sharedStrings part codecs,
// and the Agile encryption subsystem (agile.go, cfb.go) underneath it.
// Grounded on adnsv-go-xl/xl/writer.go's Write (the part-by-part sequencing
// this file's saveZipBytes mirrors) and zfs.go's Storage abstraction,
// adapted here into a direct zipWriter since this package's Workbook already
// knows every part it needs to emit without a pluggable backend.

// Open reads a .xlsx file at path into a Workbook. It sniffs the first
// bytes to dispatch plain ZIP vs OLE2/CFB-wrapped Agile-encrypted input
// (spec §4.12). password is used only for encrypted files; pass "" for a
// plain file.
func Open(path string, password string) (*Workbook, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrapErr(KindFileNotFound, "opening "+path, err)
		}
		return nil, wrapErr(KindIO, "reading "+path, err)
	}
	return OpenBytes(raw, password)
}

// OpenBytes parses an already-loaded .xlsx (or Agile-encrypted .xlsx) image
// into a Workbook, following the same sniff-and-dispatch rule as Open.
func OpenBytes(raw []byte, password string) (*Workbook, error) {
	if len(raw) < 4 {
		return nil, newErr(KindFileCorrupt, "input is too short to be a valid file")
	}
	switch {
	case raw[0] == 0x50 && raw[1] == 0x4B: // "PK"
		return openZip(raw)
	case raw[0] == 0xD0 && raw[1] == 0xCF && raw[2] == 0x11 && raw[3] == 0xE0:
		if password == "" {
			return nil, newErr(KindInvalidPassword, "file is encrypted; a password is required")
		}
		plain, err := DecryptAgile(raw, password)
		if err != nil {
			return nil, err
		}
		return openZip(plain)
	default:
		return nil, newErr(KindUnsupportedFormat, "input is neither a ZIP nor an OLE2 compound file")
	}
}

// Save persists wb as a .xlsx file at path, optionally wrapped in Agile
// Encryption. It builds the plain archive in memory, encrypts it in memory
// into a CFB file if encryption is requested, then writes the result to a
// temp file in the destination directory and renames it into place; on any
// failure the destination is left unchanged with no temp file left behind
// (spec §4.12, §7, §9).
func (wb *Workbook) Save(path string, encryption *EncryptionOptions) error {
	plain, err := wb.saveZipBytes()
	if err != nil {
		return err
	}

	out := plain
	if encryption != nil {
		out, err = EncryptAgile(*encryption, plain)
		if err != nil {
			return err
		}
	}

	return atomicWriteFile(path, out)
}

// atomicWriteFile writes data to a temp file beside path, then renames it
// into place; the temp file is removed on any error before the rename
// (spec §9's scoped-acquisition guard).
func atomicWriteFile(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".xlcore-*.tmp")
	if err != nil {
		return wrapErr(KindIO, "creating temp file in "+dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, werr := tmp.Write(data); werr != nil {
		tmp.Close()
		return wrapErr(KindIO, "writing temp file", werr)
	}
	if cerr := tmp.Close(); cerr != nil {
		return wrapErr(KindIO, "closing temp file", cerr)
	}
	if rerr := os.Rename(tmpPath, path); rerr != nil {
		return wrapErr(KindIO, "renaming temp file into place", rerr)
	}
	return nil
}

// openZip parses a plain .xlsx ZIP image into a fresh Workbook (spec
// §4.12).
func openZip(data []byte) (*Workbook, error) {
	zr, err := newZipReader(data)
	if err != nil {
		return nil, err
	}

	wbXML, err := zr.Entry("xl/workbook.xml")
	if err != nil {
		return nil, wrapErr(KindFileCorrupt, "missing xl/workbook.xml", err)
	}
	parsedSheets, err := unmarshalWorkbookXML(wbXML)
	if err != nil {
		return nil, err
	}

	relsXML, err := zr.Entry("xl/_rels/workbook.xml.rels")
	if err != nil {
		return nil, wrapErr(KindFileCorrupt, "missing xl/_rels/workbook.xml.rels", err)
	}
	rels, err := unmarshalRelationships(relsXML)
	if err != nil {
		return nil, err
	}

	var sharedStrings *sharedStringTable
	if sstXML, sstErr := zr.Entry("xl/sharedStrings.xml"); sstErr == nil {
		sharedStrings, err = unmarshalSharedStrings(sstXML)
		if err != nil {
			return nil, err
		}
	} else if sstErr != errNoSuchEntry {
		return nil, sstErr
	}

	wb := NewWorkbook()
	if stylesXML, stylesErr := zr.Entry("xl/styles.xml"); stylesErr == nil {
		t, err := unmarshalStyles(stylesXML)
		if err != nil {
			return nil, err
		}
		wb.styles = t
	} else if stylesErr != errNoSuchEntry {
		return nil, stylesErr
	}

	for _, ps := range parsedSheets {
		target, ok := rels[ps.RID]
		if !ok {
			return nil, newErr(KindFileCorrupt, "workbook.xml references unknown relationship id "+ps.RID)
		}
		partPath := resolveWorkbookPart(target)
		sheetXML, err := zr.Entry(partPath)
		if err != nil {
			return nil, wrapErr(KindFileCorrupt, "missing worksheet part "+partPath, err)
		}
		sheet, err := wb.AddSheet(ps.Name)
		if err != nil {
			return nil, err
		}
		sheet.Hidden = ps.Hidden
		if err := unmarshalWorksheet(sheetXML, sheet, sharedStrings); err != nil {
			return nil, err
		}
	}

	if sharedStrings != nil {
		wb.sharedStrings = sharedStrings
	}
	return wb, nil
}

// resolveWorkbookPart resolves a workbook.xml.rels Target (relative to
// xl/) to the archive-absolute entry path.
func resolveWorkbookPart(target string) string {
	if len(target) > 0 && target[0] == '/' {
		return target[1:]
	}
	return "xl/" + target
}

// saveZipBytes builds the plain (unencrypted) .xlsx ZIP image for wb,
// writing _rels/.rels, xl/_rels/workbook.xml.rels, xl/workbook.xml,
// xl/styles.xml and the worksheet parts, with [Content_Types].xml last. Text cells are always written as inline strings
// (spec §4.10: "either approach is conformant... avoiding the shared-
// strings part entirely"), so no xl/sharedStrings.xml part is emitted.
func (wb *Workbook) saveZipBytes() ([]byte, error) {
	wb.mu.Lock()
	sheets := append([]*Sheet(nil), wb.sheets...)
	styles := wb.styles
	wb.mu.Unlock()

	var buf bytes.Buffer
	zw := newZipWriter(&buf)

	if err := zw.WriteEntry("_rels/.rels", marshalRootRels()); err != nil {
		return nil, err
	}

	sheetXMLs := make([][]byte, len(sheets))
	for i, s := range sheets {
		x, err := marshalWorksheet(s, useInlineStrings, nil)
		if err != nil {
			return nil, err
		}
		sheetXMLs[i] = x
	}

	relsXML, sheetRelIDs, _, _ := marshalWorkbookRels(len(sheets), false)
	if err := zw.WriteEntry("xl/_rels/workbook.xml.rels", relsXML); err != nil {
		return nil, err
	}

	wbXML, err := marshalWorkbookXML(sheets, sheetRelIDs)
	if err != nil {
		return nil, err
	}
	if err := zw.WriteEntry("xl/workbook.xml", wbXML); err != nil {
		return nil, err
	}

	stylesXML, err := marshalStyles(styles)
	if err != nil {
		return nil, err
	}
	if err := zw.WriteEntry("xl/styles.xml", stylesXML); err != nil {
		return nil, err
	}

	for i, x := range sheetXMLs {
		path := "xl/worksheets/sheet" + strconv.Itoa(i+1) + ".xml"
		if err := zw.WriteEntry(path, x); err != nil {
			return nil, err
		}
	}

	ctXML := marshalContentTypes(len(sheets), false)
	if err := zw.WriteEntry("[Content_Types].xml", ctXML); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

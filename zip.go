// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"archive/zip"
	"bytes"
	"io"
)

// No third-party ZIP codec appears anywhere in the corpus — every excelize
// fork and adnsv-go-xl's Storage (xl/zfs.go) wrap the standard library's
// archive/zip directly — so this component is stdlib by design, justified in
// DESIGN.md rather than omitted.

// zipReader provides exact-path, random-access entry lookup over an already
// loaded archive (spec §4.4).
type zipReader struct {
	zr *zip.Reader
}

func newZipReader(data []byte) (*zipReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, wrapErr(KindZip, "invalid zip archive", err)
	}
	return &zipReader{zr: zr}, nil
}

// errNoSuchEntry is returned by Entry when path is not present in the
// archive; it is a signal, not a hard failure, per spec §4.4.
var errNoSuchEntry = newErr(KindZip, "no such entry")

// Entry reads and returns the full contents of the named archive entry by
// exact path match (no case folding).
func (z *zipReader) Entry(path string) ([]byte, error) {
	for _, f := range z.zr.File {
		if f.Name == path {
			rc, err := f.Open()
			if err != nil {
				return nil, wrapErr(KindZip, "opening entry "+path, err)
			}
			defer rc.Close()
			buf, err := io.ReadAll(rc)
			if err != nil {
				return nil, wrapErr(KindZip, "reading entry "+path, err)
			}
			return buf, nil
		}
	}
	return nil, errNoSuchEntry
}

// Has reports whether path exists in the archive.
func (z *zipReader) Has(path string) bool {
	_, err := z.Entry(path)
	return err == nil
}

// zipWriter appends entries sequentially to a ZIP archive, DEFLATE-compressing
// every part (spec §4.4).
type zipWriter struct {
	zw *zip.Writer
}

func newZipWriter(w io.Writer) *zipWriter {
	return &zipWriter{zw: zip.NewWriter(w)}
}

// WriteEntry appends a single entry at the OOXML logical path given.
func (z *zipWriter) WriteEntry(path string, data []byte) error {
	hdr := &zip.FileHeader{
		Name:   path,
		Method: zip.Deflate,
	}
	f, err := z.zw.CreateHeader(hdr)
	if err != nil {
		return wrapErr(KindZip, "creating entry "+path, err)
	}
	if _, err := f.Write(data); err != nil {
		return wrapErr(KindZip, "writing entry "+path, err)
	}
	return nil
}

// Close finalizes the archive's central directory. Must be called exactly
// once, after all entries are written.
func (z *zipWriter) Close() error {
	if err := z.zw.Close(); err != nil {
		return wrapErr(KindZip, "finalizing zip archive", err)
	}
	return nil
}

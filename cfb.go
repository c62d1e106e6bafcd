// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"bytes"
	"encoding/binary"

	"github.com/richardlehane/mscfb"
)

// cfb.go implements the OLE2 "Compound File Binary" envelope that carries
// EncryptionInfo and EncryptedPackage (spec §4.7). Reading is delegated to
// github.com/richardlehane/mscfb, grounded directly on
// other_examples/7a948913_..._crypt.go's extractPart, which walks a
// *mscfb.Reader looking up entries by Name. Writing has no existing library
// in the corpus (mscfb is read-only) and is hand-rolled here against the
// ECMA-376/[MS-CFB] field layout spec.md §4.7 calls out explicitly.

var oleSignature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// cfbExtractStreams locates the EncryptionInfo and EncryptedPackage streams
// inside a compound file, by exact name, per spec §4.7.
func cfbExtractStreams(raw []byte) (encryptionInfo, encryptedPackage []byte, err error) {
	doc, err := mscfb.New(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, wrapErr(KindFileCorrupt, "parsing OLE2 compound file", err)
	}
	for entry, derr := doc.Next(); derr == nil; entry, derr = doc.Next() {
		switch entry.Name {
		case "EncryptionInfo":
			buf := make([]byte, entry.Size)
			if _, rerr := doc.Read(buf); rerr != nil && rerr.Error() != "EOF" {
				return nil, nil, wrapErr(KindFileCorrupt, "reading EncryptionInfo stream", rerr)
			}
			encryptionInfo = buf
		case "EncryptedPackage":
			buf := make([]byte, entry.Size)
			if _, rerr := doc.Read(buf); rerr != nil && rerr.Error() != "EOF" {
				return nil, nil, wrapErr(KindFileCorrupt, "reading EncryptedPackage stream", rerr)
			}
			encryptedPackage = buf
		}
	}
	if encryptionInfo == nil || encryptedPackage == nil {
		return nil, nil, newErr(KindFileCorrupt, "compound file is missing EncryptionInfo or EncryptedPackage")
	}
	return encryptionInfo, encryptedPackage, nil
}

const (
	cfbSectorSize     = 512
	cfbMiniSectorSize = 64
	cfbFatEntrySize   = 4
	cfbDirEntrySize   = 128
	cfbMiniCutoff     = 4096
)

// [MS-CFB] 2.1 sector markers.
const (
	cfbMaxRegSect  uint32 = 0xFFFFFFFA
	cfbDifatSect   uint32 = 0xFFFFFFFC
	cfbFatSect     uint32 = 0xFFFFFFFD
	cfbEndOfChain  uint32 = 0xFFFFFFFE
	cfbFreeSect    uint32 = 0xFFFFFFFF
	cfbNoStream    uint32 = 0xFFFFFFFF
	cfbMaxDifatCap        = 109
)

// writeCompoundFile emits a minimal, spec-conformant OLE2 compound file
// holding exactly the two streams Agile Encryption needs, plus the root
// storage entry (spec §4.7, §6). Streams shorter than the 4096-byte cutoff
// live in the root's mini stream with 64-byte mini sectors; readers decide
// mini-vs-regular purely by the directory entry's size field, so placement
// must follow the cutoff exactly.
func writeCompoundFile(encryptionInfo, encryptedPackage []byte) ([]byte, error) {
	infoMini := len(encryptionInfo) < cfbMiniCutoff
	pkgMini := len(encryptedPackage) < cfbMiniCutoff

	var miniData []byte
	appendMini := func(b []byte) uint32 {
		start := uint32(len(miniData) / cfbMiniSectorSize)
		miniData = append(miniData, padTo(b, cfbMiniSectorSize)...)
		return start
	}
	infoStart := cfbEndOfChain
	pkgStart := cfbEndOfChain
	if infoMini {
		infoStart = appendMini(encryptionInfo)
	}
	if pkgMini {
		pkgStart = appendMini(encryptedPackage)
	}
	numMiniSectors := len(miniData) / cfbMiniSectorSize

	miniFatSectors := divCeil(numMiniSectors*cfbFatEntrySize, cfbSectorSize)
	miniStreamSectors := divCeil(len(miniData), cfbSectorSize)

	regInfoSectors := 0
	if !infoMini {
		regInfoSectors = divCeil(len(encryptionInfo), cfbSectorSize)
	}
	regPkgSectors := 0
	if !pkgMini {
		regPkgSectors = divCeil(len(encryptedPackage), cfbSectorSize)
	}

	const dirSectors = 1
	dataSectors := dirSectors + miniFatSectors + miniStreamSectors + regInfoSectors + regPkgSectors

	fatSectors := 1 // each FAT sector also needs a FAT entry for itself
	for {
		total := dataSectors + fatSectors
		need := divCeil(total, 128)
		if need <= fatSectors {
			break
		}
		fatSectors = need
	}
	if fatSectors > cfbMaxDifatCap {
		return nil, newErr(KindIO, "encrypted package too large for a DIFAT-free compound file")
	}

	// Sector layout, in file order (index 0 is the first sector after the header).
	fatStart := 0
	dirStart := fatStart + fatSectors
	miniFatStart := dirStart + dirSectors
	miniStreamStart := miniFatStart + miniFatSectors
	regStart := miniStreamStart + miniStreamSectors

	fat := make([]uint32, fatSectors*128)
	for i := range fat {
		fat[i] = cfbFreeSect
	}
	for i := 0; i < fatSectors; i++ {
		fat[fatStart+i] = cfbFatSect
	}
	chain(fat, dirStart, dirSectors)
	chain(fat, miniFatStart, miniFatSectors)
	chain(fat, miniStreamStart, miniStreamSectors)

	next := regStart
	if !infoMini {
		infoStart = uint32(next)
		chain(fat, next, regInfoSectors)
		next += regInfoSectors
	}
	if !pkgMini {
		pkgStart = uint32(next)
		chain(fat, next, regPkgSectors)
		next += regPkgSectors
	}

	// The mini FAT chains each mini stream independently.
	miniFat := make([]uint32, miniFatSectors*128)
	for i := range miniFat {
		miniFat[i] = cfbFreeSect
	}
	if infoMini {
		chain(miniFat, int(infoStart), divCeil(len(encryptionInfo), cfbMiniSectorSize))
	}
	if pkgMini {
		chain(miniFat, int(pkgStart), divCeil(len(encryptedPackage), cfbMiniSectorSize))
	}

	var buf bytes.Buffer
	buf.Write(cfbHeader(fatSectors, dirStart, miniFatSectors, miniFatStart))

	for i := 0; i < fatSectors; i++ {
		writeUint32Slice(&buf, fat[i*128:(i+1)*128])
	}

	buf.Write(cfbDirSector(numMiniSectors, miniStreamStart, infoStart, len(encryptionInfo), pkgStart, len(encryptedPackage)))

	for i := 0; i < miniFatSectors; i++ {
		writeUint32Slice(&buf, miniFat[i*128:(i+1)*128])
	}

	buf.Write(padTo(miniData, cfbSectorSize))
	if !infoMini {
		buf.Write(padTo(encryptionInfo, cfbSectorSize))
	}
	if !pkgMini {
		buf.Write(padTo(encryptedPackage, cfbSectorSize))
	}

	return buf.Bytes(), nil
}

func chain(fat []uint32, start, count int) {
	for i := 0; i < count; i++ {
		if i == count-1 {
			fat[start+i] = cfbEndOfChain
		} else {
			fat[start+i] = uint32(start + i + 1)
		}
	}
}

func padTo(b []byte, multiple int) []byte {
	rem := len(b) % multiple
	if rem == 0 {
		return b
	}
	out := make([]byte, len(b)+(multiple-rem))
	copy(out, b)
	return out
}

func divCeil(a, b int) int {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

func writeUint32Slice(buf *bytes.Buffer, vals []uint32) {
	tmp := make([]byte, 4)
	for _, v := range vals {
		binary.LittleEndian.PutUint32(tmp, v)
		buf.Write(tmp)
	}
}

func cfbHeader(fatSectors, dirStart, miniFatSectors, miniFatStart int) []byte {
	h := make([]byte, cfbSectorSize)
	copy(h[0:8], oleSignature)
	// CLSID (16 bytes) left zero.
	binary.LittleEndian.PutUint16(h[24:26], 0x003E) // minor version
	binary.LittleEndian.PutUint16(h[26:28], 0x0003) // major version: 512-byte sectors
	h[28], h[29] = 0xFE, 0xFF                        // byte order mark
	binary.LittleEndian.PutUint16(h[30:32], 0x0009)  // sector shift: 2^9 = 512
	binary.LittleEndian.PutUint16(h[32:34], 0x0006)  // mini sector shift: 2^6 = 64
	// bytes 34-39 reserved, zero
	binary.LittleEndian.PutUint32(h[40:44], 0) // number of directory sectors: 0 for major version 3
	binary.LittleEndian.PutUint32(h[44:48], uint32(fatSectors))
	binary.LittleEndian.PutUint32(h[48:52], uint32(dirStart))
	binary.LittleEndian.PutUint32(h[52:56], 0)            // transaction signature
	binary.LittleEndian.PutUint32(h[56:60], cfbMiniCutoff) // mini stream cutoff size
	if miniFatSectors > 0 {
		binary.LittleEndian.PutUint32(h[60:64], uint32(miniFatStart))
	} else {
		binary.LittleEndian.PutUint32(h[60:64], cfbEndOfChain)
	}
	binary.LittleEndian.PutUint32(h[64:68], uint32(miniFatSectors))
	binary.LittleEndian.PutUint32(h[68:72], cfbEndOfChain) // first DIFAT sector: none
	binary.LittleEndian.PutUint32(h[72:76], 0)             // number of DIFAT sectors

	// DIFAT: up to 109 entries, the first fatSectors of which point at the
	// FAT sectors (which are laid out starting at file sector 0); the rest
	// are unused.
	off := 76
	for i := 0; i < cfbMaxDifatCap; i++ {
		var v uint32
		if i < fatSectors {
			v = uint32(i)
		} else {
			v = cfbFreeSect
		}
		binary.LittleEndian.PutUint32(h[off:off+4], v)
		off += 4
	}
	return h
}

func cfbDirSector(numMiniSectors, miniStreamStart int, infoStart uint32, encInfoLen int, pkgStart uint32, packageLen int) []byte {
	s := make([]byte, cfbSectorSize)
	rootSize := uint64(numMiniSectors * cfbMiniSectorSize)
	var rootStart uint32 = cfbEndOfChain
	if numMiniSectors > 0 {
		rootStart = uint32(miniStreamStart)
	}
	copy(s[0:128], dirEntry("Root Entry", 5, 1, cfbNoStream, cfbNoStream, 1, rootStart, rootSize))
	copy(s[128:256], dirEntry("EncryptionInfo", 2, 1, cfbNoStream, 2, cfbNoStream, infoStart, uint64(encInfoLen)))
	copy(s[256:384], dirEntry("EncryptedPackage", 2, 1, cfbNoStream, cfbNoStream, cfbNoStream, pkgStart, uint64(packageLen)))
	// entry 3 left as all-zero (unused, ObjectType 0), padding the sector to 4 entries.
	return s
}

// dirEntry builds one 128-byte [MS-CFB] directory entry.
func dirEntry(name string, objType, color byte, left, right, child, start uint32, size uint64) []byte {
	e := make([]byte, cfbDirEntrySize)
	u16 := utf16le(name)
	u16 = append(u16, 0, 0) // null terminator
	copy(e[0:64], u16)
	binary.LittleEndian.PutUint16(e[64:66], uint16(len(u16)))
	e[66] = objType
	e[67] = color
	binary.LittleEndian.PutUint32(e[68:72], left)
	binary.LittleEndian.PutUint32(e[72:76], right)
	binary.LittleEndian.PutUint32(e[76:80], child)
	// CLSID (16 bytes, offset 80) and state bits (4 bytes, offset 96) left zero.
	// Creation/modified time (16 bytes, offset 100) left zero (no timestamp).
	binary.LittleEndian.PutUint32(e[116:120], start)
	binary.LittleEndian.PutUint64(e[120:128], size)
	return e
}

// utf16le encodes an ASCII directory-entry name as UTF-16LE; all names used
// by this writer (Root Entry, EncryptionInfo, EncryptedPackage) are ASCII.
func utf16le(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}

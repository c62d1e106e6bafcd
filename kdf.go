// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// hashCtor resolves an ECMA-376 hashAlgorithm name to a stdlib constructor.
// Agile Encryption documents in the wild use SHA-1, SHA-256, SHA-384 or
// SHA-512 (spec §4.6); legacy MD4/RIPEMD-160 only ever appear under Standard
// Encryption, which is out of scope, so golang.org/x/crypto is not needed
// here even though the teacher's crypt.go imports it for that purpose.
func hashCtor(name string) (func() hash.Hash, error) {
	switch strings.ToLower(name) {
	case "sha1":
		return sha1.New, nil
	case "sha256":
		return sha256.New, nil
	case "sha384":
		return sha512.New384, nil
	case "sha512":
		return sha512.New, nil
	}
	return nil, newErr(KindCrypto, "unsupported hash algorithm: "+name)
}

// Block-key purposes, fixed 8-byte magics per MS-OFFCRYPTO (spec §4.6).
var (
	blockKeyEncryptedKey       = []byte{0x14, 0x6E, 0x0B, 0xE7, 0xAB, 0xAC, 0xD0, 0xD6}
	blockKeyVerifierHashInput  = []byte{0xFE, 0xA7, 0xD2, 0x76, 0x3B, 0x4B, 0x9E, 0x79}
	blockKeyVerifierHashValue  = []byte{0xD7, 0xAA, 0x0F, 0x6D, 0x30, 0x61, 0x34, 0x4E}
	blockKeyDataIntegrityKey   = []byte{0x5F, 0xB2, 0xAD, 0x01, 0x0C, 0xB9, 0xE1, 0xF6}
	blockKeyDataIntegrityValue = []byte{0xA0, 0x67, 0x7F, 0x02, 0xB2, 0x2C, 0x84, 0x33}
)

// utf16LEBytes encodes s as UTF-16LE, the wire form of a password that §4.6
// hashes. Grounded on other_examples/7a948913_..._crypt.go's use of
// golang.org/x/text/encoding/unicode for the same purpose.
func utf16LEBytes(s string) ([]byte, error) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	if err != nil {
		return nil, wrapErr(KindCrypto, "encoding password as UTF-16LE", err)
	}
	return b, nil
}

func uint32LE(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

// intermediateHash derives H_spin = iterate(H(salt || UTF16LE(password)), spinCount)
// once, so callers can derive as many per-purpose block keys from it as
// needed without re-running the spin-count loop (spec §4.6's amortization
// requirement). hashName selects the algorithm named in EncryptionInfo;
// this library always writes "SHA512" but must read documents produced
// with any of the four algorithms ECMA-376 permits.
func intermediateHash(hashName, password string, salt []byte, spinCount int) ([]byte, error) {
	newHash, err := hashCtor(hashName)
	if err != nil {
		return nil, err
	}
	pwBytes, err := utf16LEBytes(password)
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(salt)
	h.Write(pwBytes)
	sum := h.Sum(nil)
	zero(pwBytes)

	for i := 0; i < spinCount; i++ {
		h := newHash()
		h.Write(uint32LE(uint32(i)))
		h.Write(sum)
		sum = h.Sum(nil)
	}
	return sum, nil
}

// blockKey derives a purpose-specific key from an already-spun intermediate
// hash: H_final = H(H_spin || purpose), truncated/expanded to keyBits/8
// bytes.
func blockKey(hashName string, spun, purpose []byte, keyBits int) ([]byte, error) {
	newHash, err := hashCtor(hashName)
	if err != nil {
		return nil, err
	}
	h := newHash()
	h.Write(spun)
	h.Write(purpose)
	final := h.Sum(nil)
	return fitKeyLength(final, keyBits/8), nil
}

// fitKeyLength truncates hash to n bytes, or pads it with 0x36 bytes (the
// padding byte ECMA-376 specifies for key derivation) if it is shorter than
// requested.
func fitKeyLength(hash []byte, n int) []byte {
	if len(hash) >= n {
		out := make([]byte, n)
		copy(out, hash[:n])
		return out
	}
	out := make([]byte, n)
	copy(out, hash)
	for i := len(hash); i < n; i++ {
		out[i] = 0x36
	}
	return out
}

// zero overwrites a byte slice with zeros; used to scrub passwords and
// derived key material once they're no longer needed (spec §5, §9).
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

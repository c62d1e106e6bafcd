// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import "crypto/subtle"

// sheetprotect.go implements the sheetProtection model and its password
// hasher (spec §4.11) plus the inverse-logic attribute emission the
// worksheet codec uses (spec §4.10). The hash shares kdf.go's hashCtor/
// utf16LEBytes plumbing but runs its own spin loop, grounded on
// other_examples/7a948913_..._crypt.go's convertPasswdToKey shape.

const sheetProtectionSpinCount = 100000

// PasswordHash is the persisted form of a sheet-protection password: never
// the cleartext, only what's needed to re-verify or re-emit it (spec §3).
type PasswordHash struct {
	Algorithm string // always "SHA-512"
	Salt      []byte
	Hash      []byte
	SpinCount int
}

// sheetProtectionHash runs the sheetProtection spin loop: h0 = SHA-512(salt
// || UTF16LE(password)), then hi = SHA-512(h(i-1) || UInt32LE(i-1)). The
// iterator is APPENDED here, unlike the Agile key derivation in kdf.go,
// which prepends it; the two loops are not interchangeable even though they
// share the same salt-and-spin shape.
func sheetProtectionHash(password string, salt []byte, spinCount int) ([]byte, error) {
	newHash, err := hashCtor("SHA512")
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
		h.Write(sum)
		h.Write(uint32LE(uint32(i)))
		sum = h.Sum(nil)
	}
	return sum, nil
}

// hashSheetPassword derives a PasswordHash from a cleartext password under a
// fresh random salt. The UTF-16LE working copy of the password is scrubbed
// once hashed, per spec §5/§9; the Go string itself is immutable and not
// ours to zero.
func hashSheetPassword(password string) (*PasswordHash, error) {
	salt, err := randomBytes(16)
	if err != nil {
		return nil, err
	}
	h, err := sheetProtectionHash(password, salt, sheetProtectionSpinCount)
	if err != nil {
		return nil, err
	}
	return &PasswordHash{
		Algorithm: "SHA-512",
		Salt:      salt,
		Hash:      h,
		SpinCount: sheetProtectionSpinCount,
	}, nil
}

// verifySheetPassword reports whether password rehashes to ph under its
// stored salt and spin count.
func verifySheetPassword(ph *PasswordHash, password string) (bool, error) {
	if ph == nil {
		return password == "", nil
	}
	h, err := sheetProtectionHash(password, ph.Salt, ph.SpinCount)
	if err != nil {
		return false, err
	}
	if len(h) != len(ph.Hash) {
		return false, nil
	}
	return subtle.ConstantTimeCompare(h, ph.Hash) == 1, nil
}

// SheetProtection holds the fourteen independent permission flags a
// protected sheet carries plus an optional password (spec §3, §4.11).
// All flags except Objects and Scenarios use pure inverse-logic emission:
// presence of the XML attribute (value "1") means that action is forbidden,
// so a false field emits the attribute and a true field omits it. Objects
// and Scenarios are the exception: the writer unconditionally emits
// objects="1" and scenarios="1" (Excel's legacy lock-both default), so
// these two fields are carried for completeness but never consulted on
// write or read.
type SheetProtection struct {
	Objects             bool
	Scenarios            bool
	SelectLockedCells   bool
	SelectUnlockedCells bool
	FormatCells         bool
	FormatColumns       bool
	FormatRows          bool
	InsertRows          bool
	InsertColumns       bool
	DeleteRows          bool
	DeleteColumns       bool
	Sort                bool
	AutoFilter          bool
	PivotTables         bool
	Password            *PasswordHash
}

// protectionAttr is one inverse-logic (name, emit) pair the worksheet codec
// writes when emit is true.
type protectionAttr struct {
	name string
	emit bool
}

// invertedAttrs returns every non-legacy flag in emission order, each
// paired with whether it should be written (i.e. its logical value is
// false: the action is forbidden).
func (p SheetProtection) invertedAttrs() []protectionAttr {
	return []protectionAttr{
		{"selectLockedCells", !p.SelectLockedCells},
		{"selectUnlockedCells", !p.SelectUnlockedCells},
		{"formatCells", !p.FormatCells},
		{"formatColumns", !p.FormatColumns},
		{"formatRows", !p.FormatRows},
		{"insertColumns", !p.InsertColumns},
		{"insertRows", !p.InsertRows},
		{"deleteColumns", !p.DeleteColumns},
		{"deleteRows", !p.DeleteRows},
		{"sort", !p.Sort},
		{"autoFilter", !p.AutoFilter},
		{"pivotTables", !p.PivotTables},
	}
}

// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"crypto/aes"
	"crypto/cipher"
)

// No third-party AES implementation appears anywhere in the corpus (the
// excelize crypt.go fork at other_examples/7a948913_..._crypt.go uses
// crypto/aes directly); justified stdlib use, documented in DESIGN.md.

// Padding selects how plaintext that isn't a multiple of the AES block size
// is handled (spec §4.5).
type Padding int

const (
	// PaddingNone requires the plaintext to already be block-aligned; used
	// for fixed-size crypto envelopes (verifier hashes, wrapped keys).
	PaddingNone Padding = iota
	// PaddingZero pads with zero bytes to the next 16-byte multiple; used
	// for the 4096-byte payload segments.
	PaddingZero
)

const aesBlockSize = 16

// aesCBCEncrypt encrypts plaintext with AES-CBC under key and iv. key must
// be 16, 24, or 32 bytes. Empty input yields empty output.
func aesCBCEncrypt(key, iv, plaintext []byte, pad Padding) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, nil
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapErr(KindCrypto, "constructing AES cipher", err)
	}
	padded, err := applyPadding(plaintext, pad)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(out, padded)
	return out, nil
}

// aesCBCDecrypt decrypts ciphertext with AES-CBC under key and iv.
// ciphertext's length must already be a multiple of the block size; padding
// removal (for PaddingNone callers who know their own plaintext length) is
// the caller's responsibility, since Agile Encryption never uses PKCS#5/7
// padding (spec §4.5's "no padding" mode is for fixed-size envelopes whose
// true length the caller already knows; the segmented payload mode's tail
// bytes beyond the declared plaintext length are simply discarded by the
// caller).
func aesCBCDecrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}
	if len(ciphertext)%aesBlockSize != 0 {
		return nil, newErr(KindCrypto, "ciphertext is not a multiple of the AES block size")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, wrapErr(KindCrypto, "constructing AES cipher", err)
	}
	out := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(out, ciphertext)
	return out, nil
}

// aesCBCDecryptInto decrypts all of src into dst[:len(src)] (dst must be at
// least as long as src), letting a caller reuse one scratch buffer across
// 4096-byte windows without additional allocation.
func aesCBCDecryptInto(key, iv, dst, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if len(src)%aesBlockSize != 0 || len(dst) < len(src) {
		return newErr(KindCrypto, "invalid buffer length for in-place AES-CBC decryption")
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return wrapErr(KindCrypto, "constructing AES cipher", err)
	}
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(dst[:len(src)], src)
	return nil
}

func applyPadding(data []byte, pad Padding) ([]byte, error) {
	switch pad {
	case PaddingNone:
		if len(data)%aesBlockSize != 0 {
			return nil, newErr(KindCrypto, "plaintext is not block-aligned for PaddingNone")
		}
		return data, nil
	case PaddingZero:
		rem := len(data) % aesBlockSize
		if rem == 0 {
			return data, nil
		}
		out := make([]byte, len(data)+(aesBlockSize-rem))
		copy(out, data)
		return out, nil
	default:
		return nil, newErr(KindCrypto, "unknown padding mode")
	}
}

// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesWrappedCause(t *testing.T) {
	cause := errors.New("disk full")
	err := wrapErr(KindIO, "writing temp file", cause)
	assert.Contains(t, err.Error(), "disk full")
	assert.Contains(t, err.Error(), "io")
}

func TestErrorMessageWithoutCause(t *testing.T) {
	err := newErr(KindInvalidArgument, "bad input")
	assert.Contains(t, err.Error(), "bad input")
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestUnwrapReturnsWrappedCause(t *testing.T) {
	cause := errors.New("root cause")
	err := wrapErr(KindZip, "detail", cause)
	assert.Same(t, cause, errors.Unwrap(err))
}

func TestIsKindMatchesAndRejects(t *testing.T) {
	err := newErr(KindCrypto, "bad key")
	assert.True(t, IsKind(err, KindCrypto))
	assert.False(t, IsKind(err, KindIO))
	assert.False(t, IsKind(errors.New("plain error"), KindCrypto))
}

func TestKindStringNames(t *testing.T) {
	assert.Equal(t, "file-not-found", KindFileNotFound.String())
	assert.Equal(t, "crypto", KindCrypto.String())
}

// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.
//
// Package xlcore reads and writes OOXML SpreadsheetML (.xlsx) documents,
// including Microsoft Office Agile Encryption (ECMA-376 Part 4) for
// password-protected files. Consumers build an in-memory workbook (sheets,
// rows, cells, styles, formatting rules, sheet protection), persist it as a
// bit-compatible .xlsx, and reload such files back into the same model.
//
// Formula evaluation is out of scope: formula expressions are stored as text
// with an optional cached result and are never executed.
package xlcore

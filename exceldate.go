// Copyright 2016 - 2022 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package xlcore

import "time"

// excelEpoch is the day before Excel's day 1 (1899-12-31), used as the anchor
// for serial-date arithmetic (spec §4.2).
var excelEpoch = time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC)

// leapBugThreshold is the serial day at which Excel's fictitious 1900-02-29
// would fall were it real; serials on or after this value are shifted by one
// day relative to a true proleptic count to preserve Lotus 1-2-3
// compatibility.
const leapBugThreshold = 60

// ToExcelDate converts a date/time value to its Excel serial-day
// representation. Dates before 1900-03-01 map exactly. A time.Time cannot
// hold 1900-02-29: time.Date(1900, time.February, 29, ...) normalizes to
// 1900-03-01 and encodes as 61, so the 1900-02-29 check below never rejects
// an input.
func ToExcelDate(t time.Time) (float64, error) {
	t = t.UTC()
	y, m, d := t.Date()
	if y == 1900 && m == time.February && d == 29 {
		return 0, newErr(KindInvalidArgument, "1900-02-29 does not exist in the Excel calendar")
	}
	days := int(t.Truncate(24*time.Hour).Sub(excelEpoch.Truncate(24*time.Hour)).Hours() / 24)
	if days >= leapBugThreshold {
		days++
	}
	secondsInDay := t.Hour()*3600 + t.Minute()*60 + t.Second()
	frac := float64(secondsInDay) / 86400.0
	return float64(days) + frac, nil
}

// FromExcelDate converts an Excel serial-day value back to a date/time.
// Per spec §8, from_excel_date(60) must not raise; this implementation
// resolves it (along with any value in [59,60)) to 1900-02-28, the choice
// documented in DESIGN.md.
func FromExcelDate(serial float64) time.Time {
	days := int(serial)
	frac := serial - float64(days)
	if days >= leapBugThreshold {
		days--
	}
	t := excelEpoch.AddDate(0, 0, days)
	totalSeconds := int(frac*86400.0 + 0.5) // round to the nearest second
	t = t.Add(time.Duration(totalSeconds) * time.Second)
	return t
}

// IsValidExcelDate reports whether serial falls within the range Excel
// treats as a representable calendar date (1 through 2099-12-31, serial
// 73050).
func IsValidExcelDate(serial float64) bool {
	return serial >= 1 && serial <= 73050
}

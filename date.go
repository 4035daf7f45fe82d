package fat32

import (
	"time"
)

// ParseDate reads a packed 16-bit directory entry date:
//
//	Bits 0–4:  Day of month, valid value range 1-31 inclusive.
//	Bits 5–8:  Month of year, 1 = January, valid value range 1–12 inclusive.
//	Bits 9–15: Count of years from 1980, valid value range 0–127 inclusive.
//
// It returns a time.Time which always has a time of 00:00:00 UTC.
//
// As value 0 for day and month is invalid, time.Time{} is returned in that
// case so time.Time.IsZero() can be used on the result.
func ParseDate(input uint16) time.Time {
	dayOfMonth := input & 0x1F
	monthOfYear := input & 0x1E0 >> 5
	yearSince1980 := input & 0xFE00 >> 9

	if dayOfMonth == 0 || monthOfYear == 0 {
		return time.Time{}
	}

	return time.Date(1980+int(yearSince1980), time.Month(monthOfYear), int(dayOfMonth), 0, 0, 0, 0, time.UTC)
}

// ParseTime reads a packed 16-bit directory entry time:
//
//	Bits 0–4:   2-second count, valid value range 0–29 inclusive.
//	Bits 5–10:  Minutes, valid value range 0–59 inclusive.
//	Bits 11–15: Hours, valid value range 0–23 inclusive.
//
// It returns a time.Time which always has a date of January 1, year 1, so
// that a zero packed time satisfies time.Time.IsZero().
func ParseTime(input uint16) time.Time {
	seconds := int(input&0x1F) * 2
	minutes := input & 0x7E0 >> 5
	hours := input & 0xF800 >> 11

	result := time.Date(1, 1, 1, int(hours), int(minutes), seconds, 0, time.UTC)

	// Out-of-range fields could wrap into the next day; clamp instead.
	if result.Day() > 1 {
		return time.Date(1, 1, 1, 23, 59, 59, 0, time.UTC)
	}

	return result
}

// PackDate converts t into the packed 16-bit date format. Years before 1980
// pack to the epoch value 0.
func PackDate(t time.Time) uint16 {
	year := t.Year() - 1980
	if year < 0 {
		year = 0
	} else if year > 127 {
		year = 127
	}
	return uint16(year)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
}

// PackTime converts t into the packed 16-bit time format with its 2-second
// granularity.
func PackTime(t time.Time) uint16 {
	return uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
}

package utils

import "time"

const pinLayout = "0102"

// DailyPIN is the config write code: the local date as MMDD.
// Anyone who knows the date knows the code; it only deters accidental writes.
func DailyPIN(now time.Time) string {
	return now.Local().Format(pinLayout)
}

// ValidPIN reports whether pin matches the code of the day containing now
func ValidPIN(pin string, now time.Time) bool {
	return pin != "" && pin == DailyPIN(now)
}

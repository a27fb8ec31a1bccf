// Package calendar formats epoch milliseconds as ISO-8601 UTC timestamps.
package calendar

import "fmt"

const (
	msPerSecond    int64 = 1000
	msPerMinute          = 60 * msPerSecond
	msPerHour            = 60 * msPerMinute
	msPerDay             = 24 * msPerHour
	msPerFourYears       = (365*4 + 1) * msPerDay
)

var (
	leapYearMonths   = [12]int64{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	commonYearMonths = [12]int64{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
)

// FormatMillis renders milliseconds since the Unix epoch as an ISO-8601 UTC
// timestamp (YYYY-MM-DDTHH:mm:ss.sssZ) using integer arithmetic only.
//
// Every fourth year is treated as a leap year. This is exact for 1970-2099.
// Negative input is clamped to the epoch.
func FormatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}

	year := 1970 + (ms/msPerFourYears)*4
	rest := ms % msPerFourYears

	for {
		yearLen := 365 * msPerDay
		if isLeap(year) {
			yearLen = 366 * msPerDay
		}
		if rest-yearLen < 0 {
			break
		}
		rest -= yearLen
		year++
	}

	months := commonYearMonths
	if isLeap(year) {
		months = leapYearMonths
	}

	month := 0
	for i, days := range months {
		monthLen := days * msPerDay
		if rest < monthLen {
			month = i + 1
			break
		}
		rest -= monthLen
	}

	day := rest/msPerDay + 1
	rest -= (day - 1) * msPerDay
	hours := rest / msPerHour
	rest -= hours * msPerHour
	minutes := rest / msPerMinute
	rest -= minutes * msPerMinute
	seconds := rest / msPerSecond
	millis := rest - seconds*msPerSecond

	return fmt.Sprintf("%d-%02d-%02dT%02d:%02d:%02d.%03dZ",
		year, month, day, hours, minutes, seconds, millis)
}

func isLeap(year int64) bool {
	return year%4 == 0
}

package utils

import (
	"log"
	"time"
)

// TimeNowET returns the current time in the US market timezone.
func TimeNowET() time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// IsTradingDay reports whether t falls on a weekday. Exchange holidays are
// not modelled; reconciliation tolerates the extra day by matching on bar
// offsets rather than calendar arithmetic.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// AddTradingDays advances t by n weekdays. A negative n steps backwards.
func AddTradingDays(t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
		n = -n
	}
	for n > 0 {
		t = t.AddDate(0, 0, step)
		if IsTradingDay(t) {
			n--
		}
	}
	return t
}

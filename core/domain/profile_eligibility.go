package domain

import "time"

// YearsBetween returns the number of complete years elapsed from `from` to `to`.
// A year only counts once the anniversary month, day and time of day have been
// reached, so 2000-03-10 to 2018-03-09 is 17. The result is negative when `to`
// precedes `from`.
func YearsBetween(from, to time.Time) int {
	to = to.In(from.Location())
	if to.Before(from) {
		return -YearsBetween(to, from)
	}

	years := to.Year() - from.Year()
	if anniversaryPending(from, to) {
		years--
	}
	return years
}

func anniversaryPending(from, to time.Time) bool {
	if to.Month() != from.Month() {
		return to.Month() < from.Month()
	}
	if to.Day() != from.Day() {
		return to.Day() < from.Day()
	}
	return clock(to) < clock(from)
}

func clock(t time.Time) time.Duration {
	h, m, s := t.Clock()
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute +
		time.Duration(s)*time.Second + time.Duration(t.Nanosecond())
}

// IsEligible reports whether someone born at birthDate is at least
// requiredAge whole years old at reference.
func IsEligible(birthDate time.Time, requiredAge int, reference time.Time) bool {
	return YearsBetween(birthDate, reference) >= requiredAge
}

package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestYearsBetween(t *testing.T) {
	ref := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same instant", ref, ref, 0},
		{"exact anniversary", time.Date(2006, time.March, 10, 12, 0, 0, 0, time.UTC), ref, 18},
		{"one day before anniversary", time.Date(2006, time.March, 11, 12, 0, 0, 0, time.UTC), ref, 17},
		{"one second before anniversary", time.Date(2006, time.March, 10, 12, 0, 1, 0, time.UTC), ref, 17},
		{"later month", time.Date(2006, time.April, 1, 0, 0, 0, 0, time.UTC), ref, 17},
		{"earlier month", time.Date(2006, time.February, 28, 0, 0, 0, 0, time.UTC), ref, 18},
		{"reversed order", ref, time.Date(2006, time.March, 10, 12, 0, 0, 0, time.UTC), -18},
		{"leap day not reached on feb 28", time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC), time.Date(2023, time.February, 28, 23, 59, 59, 0, time.UTC), 22},
		{"leap day reached on mar 1", time.Date(2000, time.February, 29, 0, 0, 0, 0, time.UTC), time.Date(2023, time.March, 1, 0, 0, 0, 0, time.UTC), 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, YearsBetween(tt.from, tt.to))
		})
	}
}

func TestYearsBetween_NormalizesLocation(t *testing.T) {
	plus9 := time.FixedZone("UTC+9", 9*60*60)
	birth := time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC)
	// 2018-06-01 08:00 in UTC+9 is still 2018-05-31 23:00 UTC.
	ref := time.Date(2018, time.June, 1, 8, 0, 0, 0, plus9)

	assert.Equal(t, 17, YearsBetween(birth, ref))
}

func TestIsEligible(t *testing.T) {
	now := time.Date(2024, time.July, 15, 9, 30, 0, 0, time.UTC)

	for _, age := range []int{0, 1, 18, 21, 65} {
		exact := now.AddDate(-age, 0, 0)
		assert.True(t, IsEligible(exact, age, now), "exactly %d years must be eligible", age)

		dayShort := now.AddDate(-age, 0, 1)
		if age > 0 {
			assert.False(t, IsEligible(dayShort, age, now), "a day short of %d years must be ineligible", age)
		}
	}
}

func TestIsEligible_FutureBirthDate(t *testing.T) {
	now := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsEligible(now.AddDate(1, 0, 0), 0, now))
}

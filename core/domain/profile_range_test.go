package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	a := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
	b := time.Date(2001, time.January, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		from    time.Time
		to      time.Time
		wantErr error
	}{
		{"from before to", a, b, nil},
		{"equal bounds", a, a, nil},
		{"from after to", b, a, ErrInvalidRange},
		{"one nanosecond inverted", a.Add(time.Nanosecond), a, ErrInvalidRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.from, tt.to)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBirthDateRange_Contains(t *testing.T) {
	r, err := NewBirthDateRange(
		time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2001, time.January, 2, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	assert.True(t, r.Contains(r.From))
	assert.True(t, r.Contains(r.To))
	assert.True(t, r.Contains(time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2002, time.February, 2, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(r.From.Add(-time.Nanosecond)))
}

func TestNewBirthDateRange_Inverted(t *testing.T) {
	_, err := NewBirthDateRange(time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

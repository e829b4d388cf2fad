package zodiac

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 12)

	// Mutating the returned slice must not touch the table.
	all[0].Name = "mutated"
	again := All()
	assert.Equal(t, "Aries", again[0].Name)
}

func TestByID(t *testing.T) {
	sign, ok := ByID("scorpio")
	require.True(t, ok)
	assert.Equal(t, "Scorpio", sign.Name)
	assert.Equal(t, "Water", sign.Element)

	_, ok = ByID("ophiuchus")
	assert.False(t, ok)
}

func TestSignFromDate(t *testing.T) {
	date := func(month time.Month, day int) time.Time {
		return time.Date(1990, month, day, 0, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		date time.Time
		want string
	}{
		{"aries start", date(time.March, 21), "aries"},
		{"aries end", date(time.April, 19), "aries"},
		{"taurus start boundary", date(time.April, 20), "taurus"},
		{"mid leo", date(time.August, 1), "leo"},
		{"capricorn before new year", date(time.December, 25), "capricorn"},
		{"capricorn after new year", date(time.January, 10), "capricorn"},
		{"aquarius start boundary", date(time.January, 20), "aquarius"},
		{"pisces end", date(time.March, 20), "pisces"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SignFromDate(tc.date).ID)
		})
	}
}

func TestSignFromDate_CoversWholeYear(t *testing.T) {
	day := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == 2023 {
		sign := SignFromDate(day)
		require.NotEmpty(t, sign.ID, "no sign for %s", day.Format("2006-01-02"))
		day = day.AddDate(0, 0, 1)
	}
}

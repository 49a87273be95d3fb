package calendar

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "9:30", wantErr: true},
		{in: "+9:30", wantErr: true},
		{in: "ab:cd", wantErr: true},
		{in: "", wantErr: true},
		{in: "N/A", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidClock)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	tests := map[string]string{
		"9:5":      "09:05",
		"09:05":    "09:05",
		"09:05:00": "09:05",
		" 7:30 ":   "07:30",
	}
	for in, want := range tests {
		got, ok := NormalizeClock(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}

	for _, in := range []string{"", "N/A", "25:00", "10", "1:2:3:4"} {
		_, ok := NormalizeClock(in)
		assert.False(t, ok, in)
	}
}

func TestParseInterval_MidnightRollover(t *testing.T) {
	interval, err := ParseInterval("23:00", "00:00")
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 1380, End: MinutesPerDay}, interval)

	interval, err = ParseInterval("00:00", "00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, interval.Minutes())

	_, err = ParseInterval("10:00", "09:00")
	assert.ErrorIs(t, err, ErrInvertedInterval)
}

func TestParseInterval_RolloverFromFirstHour(t *testing.T) {
	// начало в первом часе суток тоже доходит до 24:00
	interval, err := ParseInterval("00:30", "00:00")
	require.NoError(t, err)
	assert.Equal(t, Interval{Start: 30, End: MinutesPerDay}, interval)
	assert.Equal(t, "23h 30min", Duration("00:30", "00:00"))
	assert.True(t, interval.Overlaps(Interval{Start: 60, End: 90}))
}

func TestDuration(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"09:00", "10:30", "1h 30min"},
		{"23:00", "00:00", "1h"},
		{"23:30", "00:00", "30min"},
		{"10:00", "10:00", "0min"},
		{"08:15", "08:45", "30min"},
		{"N/A", "10:00", "N/A"},
		{"09:00", "", "N/A"},
		{"09:00", "N/A", "N/A"},
		{"10:00", "09:00", "N/A"},
		{"garbage", "10:00", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.start+"-"+tt.end, func(t *testing.T) {
			assert.Equal(t, tt.want, Duration(tt.start, tt.end))
		})
	}
}

func TestOverlaps(t *testing.T) {
	a := mustInterval(t, "09:00", "09:30")

	assert.True(t, a.Overlaps(mustInterval(t, "09:15", "09:45")))
	assert.False(t, a.Overlaps(mustInterval(t, "09:30", "10:00")), "adjacent intervals do not overlap")
	assert.False(t, a.Overlaps(mustInterval(t, "08:30", "09:00")))
	assert.True(t, a.Overlaps(mustInterval(t, "08:00", "12:00")))

	late := mustInterval(t, "23:30", "00:00")
	assert.True(t, late.Overlaps(mustInterval(t, "23:00", "00:00")))
}

func TestOverlaps_Symmetric(t *testing.T) {
	clocks := []string{"08:00", "08:30", "09:00", "09:15", "10:00", "23:30"}
	for _, s1 := range clocks {
		for _, s2 := range clocks {
			a, err := SlotInterval(s1)
			require.NoError(t, err)
			b := mustInterval(t, s2, "00:00")
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "%s vs %s", s1, s2)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0min", FormatMinutes(0))
	assert.Equal(t, "45min", FormatMinutes(45))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "24h", FormatMinutes(MinutesPerDay))
	assert.Equal(t, "1h 5min", FormatMinutes(65))
}

func TestParseDateAndAt(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)

	date, err := ParseDate("2025-06-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 1, 10, 30, 0, 0, loc), At(date, 630))

	_, err = ParseDate("01.06.2025", loc)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestAt_ClockChangeDays(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// 30 марта 2025 часы переводятся с 01:00 GMT на 02:00 BST
	spring, err := ParseDate("2025-03-30", london)
	require.NoError(t, err)
	at := At(spring, 300)
	assert.Equal(t, 5, at.Hour())
	assert.Equal(t, 0, at.Minute())
	assert.Equal(t, 30, at.Day())

	// 26 октября 2025 часы переводятся обратно
	autumn, err := ParseDate("2025-10-26", london)
	require.NoError(t, err)
	at = At(autumn, 21*60+30)
	assert.Equal(t, 21, at.Hour())
	assert.Equal(t, 30, at.Minute())

	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, london), At(spring, MinutesPerDay))
}

func mustInterval(t *testing.T, start, end string) Interval {
	t.Helper()
	interval, err := ParseInterval(start, end)
	require.NoError(t, err)
	return interval
}

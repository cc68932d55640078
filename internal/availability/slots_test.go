package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func times(ts ...string) []TimeOfDay {
	out := make([]TimeOfDay, 0, len(ts))
	for _, s := range ts {
		out = append(out, MustTimeOfDay(s))
	}
	return out
}

func weekdaySchedule(wd time.Weekday, ranges ...TimeRange) *BusinessSchedule {
	s := NewBusinessSchedule(30)
	s.Weekly[wd] = ranges
	return s
}

func rng(start, end string) TimeRange {
	return TimeRange{Start: MustTimeOfDay(start), End: MustTimeOfDay(end)}
}

func TestGenerateSlots_MorningRange(t *testing.T) {
	got := GenerateSlots([]TimeRange{rng("09:00", "12:00")}, 30)
	assert.Equal(t, times("09:00", "09:30", "10:00", "10:30", "11:00", "11:30"), got)
}

func TestGenerateSlots_NoPartialTrailingSlot(t *testing.T) {
	got := GenerateSlots([]TimeRange{rng("09:00", "10:45")}, 30)
	assert.Equal(t, times("09:00", "09:30", "10:00"), got)
}

func TestGenerateSlots_ConcatenatesInRangeOrder(t *testing.T) {
	got := GenerateSlots([]TimeRange{rng("14:00", "15:00"), rng("09:00", "10:00")}, 30)
	assert.Equal(t, times("14:00", "14:30", "09:00", "09:30"), got)
}

func TestGenerateSlots_DegenerateInputs(t *testing.T) {
	tests := []struct {
		name     string
		ranges   []TimeRange
		duration int
	}{
		{"zero length range", []TimeRange{rng("09:00", "09:00")}, 30},
		{"inverted range", []TimeRange{rng("12:00", "09:00")}, 30},
		{"range shorter than slot", []TimeRange{rng("09:00", "09:20")}, 30},
		{"zero duration", []TimeRange{rng("09:00", "12:00")}, 0},
		{"negative duration", []TimeRange{rng("09:00", "12:00")}, -15},
		{"no ranges", nil, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, GenerateSlots(tt.ranges, tt.duration))
		})
	}
}

func TestGenerateSlots_Containment(t *testing.T) {
	ranges := []TimeRange{rng("08:10", "11:55"), rng("13:00", "17:30"), rng("20:00", "23:59")}
	for _, d := range []int{5, 15, 20, 30, 45, 60, 90} {
		for _, slot := range GenerateSlots(ranges, d) {
			inside := false
			for _, r := range ranges {
				if slot >= r.Start && slot.Add(d) <= r.End {
					inside = true
				}
			}
			assert.Truef(t, inside, "slot %s with duration %d escapes its range", slot, d)
		}
	}
}

func TestIsDateBookable(t *testing.T) {
	today := mustDate(t, "2025-12-01")
	thursday := mustDate(t, "2025-12-25")
	open := weekdaySchedule(time.Thursday, rng("09:00", "12:00"))

	t.Run("open weekday", func(t *testing.T) {
		assert.True(t, IsDateBookable(thursday, open, today))
	})

	t.Run("blocked date wins over weekday hours", func(t *testing.T) {
		s := open.Clone()
		s.Blocked["2025-12-25"] = struct{}{}
		assert.False(t, IsDateBookable(thursday, s, today))
	})

	t.Run("past date", func(t *testing.T) {
		assert.False(t, IsDateBookable(thursday, open, mustDate(t, "2025-12-26")))
	})

	t.Run("today is bookable", func(t *testing.T) {
		assert.True(t, IsDateBookable(thursday, open, thursday.Add(15*time.Hour)))
	})

	t.Run("closed weekday", func(t *testing.T) {
		assert.False(t, IsDateBookable(mustDate(t, "2025-12-24"), open, today))
	})

	t.Run("empty range list", func(t *testing.T) {
		s := weekdaySchedule(time.Thursday)
		assert.False(t, IsDateBookable(thursday, s, today))
	})

	t.Run("missing schedule", func(t *testing.T) {
		assert.False(t, IsDateBookable(thursday, nil, today))
	})
}

func TestAnnotateAvailability(t *testing.T) {
	slots := times("09:00", "09:30")
	reserved := NewTimeSet(MustTimeOfDay("09:00"))

	got := AnnotateAvailability(slots, reserved)
	want := []Slot{
		{Time: MustTimeOfDay("09:00"), Reserved: true},
		{Time: MustTimeOfDay("09:30"), Reserved: false},
	}
	assert.Equal(t, want, got)

	// повторный вызов с теми же входами даёт тот же результат
	assert.Equal(t, got, AnnotateAvailability(slots, reserved))
}

func TestAnnotateAvailability_ExactMatchOnly(t *testing.T) {
	got := AnnotateAvailability(times("10:00"), NewTimeSet(MustTimeOfDay("10:01")))
	require.Len(t, got, 1)
	assert.False(t, got[0].Reserved)
}

func TestDaySlots(t *testing.T) {
	monday := mustDate(t, "2025-12-22")
	s := weekdaySchedule(time.Monday, rng("09:00", "12:00"))

	t.Run("future day keeps every slot", func(t *testing.T) {
		got := DaySlots(s, monday, NewTimeSet(MustTimeOfDay("10:00")), mustDate(t, "2025-12-01"))
		require.Len(t, got, 6)
		assert.True(t, got[2].Reserved)
	})

	t.Run("today hides started slots", func(t *testing.T) {
		now := MustTimeOfDay("10:15").On(monday)
		got := DaySlots(s, monday, nil, now)
		var labels []string
		for _, sl := range got {
			labels = append(labels, sl.Time.String())
		}
		assert.Equal(t, []string{"10:30", "11:00", "11:30"}, labels)
	})

	t.Run("blocked day has no slots", func(t *testing.T) {
		b := s.Clone()
		b.Blocked[FormatDate(monday)] = struct{}{}
		assert.Empty(t, DaySlots(b, monday, nil, mustDate(t, "2025-12-01")))
	})
}

func TestBookableDates(t *testing.T) {
	s := weekdaySchedule(time.Monday, rng("09:00", "12:00"))
	s.Weekly[time.Wednesday] = []TimeRange{rng("10:00", "11:00")}
	s.Blocked["2025-12-24"] = struct{}{}

	from := mustDate(t, "2025-12-22")
	got := BookableDates(s, from, 14, from)

	var keys []string
	for _, d := range got {
		keys = append(keys, FormatDate(d))
	}
	assert.Equal(t, []string{"2025-12-22", "2025-12-29", "2025-12-31"}, keys)
}

func TestNormalizeRanges(t *testing.T) {
	got, err := NormalizeRanges([]TimeRange{rng("14:00", "18:00"), rng("09:00", "12:00")})
	require.NoError(t, err)
	assert.Equal(t, []TimeRange{rng("09:00", "12:00"), rng("14:00", "18:00")}, got)

	_, err = NormalizeRanges([]TimeRange{rng("09:00", "12:00"), rng("11:00", "13:00")})
	assert.ErrorIs(t, err, ErrOverlappingRange)

	_, err = NormalizeRanges([]TimeRange{rng("12:00", "09:00")})
	assert.ErrorIs(t, err, ErrInvertedRange)

	// касающиеся интервалы допустимы
	_, err = NormalizeRanges([]TimeRange{rng("09:00", "12:00"), rng("12:00", "13:00")})
	assert.NoError(t, err)
}

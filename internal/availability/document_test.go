package availability

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storedSchedule = `{
	"lunes": [{"start": "09:00", "end": "12:00"}, {"start": "14:00", "end": "18:00"}],
	"martes": [{"start": "", "end": ""}],
	"miercoles": [],
	"jueves": [{"start": "10:00", "end": "13:00"}],
	"bloqueados": ["2025-12-25", "not-a-date"],
	"updatedBy": "admin"
}`

func TestScheduleDocument_ToSchedule(t *testing.T) {
	var doc ScheduleDocument
	require.NoError(t, json.Unmarshal([]byte(storedSchedule), &doc))

	s := doc.ToSchedule(30)

	assert.Equal(t, []TimeRange{rng("09:00", "12:00"), rng("14:00", "18:00")}, s.Weekly[time.Monday])
	assert.Equal(t, []TimeRange{rng("10:00", "13:00")}, s.Weekly[time.Thursday])

	_, tuesday := s.Weekly[time.Tuesday]
	assert.False(t, tuesday, "blank range must close the day")
	_, wednesday := s.Weekly[time.Wednesday]
	assert.False(t, wednesday)

	assert.Equal(t, []string{"2025-12-25"}, s.BlockedDates())
}

func TestScheduleDocument_BlankRangeClosesDay(t *testing.T) {
	var doc ScheduleDocument
	require.NoError(t, json.Unmarshal([]byte(storedSchedule), &doc))

	tuesday := mustDate(t, "2025-12-23")
	assert.False(t, IsDateBookable(tuesday, doc.ToSchedule(30), mustDate(t, "2025-12-01")))
	assert.Empty(t, GenerateSlots(doc.ToSchedule(30).RangesFor(tuesday), 30))
}

func TestDocumentFromSchedule(t *testing.T) {
	s := NewBusinessSchedule(30)
	s.Weekly[time.Wednesday] = []TimeRange{rng("09:00", "12:00")}
	s.Blocked["2026-01-01"] = struct{}{}

	data, err := json.Marshal(DocumentFromSchedule(s))
	require.NoError(t, err)
	assert.JSONEq(t, `{"miercoles":[{"start":"09:00","end":"12:00"}],"bloqueados":["2026-01-01"]}`, string(data))
}

func TestWeekdayFromKey(t *testing.T) {
	wd, ok := WeekdayFromKey("Miércoles")
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, wd)

	_, ok = WeekdayFromKey("wednesday")
	assert.False(t, ok)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "9:05", want: "09:05"},
		{in: " 23:59 ", want: "23:59"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "", wantErr: true},
		{in: "1200", wantErr: true},
		{in: "12:5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimeOfDay(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

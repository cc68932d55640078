package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout формат календарной даты в хранилище и callback data
const DateLayout = "2006-01-02"

// TimeOfDay время суток в минутах от полуночи
type TimeOfDay int

// ParseTimeOfDay разбирает строку "HH:MM"
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) < 1 || len(hh) > 2 {
		return 0, fmt.Errorf("invalid time of day %q", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return TimeOfDay(h*60 + m), nil
}

// MustTimeOfDay как ParseTimeOfDay, но паникует при ошибке
func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

// String форматирует время как "HH:MM"
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Add сдвигает время на заданное число минут
func (t TimeOfDay) Add(minutes int) TimeOfDay {
	return t + TimeOfDay(minutes)
}

// On возвращает момент времени t в день date
func (t TimeOfDay) On(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, int(t)/60, int(t)%60, 0, 0, date.Location())
}

// Clock возвращает время суток момента ts
func Clock(ts time.Time) TimeOfDay {
	return TimeOfDay(ts.Hour()*60 + ts.Minute())
}

// TimeRange интервал работы внутри одного дня, [Start, End)
type TimeRange struct {
	Start TimeOfDay
	End   TimeOfDay
}

// String форматирует интервал как "HH:MM-HH:MM"
func (r TimeRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// Valid сообщает, что начало строго раньше конца
func (r TimeRange) Valid() bool {
	return r.Start < r.End
}

// ParseDate разбирает дату в формате YYYY-MM-DD в локальной зоне
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate форматирует дату как YYYY-MM-DD
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// StartOfDay отбрасывает время суток
func StartOfDay(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, d.Location())
}

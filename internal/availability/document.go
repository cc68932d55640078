package availability

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Ключи дней недели в документе расписания
var weekdayKeys = map[time.Weekday]string{
	time.Monday:    "lunes",
	time.Tuesday:   "martes",
	time.Wednesday: "miercoles",
	time.Thursday:  "jueves",
	time.Friday:    "viernes",
	time.Saturday:  "sabado",
	time.Sunday:    "domingo",
}

const blockedKey = "bloqueados"

// WeekdayKey возвращает ключ документа для дня недели
func WeekdayKey(wd time.Weekday) string {
	return weekdayKeys[wd]
}

// WeekdayFromKey разбирает ключ документа ("lunes", "Miércoles")
func WeekdayFromKey(key string) (time.Weekday, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u").Replace(key)
	for wd, k := range weekdayKeys {
		if k == key {
			return wd, true
		}
	}
	return 0, false
}

// RangeDocument интервал в сохранённом виде
type RangeDocument struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ScheduleDocument сохранённая форма расписания: ключи дней недели и список bloqueados
type ScheduleDocument struct {
	Days    map[string][]RangeDocument
	Blocked []string
}

// MarshalJSON пишет документ плоским объектом
func (d ScheduleDocument) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Days)+1)
	for k, ranges := range d.Days {
		if ranges == nil {
			ranges = []RangeDocument{}
		}
		out[k] = ranges
	}
	blocked := d.Blocked
	if blocked == nil {
		blocked = []string{}
	}
	out[blockedKey] = blocked
	return json.Marshal(out)
}

// UnmarshalJSON читает плоский объект; неизвестные ключи игнорируются
func (d *ScheduleDocument) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Days = make(map[string][]RangeDocument)
	d.Blocked = nil
	for k, v := range raw {
		if k == blockedKey {
			if err := json.Unmarshal(v, &d.Blocked); err != nil {
				return fmt.Errorf("decode %s: %w", blockedKey, err)
			}
			continue
		}
		if _, ok := WeekdayFromKey(k); !ok {
			continue
		}
		var ranges []RangeDocument
		if err := json.Unmarshal(v, &ranges); err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		d.Days[k] = ranges
	}
	return nil
}

// ToSchedule переводит документ в расписание.
// День с пустым или нечитаемым интервалом считается закрытым целиком,
// нечитаемая заблокированная дата пропускается.
func (d *ScheduleDocument) ToSchedule(slotMinutes int) *BusinessSchedule {
	s := NewBusinessSchedule(slotMinutes)
	if d == nil {
		return s
	}

	for key, docs := range d.Days {
		wd, ok := WeekdayFromKey(key)
		if !ok || len(docs) == 0 {
			continue
		}
		ranges := make([]TimeRange, 0, len(docs))
		closed := false
		for _, rd := range docs {
			start, err1 := ParseTimeOfDay(rd.Start)
			end, err2 := ParseTimeOfDay(rd.End)
			if err1 != nil || err2 != nil {
				closed = true
				break
			}
			ranges = append(ranges, TimeRange{Start: start, End: end})
		}
		if closed {
			continue
		}
		s.Weekly[wd] = ranges
	}

	for _, raw := range d.Blocked {
		date, err := ParseDate(raw)
		if err != nil {
			continue
		}
		s.Blocked[FormatDate(date)] = struct{}{}
	}
	return s
}

// DocumentFromSchedule строит сохраняемый документ из расписания
func DocumentFromSchedule(s *BusinessSchedule) *ScheduleDocument {
	doc := &ScheduleDocument{Days: make(map[string][]RangeDocument)}
	if s == nil {
		return doc
	}
	for wd, ranges := range s.Weekly {
		docs := make([]RangeDocument, 0, len(ranges))
		for _, r := range ranges {
			docs = append(docs, RangeDocument{Start: r.Start.String(), End: r.End.String()})
		}
		doc.Days[WeekdayKey(wd)] = docs
	}
	doc.Blocked = s.BlockedDates()
	return doc
}

package availability

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DefaultSlotMinutes шаг сетки слотов по умолчанию
const DefaultSlotMinutes = 30

var (
	ErrInvertedRange    = errors.New("range start must be before end")
	ErrOverlappingRange = errors.New("ranges overlap")
)

// BusinessSchedule расписание работы бизнеса
type BusinessSchedule struct {
	Weekly      map[time.Weekday][]TimeRange
	Blocked     map[string]struct{} // даты в формате YYYY-MM-DD
	SlotMinutes int
}

// NewBusinessSchedule создаёт пустое расписание (все дни закрыты)
func NewBusinessSchedule(slotMinutes int) *BusinessSchedule {
	if slotMinutes <= 0 {
		slotMinutes = DefaultSlotMinutes
	}
	return &BusinessSchedule{
		Weekly:      make(map[time.Weekday][]TimeRange),
		Blocked:     make(map[string]struct{}),
		SlotMinutes: slotMinutes,
	}
}

// RangesFor возвращает интервалы работы для дня недели даты
func (s *BusinessSchedule) RangesFor(date time.Time) []TimeRange {
	if s == nil {
		return nil
	}
	return s.Weekly[date.Weekday()]
}

// IsBlocked проверяет, что дата отмечена как выходной
func (s *BusinessSchedule) IsBlocked(date time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.Blocked[FormatDate(date)]
	return ok
}

// BlockedDates возвращает заблокированные даты по возрастанию
func (s *BusinessSchedule) BlockedDates() []string {
	if s == nil {
		return nil
	}
	dates := make([]string, 0, len(s.Blocked))
	for d := range s.Blocked {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Clone возвращает независимую копию расписания
func (s *BusinessSchedule) Clone() *BusinessSchedule {
	if s == nil {
		return nil
	}
	c := NewBusinessSchedule(s.SlotMinutes)
	for wd, ranges := range s.Weekly {
		c.Weekly[wd] = append([]TimeRange(nil), ranges...)
	}
	for d := range s.Blocked {
		c.Blocked[d] = struct{}{}
	}
	return c
}

// NormalizeRanges сортирует интервалы и отклоняет перевёрнутые и пересекающиеся
func NormalizeRanges(ranges []TimeRange) ([]TimeRange, error) {
	out := append([]TimeRange(nil), ranges...)
	for _, r := range out {
		if !r.Valid() {
			return nil, fmt.Errorf("%s: %w", r, ErrInvertedRange)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	for i := 1; i < len(out); i++ {
		if out[i].Start < out[i-1].End {
			return nil, fmt.Errorf("%s and %s: %w", out[i-1], out[i], ErrOverlappingRange)
		}
	}
	return out, nil
}

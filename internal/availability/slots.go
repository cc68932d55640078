package availability

import "time"

// Slot время начала слота и признак занятости
type Slot struct {
	Time     TimeOfDay
	Reserved bool
}

// TimeSet множество занятых времён одного дня
type TimeSet map[TimeOfDay]struct{}

// NewTimeSet собирает множество из списка времён
func NewTimeSet(times ...TimeOfDay) TimeSet {
	set := make(TimeSet, len(times))
	for _, t := range times {
		set[t] = struct{}{}
	}
	return set
}

// Has проверяет наличие времени в множестве
func (s TimeSet) Has(t TimeOfDay) bool {
	_, ok := s[t]
	return ok
}

// IsDateBookable сообщает, можно ли выбрать дату для записи.
// Прошедшие, заблокированные и нерабочие дни недоступны, отсутствие расписания
// означает, что недоступен любой день.
func IsDateBookable(date time.Time, s *BusinessSchedule, today time.Time) bool {
	if s == nil {
		return false
	}
	// Сравниваем календарные даты, а не моменты времени
	if FormatDate(date) < FormatDate(today) {
		return false
	}
	if s.IsBlocked(date) {
		return false
	}

	for _, r := range s.RangesFor(date) {
		if r.Valid() {
			return true
		}
	}
	return false
}

// GenerateSlots нарезает интервалы на слоты длиной durationMinutes.
// Слот выдаётся только если целиком помещается в интервал; интервалы
// обрабатываются в исходном порядке без сортировки и слияния.
func GenerateSlots(ranges []TimeRange, durationMinutes int) []TimeOfDay {
	if durationMinutes <= 0 {
		return nil
	}

	var slots []TimeOfDay
	for _, r := range ranges {
		if !r.Valid() {
			continue
		}
		for t := r.Start; t.Add(durationMinutes) <= r.End; t = t.Add(durationMinutes) {
			slots = append(slots, t)
		}
	}
	return slots
}

// AnnotateAvailability помечает занятые слоты, не удаляя их из списка
func AnnotateAvailability(slots []TimeOfDay, reserved TimeSet) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, t := range slots {
		out = append(out, Slot{Time: t, Reserved: reserved.Has(t)})
	}
	return out
}

// DaySlots возвращает размеченные слоты на дату.
// Для сегодняшнего дня уже начавшиеся слоты не предлагаются.
func DaySlots(s *BusinessSchedule, date time.Time, reserved TimeSet, now time.Time) []Slot {
	if !IsDateBookable(date, s, now) {
		return nil
	}

	slots := GenerateSlots(s.RangesFor(date), s.SlotMinutes)
	if FormatDate(date) == FormatDate(now) {
		elapsed := Clock(now)
		upcoming := slots[:0]
		for _, t := range slots {
			if t > elapsed {
				upcoming = append(upcoming, t)
			}
		}
		slots = upcoming
	}

	return AnnotateAvailability(slots, reserved)
}

// HasFreeSlot сообщает, есть ли хотя бы один свободный слот
func HasFreeSlot(slots []Slot) bool {
	for _, s := range slots {
		if !s.Reserved {
			return true
		}
	}
	return false
}

// BookableDates перечисляет доступные даты в окне [from, from+days)
func BookableDates(s *BusinessSchedule, from time.Time, days int, today time.Time) []time.Time {
	var dates []time.Time
	start := StartOfDay(from)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if IsDateBookable(d, s, today) {
			dates = append(dates, d)
		}
	}
	return dates
}

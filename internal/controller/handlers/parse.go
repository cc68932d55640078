package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/service"
)

// skipInput ответ «-»: оставить значение по умолчанию или убрать фильтр
const skipInput = "-"

var (
	errBadRanges = errors.New("invalid ranges")
	errBadDate   = errors.New("invalid date")
	errBadTime   = errors.New("invalid time")
	errBadNumber = errors.New("invalid number")
)

// dateLayouts форматы дат, которые принимает бот
var dateLayouts = []string{availability.DateLayout, "02.01.2006"}

func isSkip(text string) bool {
	return strings.TrimSpace(text) == skipInput
}

// ParseRanges разбирает интервалы вида "09:00-12:00, 14:00-18:00".
// Допускаются разделители "," и ";", тире и пробелы вокруг него.
func ParseRanges(text string) ([]availability.TimeRange, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ';' || r == '\n' })
	if len(fields) == 0 {
		return nil, errBadRanges
	}

	ranges := make([]availability.TimeRange, 0, len(fields))
	for _, f := range fields {
		f = strings.NewReplacer("–", "-", "—", "-", " ", "").Replace(f)
		startText, endText, ok := strings.Cut(f, "-")
		if !ok {
			return nil, fmt.Errorf("%w: %q", errBadRanges, f)
		}
		start, err := availability.ParseTimeOfDay(startText)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadRanges, f)
		}
		end, err := availability.ParseTimeOfDay(endText)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", errBadRanges, f)
		}
		ranges = append(ranges, availability.TimeRange{Start: start, End: end})
	}
	return ranges, nil
}

// ParseDate разбирает дату в формате YYYY-MM-DD или DD.MM.YYYY
func ParseDate(text string) (time.Time, error) {
	text = strings.TrimSpace(text)
	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, text, time.Local); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadDate, text)
}

// ParseTime разбирает время ЧЧ:ММ
func ParseTime(text string) (availability.TimeOfDay, error) {
	t, err := availability.ParseTimeOfDay(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadTime, text)
	}
	return t, nil
}

// ParseDuration разбирает длительность услуги в минутах, «-» даёт значение по умолчанию
func ParseDuration(text string) (int, error) {
	if isSkip(text) {
		return service.DefaultServiceDuration, nil
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "мин")
	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadNumber, text)
	}
	if err := service.ValidateDuration(minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

// inputErrorMessage текст ошибки разбора ввода
func inputErrorMessage(err error) string {
	switch {
	case errors.Is(err, errBadRanges):
		return "❌ Не удалось разобрать интервалы. Пример: 09:00-12:00, 14:00-18:00"
	case errors.Is(err, errBadDate):
		return "❌ Не удалось разобрать дату. Пример: 31.12.2025 или 2025-12-31"
	case errors.Is(err, errBadTime):
		return "❌ Не удалось разобрать время. Пример: 09:30"
	case errors.Is(err, errBadNumber):
		return "❌ Введите число минут, например 45"
	default:
		return ""
	}
}

package common

import (
	"bytes"
	"image/color"
	"strconv"
	"sync"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common/formatting"
	"github.com/Freeeeeet/booking_bot/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontStyle определяет стиль шрифта
type FontStyle string

const (
	FontStyleDefault FontStyle = "" // Regular
	FontStyleMedium  FontStyle = "medium"
	FontStyleBold    FontStyle = "bold"
)

// Константы размеров и отступов
const (
	imageWidth       = 1400
	imageHeight      = 900
	headerHeight     = 100
	leftLabelsWidth  = 80
	legendWidth      = 150
	dayPaddingX      = 8
	minSlotHeight    = 14.0
	slotBorderRadius = 6.0
	shadowOffset     = 3.0
	totalDaysInWeek  = 7
	hourPaddingTop   = 1
	hourPaddingBot   = 1
	defaultMinHour   = 9
	defaultMaxHour   = 18
	defaultBlockMins = 30
)

// Константы шрифтов
const (
	titleFontSize      = 25.0
	dayFontSize        = 22.0
	hourLabelFontSize  = 16.0
	slotTimeFontSize   = 15.0
	legendItemFontSize = 13.0
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 90}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{228, 228, 228, 255}
	closedDayColor   = color.NRGBA{200, 200, 200, 255}
	openHoursColor   = color.NRGBA{133, 193, 85, 60}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	pendingColor    = color.RGBA{255, 214, 102, 235}
	confirmedColor  = color.RGBA{133, 193, 85, 235}
	slotTextColor   = color.RGBA{20, 24, 28, 230}
	slotShadowColor = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{90, 95, 100, 220}
	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// AgendaWeek данные для картинки занятости недели
type AgendaWeek struct {
	Start        time.Time // любой день недели, неделя начинается с понедельника
	Schedule     *availability.BusinessSchedule
	Appointments []*model.Appointment
	Now          time.Time
}

// weekBounds содержит границы недели
type weekBounds struct {
	start time.Time
	end   time.Time
}

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

var (
	fontsMu     sync.Mutex
	cachedFonts = make(map[FontStyle]*opentype.Font)
)

func fontData(style FontStyle) []byte {
	switch style {
	case FontStyleMedium:
		return gomedium.TTF
	case FontStyleBold:
		return gobold.TTF
	default:
		return goregular.TTF
	}
}

// loadFont загружает шрифт указанного стиля или использует basicfont как fallback
func loadFont(dc *gg.Context, size float64, style ...FontStyle) {
	fontStyle := FontStyleDefault
	if len(style) > 0 {
		fontStyle = style[0]
	}

	fontsMu.Lock()
	parsed, ok := cachedFonts[fontStyle]
	if !ok {
		var err error
		parsed, err = opentype.Parse(fontData(fontStyle))
		if err != nil {
			parsed = nil
		}
		cachedFonts[fontStyle] = parsed
	}
	fontsMu.Unlock()

	if parsed != nil {
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

// GenerateWeekImage рисует занятость недели: часы работы, выходные и записи
func GenerateWeekImage(week AgendaWeek) ([]byte, error) {
	bounds := normalizeToWeekBounds(week.Start)
	now := week.Now
	if now.IsZero() {
		now = time.Now()
	}
	today := availability.StartOfDay(now)
	shouldHighlightToday := isTodayInWeek(today, bounds)

	byDay := groupAppointmentsByDay(week.Appointments)
	hours := calculateHourRange(bounds, week.Schedule, week.Appointments)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, bounds)
	drawHourLabels(dc, hours, cellHeight)

	currentDate := bounds.start
	for dayIndex := 0; dayIndex < totalDaysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)
		isToday := shouldHighlightToday && currentDate.Equal(today)
		closed := !isDayOpen(week.Schedule, currentDate)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday, closed)
		if !closed {
			drawOpenHours(dc, week.Schedule.RangesFor(currentDate), x, y, dayWidth, hours, cellHeight)
		}
		drawDayHeader(dc, currentDate, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, a := range byDay[availability.FormatDate(currentDate)] {
			drawAppointment(dc, a, x, y, dayWidth, hours, cellHeight)
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}

	drawCurrentTimeLine(dc, shouldHighlightToday, now, hours, cellHeight, dayWidth)
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// normalizeToWeekBounds нормализует дату к границам недели (Пн-Вс)
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := availability.StartOfDay(date)

	daysSinceMonday := (int(normalized.Weekday()) + 6) % 7
	start := normalized.AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 6)

	return weekBounds{start: start, end: end}
}

// isTodayInWeek проверяет, попадает ли сегодня в отображаемую неделю
func isTodayInWeek(today time.Time, week weekBounds) bool {
	return !today.Before(week.start) && !today.After(week.end)
}

func isDayOpen(s *availability.BusinessSchedule, date time.Time) bool {
	return s != nil && !s.IsBlocked(date) && len(s.RangesFor(date)) > 0
}

// groupAppointmentsByDay группирует активные записи по дням
func groupAppointmentsByDay(appointments []*model.Appointment) map[string][]*model.Appointment {
	byDay := make(map[string][]*model.Appointment)
	for _, a := range appointments {
		if !a.IsActive() {
			continue
		}
		key := availability.FormatDate(a.Date)
		byDay[key] = append(byDay[key], a)
	}
	return byDay
}

func appointmentEnd(a *model.Appointment) availability.TimeOfDay {
	duration := a.ServiceDuration
	if duration <= 0 {
		duration = defaultBlockMins
	}
	return a.Time.Add(duration)
}

// calculateHourRange определяет диапазон часов по часам работы и записям недели
func calculateHourRange(week weekBounds, s *availability.BusinessSchedule, appointments []*model.Appointment) hourRange {
	minHour := 24
	maxHour := 0
	extend := func(start, end availability.TimeOfDay) {
		startH := int(start) / 60
		endH := (int(end) + 59) / 60
		minHour = min(minHour, startH)
		maxHour = max(maxHour, endH)
	}

	if s != nil {
		for d := week.start; !d.After(week.end); d = d.AddDate(0, 0, 1) {
			for _, r := range s.RangesFor(d) {
				extend(r.Start, r.End)
			}
		}
	}
	for _, a := range appointments {
		if a.IsActive() {
			extend(a.Time, appointmentEnd(a))
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с названием месяца
func drawHeader(dc *gg.Context, week weekBounds) {
	startMonth := week.start.Month()
	endMonth := week.end.Month()

	title := formatting.GetMonthName(startMonth)
	if startMonth != endMonth {
		title += " - " + formatting.GetMonthName(endMonth)
	}
	title += " " + strconv.Itoa(week.end.Year())

	loadFont(dc, titleFontSize, FontStyleBold)
	dc.SetColor(textColor)
	_, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/8+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	loadFont(dc, hourLabelFontSize, FontStyleMedium)
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday, closed bool) {
	switch {
	case closed:
		dc.SetColor(closedDayColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if isToday {
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
		dc.Fill()
	}
}

// drawOpenHours подсвечивает часы работы дня
func drawOpenHours(dc *gg.Context, ranges []availability.TimeRange, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetColor(openHoursColor)
	for _, r := range ranges {
		top := y + (float64(r.Start)/60-float64(hours.start))*cellHeight
		height := float64(r.End-r.Start) / 60 * cellHeight
		dc.DrawRectangle(x, top, float64(dayWidth), height)
		dc.Fill()
	}
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	loadFont(dc, dayFontSize, FontStyleBold)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(formatting.FormatShortDate(date), x+float64(dayWidth)/2, y, 0.5, -1)
	dc.DrawStringAnchored(formatting.GetWeekdayShort(date.Weekday()), x+float64(dayWidth)/2, y, 0.5, -0.2)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawAppointment рисует одну запись
func drawAppointment(dc *gg.Context, a *model.Appointment, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(a.Time) / 60
	endHour := float64(appointmentEnd(a)) / 60

	blockY := y + (startHour-float64(hours.start))*cellHeight
	blockHeight := max((endHour-startHour)*cellHeight, minSlotHeight)

	fillColor := pendingColor
	if a.Status == model.AppointmentStatusConfirmed {
		fillColor = confirmedColor
	}
	blockWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(slotShadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, slotBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, slotBorderRadius)
	dc.Stroke()

	loadFont(dc, slotTimeFontSize, FontStyleMedium)
	dc.SetColor(slotTextColor)
	txtX := x + float64(dayPaddingX) + 8
	txtY := blockY + 18
	dc.DrawStringAnchored(a.Time.String(), txtX, txtY, 0, 0)

	if blockHeight > 36 {
		loadFont(dc, slotTimeFontSize-2)
		dc.DrawStringAnchored(truncate(a.ClientName, 16), txtX, txtY+16, 0, 0)
	}
}

// truncate обрезает текст по числу символов
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, shouldHighlight bool, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	if !shouldHighlight {
		return
	}

	currentHour := float64(now.Hour()) + float64(now.Minute())/60.0
	if currentHour < float64(hours.start) || currentHour > float64(hours.end) {
		return
	}

	currentTimeY := float64(headerHeight) + (currentHour-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), currentTimeY, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), currentTimeY)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 140.0

	dc.SetColor(legendTextColor)

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Ожидает", pendingColor},
		{"Подтверждена", confirmedColor},
		{"Часы работы", openHoursColor},
		{"Закрыто", closedDayColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		loadFont(dc, legendItemFontSize)
		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}

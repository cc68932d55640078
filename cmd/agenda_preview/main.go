package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/booking_bot/internal/availability"
	"github.com/Freeeeeet/booking_bot/internal/controller/callbacks/common"
	"github.com/Freeeeeet/booking_bot/internal/model"
)

func main() {
	out := flag.String("out", "week.png", "путь к PNG-файлу")
	flag.Parse()

	now := time.Now()
	startDate := availability.StartOfDay(now)
	// Начинаем с понедельника текущей недели
	for startDate.Weekday() != time.Monday {
		startDate = startDate.AddDate(0, 0, -1)
	}

	workday := []availability.TimeRange{
		{Start: availability.MustTimeOfDay("09:00"), End: availability.MustTimeOfDay("13:00")},
		{Start: availability.MustTimeOfDay("14:00"), End: availability.MustTimeOfDay("18:00")},
	}
	schedule := &availability.BusinessSchedule{
		Weekly: map[time.Weekday][]availability.TimeRange{
			time.Monday:    workday,
			time.Tuesday:   workday,
			time.Wednesday: workday,
			time.Thursday:  workday,
			time.Friday:    workday,
			time.Saturday: {
				{Start: availability.MustTimeOfDay("10:00"), End: availability.MustTimeOfDay("14:00")},
			},
		},
		Blocked: map[string]struct{}{
			availability.FormatDate(startDate.AddDate(0, 0, 3)): {}, // четверг закрыт
		},
		SlotMinutes: 30,
	}

	day := func(offset int) time.Time { return startDate.AddDate(0, 0, offset) }

	// Тестовые записи
	appointments := []*model.Appointment{
		sample(1, day(0), "09:00", "Стрижка", 30, "Анна", model.AppointmentStatusConfirmed),
		sample(2, day(0), "14:30", "Окрашивание", 120, "Мария", model.AppointmentStatusPending),
		sample(3, day(1), "10:00", "Маникюр", 60, "Ольга", model.AppointmentStatusConfirmed),
		sample(4, day(2), "16:00", "Стрижка", 30, "Ирина", model.AppointmentStatusPending),
		sample(5, day(4), "11:00", "Укладка", 45, "Елена", model.AppointmentStatusConfirmed),
		sample(6, day(5), "12:00", "Маникюр", 60, "Светлана", model.AppointmentStatusPending),
	}

	imageData, err := common.GenerateWeekImage(common.AgendaWeek{
		Start:        startDate,
		Schedule:     schedule,
		Appointments: appointments,
		Now:          now,
	})
	if err != nil {
		fmt.Printf("Ошибка генерации изображения: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, imageData, 0644); err != nil {
		fmt.Printf("Ошибка сохранения файла: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Изображение успешно сохранено в %s\n", *out)
	fmt.Printf("📅 Неделя: %s - %s\n", startDate.Format("02.01.2006"), day(6).Format("02.01.2006"))
	fmt.Printf("📊 Записей: %d\n", len(appointments))
}

func sample(id int64, date time.Time, at, serviceName string, duration int, client string, status model.AppointmentStatus) *model.Appointment {
	return &model.Appointment{
		ID:              id,
		ServiceName:     serviceName,
		ServiceDuration: duration,
		Date:            date,
		Time:            availability.MustTimeOfDay(at),
		ClientName:      client,
		ClientPhone:     "+7 900 000-00-0" + fmt.Sprint(id),
		Status:          status,
	}
}

package formatting

// plural выбирает форму слова для числа: 1 запись, 2 записи, 5 записей
func plural(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeAppointments возвращает правильное склонение слова "запись"
func PluralizeAppointments(count int) string {
	return plural(count, "запись", "записи", "записей")
}

// PluralizeSlots возвращает правильное склонение слова "слот"
func PluralizeSlots(count int) string {
	return plural(count, "слот", "слота", "слотов")
}

// PluralizeServices возвращает правильное склонение слова "услуга"
func PluralizeServices(count int) string {
	return plural(count, "услуга", "услуги", "услуг")
}

package wizard

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	NameMinLength   = 2
	NameMaxLength   = 100
	PhoneMinDigits  = 7
	PhoneMaxDigits  = 15
	phoneSeparators = " -()."
)

var (
	ErrInvalidName  = errors.New("invalid client name")
	ErrInvalidPhone = errors.New("invalid phone number")
)

// ValidateName проверяет имя и возвращает его без лишних пробелов
func ValidateName(name string) (string, error) {
	name = strings.Join(strings.Fields(name), " ")
	n := utf8.RuneCountInString(name)
	if n < NameMinLength || n > NameMaxLength {
		return "", ErrInvalidName
	}
	return name, nil
}

// ValidatePhone проверяет телефон: необязательный "+" в начале, затем от 7 до 15 цифр,
// разделённых пробелами, дефисами, точками или скобками.
func ValidatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	body := strings.TrimPrefix(phone, "+")

	digits := 0
	for _, r := range body {
		switch {
		case unicode.IsDigit(r) && r < utf8.RuneSelf:
			digits++
		case strings.ContainsRune(phoneSeparators, r):
		default:
			return "", ErrInvalidPhone
		}
	}
	if digits < PhoneMinDigits || digits > PhoneMaxDigits {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

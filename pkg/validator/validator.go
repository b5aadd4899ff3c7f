// Package validator проверяет и нормализует пользовательский ввод:
// телефоны, email и пароли.
package validator

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex    = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	passwordRegex = regexp.MustCompile(`^[a-zA-Z0-9!@#$%^&*()_+\-=[\]{};':"\\|,.<>/?]{6,}$`)
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePhone принимает телефон в свободном формате: скобки, пробелы и
// дефисы отбрасываются перед проверкой.
func ValidatePhone(phone string) bool {
	return phoneRegex.MatchString(stripPhone(phone))
}

func ValidatePassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	return passwordRegex.MatchString(password)
}

// FormatPhone приводит телефон к каноническому виду "+7XXXXXXXXXX":
// лишние символы убираются, ведущая восьмерка заменяется на +7.
func FormatPhone(phone string) string {
	cleanPhone := stripPhone(phone)

	if !strings.HasPrefix(cleanPhone, "+") {
		switch {
		case strings.HasPrefix(cleanPhone, "8"):
			cleanPhone = "+7" + cleanPhone[1:]
		case strings.HasPrefix(cleanPhone, "7"):
			cleanPhone = "+" + cleanPhone
		default:
			cleanPhone = "+7" + cleanPhone
		}
	}

	return cleanPhone
}

func stripPhone(phone string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)
}

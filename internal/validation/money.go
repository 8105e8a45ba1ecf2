package validation

import (
	"fmt"
	"strconv"
	"strings"
)

// Деньги хранятся только целыми копейками; плавающая точка не используется
// ни при хранении, ни при разборе пользовательского ввода.

// FormatCents форматирует сумму в копейках как строку "1234.56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParseCents разбирает строку вида "1234.56", "1234.5" или "1234" в копейки.
// Гарантируется ParseCents(FormatCents(c)) == c.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("сумма не указана")
	}

	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}

	whole := s
	frac := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole = s[:idx]
		frac = s[idx+1:]
	}

	// Обе части состоят только из цифр: знаки и пробелы внутри
	// частей ("12.-1", "12.+5") не являются суммой.
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("некорректный формат суммы")
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("некорректный формат суммы")
	}

	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("сумма не может содержать доли копейки")
	}
	// Дополняем дробную часть до двух знаков: "5" -> "50".
	for len(frac) < 2 {
		frac += "0"
	}

	wholeVal, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный формат суммы")
	}
	fracVal, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректный формат суммы")
	}

	cents := wholeVal*100 + fracVal
	if negative {
		cents = -cents
	}
	return cents, nil
}

// isDigits сообщает, состоит ли строка только из ASCII цифр. Пустая строка допустима.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Константы валидации
const (
	MinReferralNotesLength = 10
	MaxReferralNotesLength = 1000
	MinOfferTitleLength    = 3
	MaxOfferTitleLength    = 200
	MinOfferDescLength     = 10
	MaxOfferDescLength     = 5000
	MinUsernameLength      = 3
	MaxUsernameLength      = 30
	MinDisplayNameLength   = 2
	MaxDisplayNameLength   = 100
	MaxEngagementTitle     = 200
	MaxEngagementNotes     = 2000
	MaxProjectTitleLength  = 200
	MaxProjectDescLength   = 10000
	MinMessageLength       = 1
	MaxMessageLength       = 5000
	MaxAmountCents         = int64(10_000_000_000) // 100 миллионов в валюте
)

// ValidateLength проверяет длину строки в рунах.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return fmt.Errorf("%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return fmt.Errorf("%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidatePassword проверяет минимальные требования к паролю.
func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < 8 {
		return fmt.Errorf("пароль должен быть не менее 8 символов")
	}
	if utf8.RuneCountInString(password) > 72 {
		return fmt.Errorf("пароль должен быть не более 72 символов")
	}
	return nil
}

// ValidateDisplayName проверяет отображаемое имя.
func ValidateDisplayName(name string) error {
	return ValidateLength("отображаемое имя", name, MinDisplayNameLength, MaxDisplayNameLength)
}

// ValidateReferralNotes проверяет комментарий рекомендации.
// Минимальная длина применяется только для рекомендаций существующего клиента;
// для лидов комментарий ограничен лишь сверху.
func ValidateReferralNotes(notes string, requireMin bool) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return fmt.Errorf("комментарий рекомендации обязателен")
	}
	min := 0
	if requireMin {
		min = MinReferralNotesLength
	}
	return ValidateLength("комментарий рекомендации", notes, min, MaxReferralNotesLength)
}

// ValidateOfferTitle проверяет заголовок оффера.
func ValidateOfferTitle(title string) error {
	if title == "" {
		return fmt.Errorf("заголовок оффера обязателен")
	}
	return ValidateLength("заголовок оффера", strings.TrimSpace(title), MinOfferTitleLength, MaxOfferTitleLength)
}

// ValidateOfferDescription проверяет описание оффера.
func ValidateOfferDescription(description string) error {
	if description == "" {
		return fmt.Errorf("описание оффера обязательно")
	}
	return ValidateLength("описание оффера", strings.TrimSpace(description), MinOfferDescLength, MaxOfferDescLength)
}

// ValidateAmountCents проверяет денежную сумму в копейках.
func ValidateAmountCents(fieldName string, amount int64, allowZero bool) error {
	if amount < 0 {
		return fmt.Errorf("%s не может быть отрицательной", fieldName)
	}
	if !allowZero && amount == 0 {
		return fmt.Errorf("%s должна быть положительной", fieldName)
	}
	if amount > MaxAmountCents {
		return fmt.Errorf("%s превышает допустимый максимум", fieldName)
	}
	return nil
}

// ValidateDeliveryDays проверяет срок выполнения оффера.
func ValidateDeliveryDays(days *int) error {
	if days == nil {
		return nil
	}
	if *days <= 0 {
		return fmt.Errorf("срок выполнения должен быть положительным числом дней")
	}
	if *days > 3650 {
		return fmt.Errorf("срок выполнения не может превышать 3650 дней")
	}
	return nil
}

// ValidateEmail проверяет формат email.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email обязателен")
	}

	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return fmt.Errorf("некорректный формат email")
	}

	localPart := parts[0]
	domainPart := parts[1]

	if len(localPart) == 0 || len(localPart) > 64 {
		return fmt.Errorf("локальная часть email должна быть от 1 до 64 символов")
	}
	if len(domainPart) == 0 || len(domainPart) > 255 {
		return fmt.Errorf("доменная часть email должна быть от 1 до 255 символов")
	}

	localRegex := regexp.MustCompile(`^[a-z0-9._+-]+$`)
	if !localRegex.MatchString(localPart) {
		return fmt.Errorf("локальная часть email содержит недопустимые символы")
	}

	domainRegex := regexp.MustCompile(`^[a-z0-9.-]+\.[a-z]{2,}$`)
	if !domainRegex.MatchString(domainPart) {
		return fmt.Errorf("доменная часть email имеет некорректный формат")
	}

	return nil
}

// ValidateUsername проверяет имя пользователя.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("имя пользователя обязательно")
	}

	username = strings.TrimSpace(username)

	if err := ValidateLength("имя пользователя", username, MinUsernameLength, MaxUsernameLength); err != nil {
		return err
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	if !usernameRegex.MatchString(username) {
		return fmt.Errorf("имя пользователя может содержать только буквы, цифры и подчеркивание")
	}

	return nil
}

// ValidateMessageContent проверяет содержимое сообщения.
func ValidateMessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("сообщение не может быть пустым")
	}
	return ValidateLength("сообщение", strings.TrimSpace(content), MinMessageLength, MaxMessageLength)
}

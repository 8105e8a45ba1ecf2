package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateReferralNotes(t *testing.T) {
	// Для существующего клиента действует минимальная длина.
	assert.Error(t, ValidateReferralNotes("", true))
	assert.Error(t, ValidateReferralNotes("коротко", true))
	assert.NoError(t, ValidateReferralNotes("Ищет двушку в новостройке", true))

	// Для лида достаточно непустого комментария.
	assert.NoError(t, ValidateReferralNotes("лид", false))
	assert.Error(t, ValidateReferralNotes("   ", false))
	assert.Error(t, ValidateReferralNotes(strings.Repeat("а", MaxReferralNotesLength+1), false))
}

func TestValidateOfferTitle(t *testing.T) {
	assert.Error(t, ValidateOfferTitle(""))
	assert.Error(t, ValidateOfferTitle("аб"))
	assert.NoError(t, ValidateOfferTitle("Сопровождение сделки"))
	assert.Error(t, ValidateOfferTitle(strings.Repeat("а", MaxOfferTitleLength+1)))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword("12345678"))
	assert.Error(t, ValidatePassword(strings.Repeat("a", 73)))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("ivan@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
}

func TestValidateDeliveryDays(t *testing.T) {
	assert.NoError(t, ValidateDeliveryDays(nil))

	valid := 14
	assert.NoError(t, ValidateDeliveryDays(&valid))

	zero := 0
	assert.Error(t, ValidateDeliveryDays(&zero))

	tooLong := 4000
	assert.Error(t, ValidateDeliveryDays(&tooLong))
}

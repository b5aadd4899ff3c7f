package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.True(t, ValidatePhone("+79161234567"))
	assert.True(t, ValidatePhone("8 (916) 123-45-67"))
	assert.False(t, ValidatePhone("12345"))
	assert.False(t, ValidatePhone("телефон"))
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "+79161234567", FormatPhone("8 (916) 123-45-67"))
	assert.Equal(t, "+79161234567", FormatPhone("+7 916 123 45 67"))
	assert.Equal(t, "+79161234567", FormatPhone("79161234567"))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("secret123"))
	assert.True(t, ValidatePassword("p@ssw0rd!"))
	assert.False(t, ValidatePassword("12345"))
	assert.False(t, ValidatePassword(""))
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("user@example.com"))
	assert.False(t, ValidateEmail("user@"))
	assert.False(t, ValidateEmail("example.com"))
}

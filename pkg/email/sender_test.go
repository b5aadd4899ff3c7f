package email

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage("clinic@example.com", "client@example.com", "Запись на прием", "Здравствуйте!")

	assert.True(t, strings.HasPrefix(msg, "From: clinic@example.com\r\n"))
	assert.Contains(t, msg, "To: client@example.com\r\n")
	assert.Contains(t, msg, "Subject: Запись на прием\r\n")
	assert.Contains(t, msg, "charset=utf-8")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\nЗдравствуйте!\r\n"))
}

func TestNewSMTPSender_DefaultFrom(t *testing.T) {
	s := NewSMTPSender("localhost", "1025", "  ")
	assert.Equal(t, "no-reply@vetclinic.local", s.from)
	assert.Equal(t, "localhost:1025", s.addr)
}

func TestNoopSender(t *testing.T) {
	assert.NoError(t, NoopSender{}.Send("a@b.c", "s", "b"))
}

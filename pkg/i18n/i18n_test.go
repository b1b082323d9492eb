package i18n

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetFallsBackToKey(t *testing.T) {
	assert.Equal(t, "NoSuchMessage", Get("NoSuchMessage"))
}

func TestSetLanguage(t *testing.T) {
	t.Cleanup(func() { SetLanguage(LangEN) })

	SetLanguage(LangZH)
	assert.Equal(t, LangZH, GetLanguage())
	assert.Equal(t, messagesZH.BotStarted, Get("BotStarted"))

	SetLanguage("fr")
	assert.Equal(t, messagesEN.BotStarted, Get("BotStarted"))
}

func TestEveryMessageTranslated(t *testing.T) {
	en := reflect.ValueOf(messagesEN)
	zh := reflect.ValueOf(messagesZH)
	for i := 0; i < en.NumField(); i++ {
		name := en.Type().Field(i).Name
		assert.NotEmpty(t, en.Field(i).String(), "en.%s", name)
		assert.NotEmpty(t, zh.Field(i).String(), "zh.%s", name)
	}
}

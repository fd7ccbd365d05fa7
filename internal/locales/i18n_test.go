package locales

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMessage(t *testing.T) {
	Init("ru")

	assert.Equal(t, "ru", GetDefaultLanguageTag().String())
	assert.Equal(t, "Да", GetMessage(DefaultLocalizer(), "BtnConfirm", nil))
	assert.Equal(t, "Message sent.", GetMessage(NewLocalizer("en"), "MsgPostSent", nil))
	assert.Equal(t, "NoSuchMessage", GetMessage(DefaultLocalizer(), "NoSuchMessage", nil))
}

func TestInit_InvalidLanguageFallsBackToEnglish(t *testing.T) {
	Init("not a language tag!")
	defer Init("ru")

	assert.Equal(t, "en", GetDefaultLanguageTag().String())
	assert.Equal(t, "Hello", GetMessage(DefaultLocalizer(), "MsgStart", nil))
}

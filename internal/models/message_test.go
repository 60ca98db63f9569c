package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/studymate-app/web-ui/internal/models"
)

func TestNewMessage(t *testing.T) {
	msg := models.NewMessage(models.RoleAssistant, "<p>hello</p>")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, models.RoleAssistant, msg.Role)
	assert.Equal(t, "<p>hello</p>", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestNewMessageUniqueIDs(t *testing.T) {
	a := models.NewMessage(models.RoleUser, "one")
	b := models.NewMessage(models.RoleUser, "two")

	assert.NotEqual(t, a.ID, b.ID)
}

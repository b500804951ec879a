package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ecobin-backend/internal/models"
)

func TestNotificationMessage(t *testing.T) {
	bin := "bin3"
	msg := notificationMessage("ecobin", models.Notification{
		ID:      "n1",
		Title:   "Bin Full Alert",
		Message: "Bin at Central Plaza is 95% full",
		Type:    models.NotificationWarning,
		BinID:   &bin,
	})

	assert.Equal(t, "ecobin", msg.Topic)
	assert.Equal(t, "Bin Full Alert", msg.Notification.Title)
	assert.Equal(t, "bin3", msg.Data["bin_id"])
	assert.Equal(t, "high", msg.Android.Priority)

	msg = notificationMessage("ecobin", models.Notification{ID: "n2", Type: models.NotificationInfo})
	_, hasBin := msg.Data["bin_id"]
	assert.False(t, hasBin)
	assert.Equal(t, "normal", msg.Android.Priority)
}

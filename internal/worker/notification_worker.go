package worker

import (
	"go.uber.org/zap"

	"github.com/gramseva/grievance-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the event
// stream. Delivery itself happens on the dispatcher's goroutine (or a
// goroutine the handler spawns), so there is no loop to manage here.
func StartNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) {
	if notifications == nil {
		return
	}
	notifications.RegisterHandlers()
	logger.Info("notification worker started")
}

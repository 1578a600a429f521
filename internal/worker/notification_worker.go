package worker

import (
	"github.com/spec-kit/billing-portal/internal/service"
)

// StartNotificationWorker subscribes the notification service to billing and support events.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

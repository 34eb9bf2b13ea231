package worker

import (
	"github.com/satyamkumarjha2002/help-desk-portal/internal/events"
	"github.com/satyamkumarjha2002/help-desk-portal/internal/service"
)

// StartNotificationWorker wires notification handlers into the event
// dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService) {
	if dispatcher == nil || notificationService == nil {
		return
	}
	notificationService.RegisterHandlers(dispatcher)
}

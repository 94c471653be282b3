package worker

import (
	"github.com/foundit/lostfound-service/internal/events"
	"github.com/foundit/lostfound-service/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a
// forwarder is given, mirrors every lifecycle event onto NATS.
func StartNotificationWorker(notificationService *service.NotificationService, dispatcher events.Dispatcher, forwarder *events.NATSForwarder) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if forwarder != nil && dispatcher != nil {
		forwarder.Attach(dispatcher, events.AllEventTypes...)
	}
}

package worker

import (
	"context"

	"github.com/e-ashyoviy-dalillar/evidence-service/internal/service"
)

// Start subscribes the notification handlers and runs the expiry scanner in
// the background. Subscribers are registered before the first scan so the
// initial expiring events are delivered. The returned channel is closed once
// the scanner has stopped after ctx is cancelled.
func Start(ctx context.Context, notifications *service.NotificationService, expiry *ExpiryWorker) <-chan struct{} {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	done := make(chan struct{})
	if expiry == nil {
		close(done)
		return done
	}
	go func() {
		defer close(done)
		expiry.Run(ctx)
	}()
	return done
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/gramseva/grievance-service/internal/events"
	"github.com/gramseva/grievance-service/internal/notify"
)

// NotificationService reacts to domain events with outbound email and logs.
// Every handler is best-effort: a failed notification never surfaces to the
// request that committed the state.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     *notify.Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer *notify.Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleComplaintStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintApprovalChanged, n.handleComplaintApprovalChanged)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID))

	// Welcome mail is sent off the request path; registration already
	// committed and must not fail on delivery problems.
	go func() {
		body := fmt.Sprintf("Hi %s,<br><br>Thank you for registering. You can now report issues.", payload.Name)
		if err := n.mailer.SendEmail(context.Background(), payload.Email, "Welcome to the Village Grievance Desk", body); err != nil {
			n.logger.Warn("welcome email failed", zap.Error(err))
		}
	}()
	return nil
}

func (n *NotificationService) handleComplaintCreated(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintCreated", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintStatusChanged", zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleComplaintApprovalChanged(_ context.Context, event events.Event) error {
	n.logger.Info("ComplaintApprovalChanged", zap.Any("payload", event.Payload))
	return nil
}

package service

import (
	"context"

	"cloess-chatbot-be/internal/pkg/logger"
	"cloess-chatbot-be/pkg/events"
)

const auditModule = "EventAudit"

// EventSubscriber is satisfied by the NATS subscriber.
type EventSubscriber interface {
	Subscribe(subject, durableName string, handler events.Handler) error
}

type IEventAuditService interface {
	Start() error
}

// eventAuditService mirrors bus events into the analytics log so the
// back office can read them from /analytics/logs.
type eventAuditService struct {
	subscriber EventSubscriber
	logger     logger.ILogger
}

func NewEventAuditService(subscriber EventSubscriber, log logger.ILogger) IEventAuditService {
	return &eventAuditService{subscriber: subscriber, logger: log}
}

func (s *eventAuditService) Start() error {
	return s.subscriber.Subscribe("events.>", "cloess-event-audit", s.handle)
}

func (s *eventAuditService) handle(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+2)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["event_type"] = event.EventType()
	details["occurred_at"] = event.Timestamp()

	s.logger.Info(auditModule, "Event received", details)
	return nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Lynx-thelearner/BE-Wisata/internal/cache"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
)

// EventSink accepts events for asynchronous delivery outside the process.
type EventSink interface {
	Enqueue(event events.Event) bool
}

// NotificationService reacts to domain events: it logs them, drops the
// cached public listing when the catalog changed and hands events to the
// outbound sink.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	published  cache.PublishedCache
	sink       EventSink
}

// NewNotificationService creates the service. sink may be nil.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, published cache.PublishedCache, sink EventSink) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		published:  published,
		sink:       sink,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		if eventType.AffectsCatalog() {
			n.dispatcher.Subscribe(eventType, n.handleCatalogChanged)
		}
		n.dispatcher.Subscribe(eventType, n.handleForward)
	}
	n.dispatcher.Subscribe(events.EventUserReviewCreated, n.handleReviewCreated)
	n.dispatcher.Subscribe(events.EventEditorReviewCreated, n.handleReviewCreated)
}

func (n *NotificationService) handleCatalogChanged(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.Int64("wisata_id", event.WisataID),
		zap.Any("payload", event.Payload))
	if n.published == nil {
		return nil
	}
	return n.published.Invalidate(ctx)
}

func (n *NotificationService) handleReviewCreated(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Int64("wisata_id", event.WisataID),
		zap.Any("payload", event.Payload),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.Int64("actor_id", *event.ActorID))
	}
	n.logger.Info(string(event.Type), fields...)
	return nil
}

func (n *NotificationService) handleForward(_ context.Context, event events.Event) error {
	if n.sink == nil {
		return nil
	}
	if !n.sink.Enqueue(event) {
		n.logger.Warn("event sink full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
	return nil
}

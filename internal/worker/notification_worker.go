package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// StartNotificationWorker registers notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}

// Forwarder delivers one event to an external system.
type Forwarder interface {
	Forward(ctx context.Context, event events.Event) error
}

// ForwardWorker drains a bounded queue of events into a Forwarder on a
// single background goroutine.
type ForwardWorker struct {
	forwarder Forwarder
	logger    *zap.Logger
	queue     chan events.Event
	wg        sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewForwardWorker builds a worker with the given queue capacity.
func NewForwardWorker(forwarder Forwarder, logger *zap.Logger, capacity int) *ForwardWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if capacity <= 0 {
		capacity = 256
	}
	return &ForwardWorker{
		forwarder: forwarder,
		logger:    logger,
		queue:     make(chan events.Event, capacity),
	}
}

// Start launches the drain loop. It exits when ctx is cancelled or Stop is called.
func (w *ForwardWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.queue:
				if !ok {
					return
				}
				if err := w.forwarder.Forward(ctx, event); err != nil {
					w.logger.Warn("forward event failed",
						zap.String("event_id", event.ID),
						zap.String("event_type", string(event.Type)),
						zap.Error(err))
				}
			}
		}
	}()
}

// Enqueue hands event to the worker without blocking. It reports false when
// the queue is full or the worker has stopped.
func (w *ForwardWorker) Enqueue(event events.Event) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return false
	}
	select {
	case w.queue <- event:
		return true
	default:
		return false
	}
}

// Stop closes the queue and waits for queued events to drain.
// Safe to call more than once.
func (w *ForwardWorker) Stop() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

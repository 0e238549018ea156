package newsletter

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/madrasa/core"
)

const defaultQueueSize = 32

// Notifier dispatches notifications in the background, for callers that must not wait on,
// or fail because of, the email provider (e.g. right after saving an exam result).
type Notifier struct {
	dispatcher *Dispatcher
	logger     core.Logger
	queue      chan NotificationRequest
	wg         sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewNotifier starts a Notifier holding at most `queueSize` pending notifications.
func NewNotifier(dispatcher *Dispatcher, logger core.Logger, queueSize int) *Notifier {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	n := &Notifier{
		dispatcher: dispatcher,
		logger:     logger,
		queue:      make(chan NotificationRequest, queueSize),
	}
	n.wg.Add(1)
	go n.run()
	return n
}

// Notify queues `req` without blocking. It reports false when the notification was dropped
// because the queue is full or the Notifier is closed.
func (n *Notifier) Notify(req NotificationRequest) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()

	fields := map[string]interface{}{"type": req.Type, "title": req.Title}
	if n.closed {
		n.logger.Warn("notifier closed: notification dropped", fields)
		return false
	}
	select {
	case n.queue <- req:
		return true
	default:
		n.logger.Warn("notification queue full: notification dropped", fields)
		return false
	}
}

func (n *Notifier) run() {
	defer n.wg.Done()
	for req := range n.queue {
		n.process(req)
	}
}

func (n *Notifier) process(req NotificationRequest) {
	fields := map[string]interface{}{"type": req.Type, "title": req.Title}

	// dispatch bounds the subscribers query and every send
	res, err := n.dispatcher.dispatch(context.Background(), req, ModeAutomatic)
	if err != nil {
		n.logger.Error("automatic notification failed", errors.Wrap(err, "dispatching notification"), fields)
		return
	}

	fields["status"] = res.Status
	fields["subscribers"] = res.SubscribersCount
	fields["successful"] = res.Successful
	fields["failed"] = res.Failed
	if res.Failed > 0 {
		n.logger.Warn("automatic notification partially failed", fields)
	} else {
		n.logger.Info("automatic notification dispatched", fields)
	}
}

// Close stops accepting notifications and waits for the queued ones to be dispatched, or for ctx to be done.
func (n *Notifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "waiting for queued notifications")
	}
}

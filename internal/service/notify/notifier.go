package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// DefaultObserverTimeout bounds a single observer call.
const DefaultObserverTimeout = 5 * time.Second

// Observer reacts to a committed stock movement.
type Observer interface {
	Name() string
	Observe(ctx context.Context, event models.ChangeEvent) error
}

// Notifier fans a ChangeEvent out to every registered observer, in
// registration order. Observer failures are logged and never returned.
type Notifier struct {
	mu        sync.RWMutex
	observers []Observer
	timeout   time.Duration
	logger    *zap.Logger
}

// NewNotifier creates a notifier with the given observers already registered.
func NewNotifier(logger *zap.Logger, observers ...Observer) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		observers: observers,
		timeout:   DefaultObserverTimeout,
		logger:    logger,
	}
}

// Register appends an observer.
func (n *Notifier) Register(observer Observer) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, observer)
}

// Notify delivers event synchronously. The caller's cancellation does not
// reach observers because the movement is already committed.
func (n *Notifier) Notify(ctx context.Context, event models.ChangeEvent) {
	n.mu.RLock()
	observers := append([]Observer(nil), n.observers...)
	n.mu.RUnlock()

	base := context.WithoutCancel(ctx)
	for _, observer := range observers {
		if err := n.deliver(base, observer, event); err != nil {
			n.logger.Warn("change observer failed",
				zap.String("observer", observer.Name()),
				zap.Int64("product_id", event.ProductID),
				zap.String("kind", string(event.Kind)),
				zap.Error(err))
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, observer Observer, event models.ChangeEvent) (err error) {
	ctx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("observer panicked: %v", r)
		}
	}()

	return observer.Observe(ctx, event)
}

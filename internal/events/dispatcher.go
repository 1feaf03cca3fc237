package events

import (
	"context"
	"sync"
)

type subscription struct {
	name     string
	listener Listener
}

// Dispatcher синхронно доставляет события подписчикам после фиксации транзакции
// Набор подписчиков задается явно при сборке приложения
type Dispatcher struct {
	mu            sync.RWMutex
	subscriptions []subscription
	logger        Logger
}

// NewDispatcher создает диспетчер без подписчиков
func NewDispatcher(logger Logger) *Dispatcher {
	return &Dispatcher{logger: logger}
}

// Subscribe добавляет подписчика; name используется в логах
func (d *Dispatcher) Subscribe(name string, listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscriptions = append(d.subscriptions, subscription{name: name, listener: listener})
}

// Publish вызывает всех подписчиков по порядку подписки
// Ошибки и паники подписчиков логируются, доставка остальным продолжается
func (d *Dispatcher) Publish(ctx context.Context, event Event) {
	d.mu.RLock()
	subs := make([]subscription, len(d.subscriptions))
	copy(subs, d.subscriptions)
	d.mu.RUnlock()

	for _, sub := range subs {
		d.deliver(ctx, sub, event)
	}
}

func (d *Dispatcher) deliver(ctx context.Context, sub subscription, event Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Publish: listener %s panicked on %s appointment=%d: %v",
				sub.name, event.Name, event.Appointment.ID, r)
		}
	}()

	if err := sub.listener.Handle(ctx, event); err != nil {
		d.logger.Error("Publish: listener %s failed on %s appointment=%d: %v",
			sub.name, event.Name, event.Appointment.ID, err)
	}
}

package events

import (
	"sync"

	"github.com/google/uuid"
)

// Handler 事件处理器
type Handler func(event Event)

// SubscriptionID 订阅标识
type SubscriptionID string

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Bus 事件总线
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]subscription
}

// NewBus 创建新的事件总线
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]subscription),
	}
}

// Subscribe 订阅指定类型的事件
func (b *Bus) Subscribe(eventType EventType, handler Handler) SubscriptionID {
	id := SubscriptionID(uuid.NewString())
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})
	return id
}

// SubscribeAll 订阅所有事件
func (b *Bus) SubscribeAll(handler Handler) SubscriptionID {
	return b.Subscribe(EventAll, handler)
}

// Unsubscribe 取消单个订阅
func (b *Bus) Unsubscribe(id SubscriptionID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for eventType, subs := range b.handlers {
		next := subs[:0:0]
		for _, s := range subs {
			if s.id != id {
				next = append(next, s)
			}
		}
		if len(next) == 0 {
			delete(b.handlers, eventType)
			continue
		}
		b.handlers[eventType] = next
	}
}

func (b *Bus) snapshot(eventType EventType) []Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	// 复制处理器列表，避免在锁内执行用户代码
	out := make([]Handler, 0, len(b.handlers[eventType])+len(b.handlers[EventAll]))
	for _, s := range b.handlers[eventType] {
		out = append(out, s.handler)
	}
	for _, s := range b.handlers[EventAll] {
		out = append(out, s.handler)
	}
	return out
}

// PublishSync 发布事件（同步执行所有处理器）
//
// 处理器在发布者的 goroutine 中按订阅顺序执行，不得阻塞。
func (b *Bus) PublishSync(event Event) {
	for _, h := range b.snapshot(event.Type()) {
		h(event)
	}
}

// HasSubscribers 检查是否有订阅者
func (b *Bus) HasSubscribers(eventType EventType) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType]) > 0 || len(b.handlers[EventAll]) > 0
}

package service

import (
	"sync"
	"time"

	"github.com/waterbuddy/internal/db"
)

// EventType 标识核心状态机对外广播的事件种类。
type EventType string

const (
	EventEntryAdded     EventType = "entry_added"
	EventEntryDeleted   EventType = "entry_deleted"
	EventGoalCompleted  EventType = "goal_completed"
	EventProfileUpdated EventType = "profile_updated"
)

// Event 是发送给订阅方的事件载荷。GoalCompleted 事件携带当时的
// 当日累计摄入量。
type Event struct {
	Type   EventType      `json:"type"`
	Entry  *db.WaterEntry `json:"entry,omitempty"`
	Intake float64        `json:"intake,omitempty"`
	At     time.Time      `json:"at"`
}

const subscriberBuffer = 16

// EventBus 是核心向展示层广播状态变化的类型化事件流。
// 发布永不阻塞：订阅方缓冲占满时丢弃事件。
type EventBus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewEventBus 构造空事件总线。
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[int]chan Event)}
}

// Subscribe 返回事件通道及取消函数。
func (b *EventBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if existing, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(existing)
		}
	}
	return ch, cancel
}

// Publish 向所有订阅方广播事件。
func (b *EventBus) Publish(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

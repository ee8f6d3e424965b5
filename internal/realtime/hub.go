// Package realtime cung cấp hub đăng ký nhận thay đổi dữ liệu theo collection.
// Hub nghe sự kiện từ package events và phân phối cho từng subscription theo
// filter riêng; mỗi subscription nhận sự kiện tuần tự để giữ đúng thứ tự thay đổi.
package realtime

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"field_service/internal/api/events"
	"field_service/internal/logger"
)

// subscriptionBuffer là độ sâu hàng đợi sự kiện của một subscription.
// Đầy thì sự kiện bị bỏ (subscriber chậm không được chặn writer).
const subscriptionBuffer = 256

// Handler xử lý một sự kiện thay đổi dữ liệu.
type Handler func(ctx context.Context, e events.DataChangeEvent)

// Filter quyết định subscription có quan tâm đến sự kiện không. Nil = nhận tất cả.
type Filter func(e events.DataChangeEvent) bool

// Hub phân phối sự kiện thay đổi dữ liệu cho các subscription.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	closed bool
}

// NewHub tạo hub và móc vào luồng sự kiện trung tâm.
func NewHub() *Hub {
	h := &Hub{subs: make(map[uint64]*Subscription)}
	events.OnDataChanged(h.dispatch)
	return h
}

// Subscribe đăng ký nhận thay đổi của một collection.
// handler được gọi tuần tự theo thứ tự sự kiện đến; panic trong handler
// được recover để không làm chết goroutine phân phối.
func (h *Hub) Subscribe(collection string, filter Filter, handler Handler) *Subscription {
	s := &Subscription{
		hub:        h,
		collection: collection,
		filter:     filter,
		ch:         make(chan events.DataChangeEvent, subscriptionBuffer),
	}
	s.handler.Store(handler)

	h.mu.Lock()
	h.nextID++
	s.id = h.nextID
	h.subs[s.id] = s
	h.mu.Unlock()

	go s.run()
	return s
}

// Publish đưa một sự kiện vào hub một cách đồng bộ, giữ nguyên thứ tự
// giữa các lần gọi liên tiếp. Dùng khi nguồn sự kiện cần bảo đảm thứ tự
// (luồng events trung tâm chạy handler trong goroutine nên không đảm bảo).
func (h *Hub) Publish(ctx context.Context, e events.DataChangeEvent) {
	h.dispatch(ctx, e)
}

// dispatch đẩy sự kiện vào hàng đợi của các subscription khớp.
func (h *Hub) dispatch(ctx context.Context, e events.DataChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, s := range h.subs {
		if s.collection != "" && s.collection != e.CollectionName {
			continue
		}
		if s.filter != nil && !s.filter(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			logger.GetAppLogger().WithFields(logrus.Fields{
				"collection": e.CollectionName,
				"operation":  e.Operation,
			}).Warn("🔔 [REALTIME] Subscription queue full, dropping event")
		}
	}
}

func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Close hủy tất cả subscription. Hub không dùng lại được sau khi Close.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for _, s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

// Subscription là một đăng ký nhận thay đổi trên hub.
type Subscription struct {
	hub        *Hub
	id         uint64
	collection string
	filter     Filter
	handler    atomic.Value // Handler
	ch         chan events.DataChangeEvent
	closeOnce  sync.Once
}

// run tiêu thụ sự kiện tuần tự cho đến khi Unsubscribe.
func (s *Subscription) run() {
	for e := range s.ch {
		s.deliver(e)
	}
}

func (s *Subscription) deliver(e events.DataChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"collection": e.CollectionName,
				"operation":  e.Operation,
				"panic":      r,
			}).Error("🔔 [REALTIME] Subscription handler panic")
		}
	}()
	if h, ok := s.handler.Load().(Handler); ok && h != nil {
		h(context.Background(), e)
	}
}

// Update thay callback của subscription mà không cần hủy và đăng ký lại.
// Sự kiện đang chờ trong hàng đợi sẽ đi vào callback mới.
func (s *Subscription) Update(handler Handler) {
	s.handler.Store(handler)
}

// Unsubscribe gỡ subscription khỏi hub. An toàn khi gọi nhiều lần.
func (s *Subscription) Unsubscribe() {
	s.closeOnce.Do(func() {
		s.hub.remove(s.id)
		close(s.ch)
	})
}

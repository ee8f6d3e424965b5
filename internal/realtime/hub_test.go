// Package realtime - Test phân phối sự kiện, thay callback và hủy đăng ký.
package realtime

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"field_service/internal/api/events"
)

// collector gom sự kiện nhận được, an toàn goroutine.
type collector struct {
	mu   sync.Mutex
	got  []events.DataChangeEvent
	cond *sync.Cond
}

func newCollector() *collector {
	c := &collector{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *collector) handle(ctx context.Context, e events.DataChangeEvent) {
	c.mu.Lock()
	c.got = append(c.got, e)
	c.cond.Broadcast()
	c.mu.Unlock()
}

// waitFor chờ đến khi nhận đủ n sự kiện hoặc timeout.
func (c *collector) waitFor(t *testing.T, n int) []events.DataChangeEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	c.mu.Lock()
	defer c.mu.Unlock()
	for len(c.got) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timeout chờ %d sự kiện, mới nhận %d", n, len(c.got))
		}
		c.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		c.mu.Lock()
	}
	out := make([]events.DataChangeEvent, len(c.got))
	copy(out, c.got)
	return out
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.got)
}

func TestSubscribe_ReceivesMatchingEventsInOrder(t *testing.T) {
	h := &Hub{subs: map[uint64]*Subscription{}}
	defer h.Close()

	col := newCollector()
	sub := h.Subscribe("territory_maps", nil, col.handle)
	defer sub.Unsubscribe()

	ctx := context.Background()
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territory_maps", Operation: events.OpInsert, Version: 1})
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territories", Operation: events.OpUpdate, Version: 2})
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territory_maps", Operation: events.OpDelete, Version: 3})

	got := col.waitFor(t, 2)
	require.Len(t, got, 2, "chỉ nhận sự kiện của collection đã đăng ký")
	assert.Equal(t, events.OpInsert, got[0].Operation, "sự kiện phải đến đúng thứ tự")
	assert.Equal(t, events.OpDelete, got[1].Operation)
}

func TestSubscribe_FilterExcludesEvents(t *testing.T) {
	h := &Hub{subs: map[uint64]*Subscription{}}
	defer h.Close()

	col := newCollector()
	onlyUpdates := func(e events.DataChangeEvent) bool { return e.Operation == events.OpUpdate }
	sub := h.Subscribe("map_units", onlyUpdates, col.handle)
	defer sub.Unsubscribe()

	ctx := context.Background()
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "map_units", Operation: events.OpInsert})
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "map_units", Operation: events.OpUpdate})

	got := col.waitFor(t, 1)
	require.Len(t, got, 1)
	assert.Equal(t, events.OpUpdate, got[0].Operation)
}

func TestSubscription_UpdateSwapsCallback(t *testing.T) {
	h := &Hub{subs: map[uint64]*Subscription{}}
	defer h.Close()

	first := newCollector()
	second := newCollector()
	sub := h.Subscribe("territories", nil, first.handle)
	defer sub.Unsubscribe()

	ctx := context.Background()
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territories", Version: 1})
	first.waitFor(t, 1)

	sub.Update(second.handle)
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territories", Version: 2})
	got := second.waitFor(t, 1)

	assert.Equal(t, int64(2), got[0].Version, "sự kiện sau Update phải vào callback mới")
	assert.Equal(t, 1, first.count(), "callback cũ không được nhận thêm sự kiện")
}

func TestSubscription_UnsubscribeIdempotent(t *testing.T) {
	h := &Hub{subs: map[uint64]*Subscription{}}
	defer h.Close()

	col := newCollector()
	sub := h.Subscribe("share_links", nil, col.handle)

	sub.Unsubscribe()
	assert.NotPanics(t, func() { sub.Unsubscribe() }, "Unsubscribe lần hai phải an toàn")

	h.Publish(context.Background(), events.DataChangeEvent{CollectionName: "share_links"})
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, col.count(), "sau Unsubscribe không được nhận sự kiện")
}

func TestSubscription_HandlerPanicDoesNotStopDelivery(t *testing.T) {
	h := &Hub{subs: map[uint64]*Subscription{}}
	defer h.Close()

	col := newCollector()
	calls := 0
	sub := h.Subscribe("territories", nil, func(ctx context.Context, e events.DataChangeEvent) {
		calls++
		if calls == 1 {
			panic("hỏng ở sự kiện đầu")
		}
		col.handle(ctx, e)
	})
	defer sub.Unsubscribe()

	ctx := context.Background()
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territories", Version: 1})
	h.Publish(ctx, events.DataChangeEvent{CollectionName: "territories", Version: 2})

	got := col.waitFor(t, 1)
	assert.Equal(t, int64(2), got[0].Version, "panic ở sự kiện trước không được chặn sự kiện sau")
}

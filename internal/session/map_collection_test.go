package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/api/events"
	mapsmodels "field_service/internal/api/maps/models"
	"field_service/internal/geo"
	"field_service/internal/global"
	"field_service/internal/realtime"
)

func newTestMap(territoryID primitive.ObjectID, sequence int, version int64) mapsmodels.TerritoryMap {
	return mapsmodels.TerritoryMap{
		ID:          primitive.NewObjectID(),
		TerritoryID: territoryID,
		Sequence:    sequence,
		Type:        mapsmodels.MapTypeMulti,
		UpdatedAt:   version,
	}
}

func sequences(entries []MapEntry) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Sequence)
	}
	return out
}

// Sau mọi tổ hợp create/update/delete, danh sách luôn theo sequence tăng dần
// bất kể thứ tự sự kiện đến.
func TestMapCollectionSequenceOrderAfterEvents(t *testing.T) {
	territoryID := primitive.NewObjectID()
	store := newFakeStore()
	store.maps = []mapsmodels.TerritoryMap{
		newTestMap(territoryID, 3, 100),
		newTestMap(territoryID, 1, 100),
	}

	c := NewMapCollection(store, &fakeNotifier{}, geo.Coordinate{Lat: 10, Lng: 106})
	require.NoError(t, c.Setup(context.Background(), territoryID))
	assert.Equal(t, []int{1, 3}, sequences(c.Entries()))

	// Create đến với sequence nằm giữa hai entry hiện có
	created := newTestMap(territoryID, 2, 101)
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpInsert, Document: created, Version: 101})
	assert.Equal(t, []int{1, 2, 3}, sequences(c.Entries()))

	// Update đổi sequence của entry giữa lên cuối
	moved := created
	moved.Sequence = 9
	moved.UpdatedAt = 102
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpUpdate, Document: moved, Version: 102})
	assert.Equal(t, []int{1, 3, 9}, sequences(c.Entries()))

	// Delete giữ nguyên thứ tự của phần còn lại
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpDelete, Document: moved, Version: 103})
	assert.Equal(t, []int{1, 3}, sequences(c.Entries()))
}

// Update đến trước insert (hai kênh không bảo đảm thứ tự) được coi như create.
func TestMapCollectionUpdateBeforeInsert(t *testing.T) {
	territoryID := primitive.NewObjectID()
	c := NewMapCollection(newFakeStore(), &fakeNotifier{}, geo.Coordinate{})
	require.NoError(t, c.Setup(context.Background(), territoryID))

	record := newTestMap(territoryID, 5, 100)
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpUpdate, Document: record, Version: 100})

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, record.ID, entries[0].ID)
}

// Sự kiện mang version cũ hơn bản đang giữ bị bỏ qua.
func TestMapCollectionStaleVersionIgnored(t *testing.T) {
	territoryID := primitive.NewObjectID()
	store := newFakeStore()
	current := newTestMap(territoryID, 1, 200)
	current.Name = "Chung cư A"
	store.maps = []mapsmodels.TerritoryMap{current}

	c := NewMapCollection(store, &fakeNotifier{}, geo.Coordinate{})
	require.NoError(t, c.Setup(context.Background(), territoryID))

	stale := current
	stale.Name = "Tên cũ"
	stale.UpdatedAt = 150
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpUpdate, Document: stale, Version: 150})

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "Chung cư A", entries[0].Name)
}

// Sự kiện của khu vực khác không lọt vào collection.
func TestMapCollectionIgnoresOtherTerritory(t *testing.T) {
	territoryID := primitive.NewObjectID()
	c := NewMapCollection(newFakeStore(), &fakeNotifier{}, geo.Coordinate{})
	require.NoError(t, c.Setup(context.Background(), territoryID))

	other := newTestMap(primitive.NewObjectID(), 1, 100)
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpInsert, Document: other, Version: 100})
	assert.Empty(t, c.Entries())
}

// Chiếu bản ghi: type thiếu thành multi, coordinates thiếu dùng fallback.
func TestMapCollectionProjectionDefaults(t *testing.T) {
	territoryID := primitive.NewObjectID()
	fallback := geo.Coordinate{Lat: 10.8, Lng: 106.6}
	store := newFakeStore()
	raw := newTestMap(territoryID, 1, 100)
	raw.Type = ""
	raw.Coordinates = nil
	store.maps = []mapsmodels.TerritoryMap{raw}

	c := NewMapCollection(store, &fakeNotifier{}, fallback)
	require.NoError(t, c.Setup(context.Background(), territoryID))

	entries := c.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, mapsmodels.MapTypeMulti, entries[0].Type)
	assert.Equal(t, fallback, entries[0].Coordinates)
}

// Chuyển khu vực thất bại: danh sách giữ nguyên, có thông báo lỗi.
// Thành công: bản ghi bị gỡ sau khi backend xác nhận.
func TestMapCollectionMoveToTerritoryPessimistic(t *testing.T) {
	territoryID := primitive.NewObjectID()
	store := newFakeStore()
	record := newTestMap(territoryID, 1, 100)
	store.maps = []mapsmodels.TerritoryMap{record}

	notifier := &fakeNotifier{}
	c := NewMapCollection(store, notifier, geo.Coordinate{})
	require.NoError(t, c.Setup(context.Background(), territoryID))

	store.moveErr = errors.New("khu vực đích không tồn tại")
	err := c.MoveToTerritory(context.Background(), record.ID, "B-07")
	require.Error(t, err)
	assert.Len(t, c.Entries(), 1, "thất bại không được gỡ bản ghi")
	assert.NotEmpty(t, notifier.errors)

	store.moveErr = nil
	store.movedCode = "B-07"
	require.NoError(t, c.MoveToTerritory(context.Background(), record.ID, "B-07"))
	assert.Empty(t, c.Entries())
	require.NotEmpty(t, notifier.successs)
	assert.Contains(t, notifier.successs[0], "B-07")
}

// Keys và viewMode thay đổi cùng danh sách entry.
func TestMapCollectionKeysFollowEntries(t *testing.T) {
	territoryID := primitive.NewObjectID()
	c := NewMapCollection(newFakeStore(), &fakeNotifier{}, geo.Coordinate{})
	require.NoError(t, c.Setup(context.Background(), territoryID))

	record := newTestMap(territoryID, 1, 100)
	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpInsert, Document: record, Version: 100})
	assert.Equal(t, []string{record.ID.Hex()}, c.Keys())

	c.SetViewMode(record.ID.Hex(), true)
	assert.True(t, c.ViewMode(record.ID.Hex()))

	c.ApplyEvent(events.DataChangeEvent{Operation: events.OpDelete, Document: record, Version: 101})
	assert.Empty(t, c.Keys())
	assert.False(t, c.ViewMode(record.ID.Hex()))
}

// Watch/Stop gọi đan xen từ nhiều goroutine không được đua dữ liệu trên
// subscription; Watch sau Stop phải đăng ký lại và tiếp tục nhận sự kiện.
func TestMapCollectionWatchStopConcurrent(t *testing.T) {
	global.MongoDB_ColNames.TerritoryMaps = "territory_maps"
	territoryID := primitive.NewObjectID()
	c := NewMapCollection(newFakeStore(), &fakeNotifier{}, geo.Coordinate{})
	require.NoError(t, c.Setup(context.Background(), territoryID))
	hub := realtime.NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Watch(hub)
				c.Stop()
			}
		}()
	}
	wg.Wait()

	c.Stop()
	c.Watch(hub)
	created := newTestMap(territoryID, 1, 100)
	hub.Publish(context.Background(), events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.TerritoryMaps,
		Operation:      events.OpInsert,
		Document:       created,
		Version:        100,
	})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(c.Entries()) == 1 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	require.Len(t, c.Entries(), 1, "Watch sau Stop phải nhận lại sự kiện")
	c.Stop()
}

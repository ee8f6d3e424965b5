package session

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/api/events"
	mapsmodels "field_service/internal/api/maps/models"
	"field_service/internal/geo"
	"field_service/internal/global"
	"field_service/internal/realtime"
)

// MapEntry là hình chiếu của một bản đồ trong collection phiên làm việc.
// Các field thiếu trong bản ghi gốc được điền mặc định khi chiếu
// (type thiếu hiểu là multi, coordinates thiếu dùng tọa độ fallback).
type MapEntry struct {
	ID           primitive.ObjectID
	TerritoryID  primitive.ObjectID
	Sequence     int
	Type         string
	Name         string
	Location     string
	Coordinates  geo.Coordinate
	Progress     float64
	NotDoneCount int
	NotHomeCount int

	// Version là updatedAt của bản ghi lúc chiếu; sự kiện realtime mang
	// version cũ hơn bị bỏ qua để hai kênh dữ liệu không ghi đè lẫn nhau.
	Version int64
}

// MapCollection giữ danh sách bản đồ của một khu vực theo đúng thứ tự sequence,
// kèm danh sách key (cho UI accordion) và map chế độ xem theo từng bản đồ.
// Ba phần trạng thái này luôn thay đổi trong cùng một lần giữ khóa - người đọc
// không bao giờ thấy trạng thái lưng chừng.
type MapCollection struct {
	mu       sync.RWMutex
	store    Store
	notifier Notifier

	territoryID primitive.ObjectID
	fallback    geo.Coordinate

	entries  []MapEntry
	keys     []string
	viewMode map[string]bool

	sub *realtime.Subscription
}

// NewMapCollection tạo collection rỗng. fallback là tọa độ dùng khi bản ghi
// không có tọa độ hợp lệ (tâm boundary của khu vực hoặc origin của hội thánh).
func NewMapCollection(store Store, notifier Notifier, fallback geo.Coordinate) *MapCollection {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &MapCollection{
		store:    store,
		notifier: notifier,
		fallback: fallback,
		viewMode: make(map[string]bool),
	}
}

// project chiếu bản ghi thô thành MapEntry với các mặc định.
func (c *MapCollection) project(m mapsmodels.TerritoryMap) MapEntry {
	entry := MapEntry{
		ID:           m.ID,
		TerritoryID:  m.TerritoryID,
		Sequence:     m.Sequence,
		Type:         m.Type,
		Name:         m.Name,
		Location:     m.Location,
		Coordinates:  c.fallback,
		Progress:     m.Progress,
		NotDoneCount: m.NotDoneCount,
		NotHomeCount: m.NotHomeCount,
		Version:      m.UpdatedAt,
	}
	if entry.Type == "" {
		entry.Type = mapsmodels.MapTypeMulti
	}
	if m.Coordinates != nil && m.Coordinates.IsValid() {
		entry.Coordinates = *m.Coordinates
	}
	return entry
}

// Setup nạp toàn bộ bản đồ của một khu vực và thay thế trạng thái hiện có.
// Lỗi fetch giữ nguyên trạng thái cũ và báo qua notifier.
func (c *MapCollection) Setup(ctx context.Context, territoryID primitive.ObjectID) error {
	records, err := c.store.MapsByTerritory(ctx, territoryID)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Không tải được danh sách bản đồ: %v", err))
		return err
	}

	entries := make([]MapEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, c.project(r))
	}
	sortBySequence(entries)

	keys := make([]string, 0, len(entries))
	viewMode := make(map[string]bool, len(entries))
	for _, e := range entries {
		keys = append(keys, e.ID.Hex())
		viewMode[e.ID.Hex()] = false
	}

	c.mu.Lock()
	c.territoryID = territoryID
	c.entries = entries
	c.keys = keys
	c.viewMode = viewMode
	c.mu.Unlock()
	return nil
}

// ApplyEvent hợp nhất một sự kiện thay đổi dữ liệu vào collection.
// Sau mọi thay đổi danh sách được sắp lại theo sequence tăng dần - thứ tự
// hiển thị luôn bằng thứ tự sequence, bất kể sự kiện đến theo thứ tự nào.
func (c *MapCollection) ApplyEvent(e events.DataChangeEvent) {
	record, ok := mapRecordFromEvent(e)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if record.TerritoryID != c.territoryID {
		return
	}

	idx := c.indexOf(record.ID)
	switch e.Operation {
	case events.OpInsert:
		if idx >= 0 {
			return // đã có, event lặp
		}
		c.entries = append(c.entries, c.project(record))
		c.keys = append(c.keys, record.ID.Hex())
	case events.OpUpdate, events.OpUpsert:
		if idx < 0 {
			// update đến trước insert (hai kênh không đảm bảo thứ tự) - coi như create
			c.entries = append(c.entries, c.project(record))
			c.keys = append(c.keys, record.ID.Hex())
			break
		}
		if e.Version != 0 && e.Version < c.entries[idx].Version {
			return // event cũ hơn bản đang giữ
		}
		c.entries[idx] = c.project(record)
	case events.OpDelete:
		if idx < 0 {
			return
		}
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
		c.removeKey(record.ID.Hex())
		delete(c.viewMode, record.ID.Hex())
	default:
		return
	}

	sortBySequence(c.entries)
}

// Watch đăng ký nhận thay đổi realtime của collection territory_maps.
// Gọi lại Watch khi chuyển khu vực là an toàn - filter đọc territoryID hiện tại.
func (c *MapCollection) Watch(hub *realtime.Hub) {
	c.mu.Lock()
	if c.sub != nil {
		c.mu.Unlock()
		return
	}
	c.sub = hub.Subscribe(global.MongoDB_ColNames.TerritoryMaps, nil, func(ctx context.Context, e events.DataChangeEvent) {
		c.ApplyEvent(e)
	})
	c.mu.Unlock()
}

// Stop hủy đăng ký realtime. Gọi nhiều lần vô hại; Watch sau Stop đăng ký lại.
func (c *MapCollection) Stop() {
	c.mu.Lock()
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// MoveToTerritory chuyển một bản đồ sang khu vực khác (theo code đích).
// Bản ghi chỉ bị gỡ khỏi danh sách sau khi backend xác nhận - thất bại
// giữ nguyên danh sách và báo lỗi qua notifier.
func (c *MapCollection) MoveToTerritory(ctx context.Context, mapID primitive.ObjectID, targetCode string) error {
	code, err := c.store.MoveMap(ctx, mapID, targetCode)
	if err != nil {
		c.notifier.Error(fmt.Sprintf("Không chuyển được bản đồ sang khu vực %s: %v", targetCode, err))
		return err
	}

	c.mu.Lock()
	if idx := c.indexOf(mapID); idx >= 0 {
		c.entries = append(c.entries[:idx], c.entries[idx+1:]...)
		c.removeKey(mapID.Hex())
		delete(c.viewMode, mapID.Hex())
	}
	c.mu.Unlock()

	c.notifier.Success(fmt.Sprintf("Đã chuyển bản đồ sang khu vực %s", code))
	return nil
}

// Entries trả về bản sao danh sách theo thứ tự hiển thị.
func (c *MapCollection) Entries() []MapEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]MapEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Keys trả về bản sao danh sách key.
func (c *MapCollection) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// SetViewMode đặt chế độ xem cho một bản đồ.
func (c *MapCollection) SetViewMode(id string, viewOnly bool) {
	c.mu.Lock()
	c.viewMode[id] = viewOnly
	c.mu.Unlock()
}

// ViewMode đọc chế độ xem của một bản đồ.
func (c *MapCollection) ViewMode(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewMode[id]
}

// indexOf tìm vị trí entry theo id, -1 nếu không có. Gọi khi đang giữ khóa.
func (c *MapCollection) indexOf(id primitive.ObjectID) int {
	for i := range c.entries {
		if c.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// removeKey gỡ một key khỏi danh sách key. Gọi khi đang giữ khóa.
func (c *MapCollection) removeKey(key string) {
	for i := range c.keys {
		if c.keys[i] == key {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			return
		}
	}
}

// sortBySequence sắp danh sách theo sequence tăng dần, giữ thứ tự tương đối
// của các entry cùng sequence.
func sortBySequence(entries []MapEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Sequence < entries[j].Sequence
	})
}

// mapRecordFromEvent rút bản ghi TerritoryMap từ sự kiện, chấp nhận cả
// giá trị lẫn con trỏ (delete event mang bản ghi trước khi xóa).
func mapRecordFromEvent(e events.DataChangeEvent) (mapsmodels.TerritoryMap, bool) {
	switch doc := e.Document.(type) {
	case mapsmodels.TerritoryMap:
		return doc, true
	case *mapsmodels.TerritoryMap:
		if doc == nil {
			return mapsmodels.TerritoryMap{}, false
		}
		return *doc, true
	default:
		return mapsmodels.TerritoryMap{}, false
	}
}

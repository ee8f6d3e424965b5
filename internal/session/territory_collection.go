package session

import (
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	territorymodels "field_service/internal/api/territory/models"
	"field_service/internal/geo"
	"field_service/internal/logger"
)

// TerritoryEntry là hình chiếu của một khu vực trong phiên làm việc.
type TerritoryEntry struct {
	ID       primitive.ObjectID
	Code     string
	Name     string
	Progress float64

	// Center là tâm boundary nếu khu vực có ranh giới (≥3 điểm hợp lệ).
	Center    *geo.Coordinate
	HasBounds bool
}

// TerritoryCollection giữ toàn bộ khu vực của congregation đang chọn
// dưới dạng map theo id, cùng con trỏ "khu vực đang chọn".
// Hai bản sao này phải thay đổi đồng bộ: đổi code/tên một khu vực đang chọn
// phải thấy được ở cả con trỏ lẫn entry trong map.
type TerritoryCollection struct {
	mu       sync.RWMutex
	notifier Notifier
	cache    Cache
	cacheKey string

	entries  map[primitive.ObjectID]TerritoryEntry
	selected *TerritoryEntry
}

// NewTerritoryCollection tạo collection rỗng. cacheKey là khóa lưu lựa chọn
// gần nhất (thường ghép từ CacheKeyTerritory + userID).
func NewTerritoryCollection(notifier Notifier, cache Cache, cacheKey string) *TerritoryCollection {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &TerritoryCollection{
		notifier: notifier,
		cache:    cache,
		cacheKey: cacheKey,
		entries:  make(map[primitive.ObjectID]TerritoryEntry),
	}
}

// projectTerritory chiếu một bản ghi khu vực thành entry.
func projectTerritory(t territorymodels.Territory) TerritoryEntry {
	entry := TerritoryEntry{
		ID:       t.ID,
		Code:     t.Code,
		Name:     t.Name,
		Progress: t.Progress,
	}
	if center, ok := t.BoundaryCenter(); ok {
		entry.Center = &center
		entry.HasBounds = true
	}
	return entry
}

// Process nạp một tập bản ghi khu vực thô vào collection.
// Chiếu từng bản ghi có phòng thủ: một bản ghi hỏng không làm mất các bản ghi
// còn lại - lỗi được báo qua notifier và collection giữ những gì đã dựng được.
func (c *TerritoryCollection) Process(raw []territorymodels.Territory) map[primitive.ObjectID]TerritoryEntry {
	built := make(map[primitive.ObjectID]TerritoryEntry, len(raw))

	func() {
		defer func() {
			if r := recover(); r != nil {
				logger.GetAppLogger().WithField("panic", r).Error("💬 [SESSION] Lỗi khi xử lý danh sách khu vực")
				c.notifier.Error("Một phần danh sách khu vực không đọc được")
			}
		}()
		for _, t := range raw {
			if t.ID.IsZero() {
				continue
			}
			built[t.ID] = projectTerritory(t)
		}
	}()

	c.mu.Lock()
	c.entries = built
	c.mu.Unlock()
	return built
}

// Select đặt khu vực đang chọn theo id. Trả về false nếu id không có
// trong collection (không đổi lựa chọn hiện tại).
func (c *TerritoryCollection) Select(id primitive.ObjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return false
	}
	selected := entry
	c.selected = &selected
	if c.cache != nil {
		c.cache.Set(c.cacheKey, id.Hex())
	}
	return true
}

// Selected trả về bản sao khu vực đang chọn, nil nếu chưa chọn.
func (c *TerritoryCollection) Selected() *TerritoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected == nil {
		return nil
	}
	copied := *c.selected
	return &copied
}

// UpdateCode đổi mã của một khu vực trên cả hai bản sao:
// entry trong map và con trỏ đang chọn nếu trỏ cùng id.
func (c *TerritoryCollection) UpdateCode(id primitive.ObjectID, newCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return
	}
	entry.Code = newCode
	c.entries[id] = entry
	if c.selected != nil && c.selected.ID == id {
		c.selected.Code = newCode
	}
}

// UpdateName đổi tên của một khu vực trên cả hai bản sao.
func (c *TerritoryCollection) UpdateName(id primitive.ObjectID, newName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[id]
	if !ok {
		return
	}
	entry.Name = newName
	c.entries[id] = entry
	if c.selected != nil && c.selected.ID == id {
		c.selected.Name = newName
	}
}

// ClearSelection bỏ lựa chọn hiện tại và xóa khóa cache đã lưu.
func (c *TerritoryCollection) ClearSelection() {
	c.mu.Lock()
	c.selected = nil
	c.mu.Unlock()
	if c.cache != nil {
		c.cache.Delete(c.cacheKey)
	}
}

// WithSelection chạy fn với id khu vực đang chọn. Không có lựa chọn thì
// bỏ qua lặng lẽ - thao tác delete/reset yêu cầu lựa chọn nhưng thiếu
// lựa chọn không phải là lỗi.
func (c *TerritoryCollection) WithSelection(fn func(id primitive.ObjectID) error) error {
	c.mu.RLock()
	selected := c.selected
	c.mu.RUnlock()
	if selected == nil {
		return nil
	}
	if err := fn(selected.ID); err != nil {
		c.notifier.Error(fmt.Sprintf("Thao tác trên khu vực %s thất bại: %v", selected.Code, err))
		return err
	}
	return nil
}

// CodeOf trả về mã hiển thị của một khu vực.
func (c *TerritoryCollection) CodeOf(id primitive.ObjectID) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	if !ok {
		return "", false
	}
	return entry.Code, true
}

// Entry trả về bản sao entry theo id.
func (c *TerritoryCollection) Entry(id primitive.ObjectID) (TerritoryEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[id]
	return entry, ok
}

// Entries trả về bản sao toàn bộ map khu vực.
func (c *TerritoryCollection) Entries() map[primitive.ObjectID]TerritoryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[primitive.ObjectID]TerritoryEntry, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

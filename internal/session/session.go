// Package session là lớp đồng bộ phiên làm việc của admin: nhận dữ liệu từ store,
// hợp nhất sự kiện realtime vào các collection trong bộ nhớ và giữ lựa chọn
// congregation/territory giữa các lần đăng nhập.
//
// Mọi phụ thuộc (store, cache, notifier) đều được inject - package này không
// chạm trực tiếp vào Mongo hay fiber, nhờ vậy test được bằng fake.
package session

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	congregationmodels "field_service/internal/api/congregation/models"
	mapsmodels "field_service/internal/api/maps/models"
	territorymodels "field_service/internal/api/territory/models"
	"field_service/internal/logger"
)

// Khóa cache cho lựa chọn gần nhất, ghép thêm userID khi dùng.
const (
	CacheKeyCongregation = "session:last_congregation"
	CacheKeyTerritory    = "session:last_territory"
)

// RoleGrant là một quyền truy cập congregation của user, kèm tên để hiển thị.
type RoleGrant struct {
	CongregationID   primitive.ObjectID
	CongregationName string
	AccessLevel      string
}

// Store là mặt cắt dữ liệu mà lớp session cần. Bản hiện thực thật nằm ở
// MongoStore; test dùng fake.
type Store interface {
	// RolesForUser trả về các quyền của user, mỗi quyền kèm thông tin congregation.
	RolesForUser(ctx context.Context, userID primitive.ObjectID) ([]RoleGrant, error)
	// CongregationDetail trả về (nil, nil) khi không tìm thấy.
	CongregationDetail(ctx context.Context, id primitive.ObjectID) (*congregationmodels.Congregation, error)
	// HouseholdTypes trả về các loại hộ của congregation, xếp theo sequence tăng dần.
	HouseholdTypes(ctx context.Context, congregationID primitive.ObjectID) ([]congregationmodels.HouseholdType, error)
	// Territories trả về các khu vực của congregation, xếp theo code tăng dần.
	Territories(ctx context.Context, congregationID primitive.ObjectID) ([]territorymodels.Territory, error)
	// HasAnyMap kiểm tra có bản đồ nào thuộc các khu vực đã cho không.
	// Danh sách rỗng trả về false mà không truy vấn.
	HasAnyMap(ctx context.Context, territoryIDs []primitive.ObjectID) (bool, error)
	// MapsByTerritory trả về các bản đồ của khu vực, xếp theo sequence tăng dần.
	MapsByTerritory(ctx context.Context, territoryID primitive.ObjectID) ([]mapsmodels.TerritoryMap, error)
	// MoveMap chuyển bản đồ sang khu vực có code đích, trả về code đó.
	MoveMap(ctx context.Context, mapID primitive.ObjectID, targetCode string) (string, error)
}

// Notifier nhận thông báo cho người dùng cuối. Lỗi trong lớp session không
// được ném lên trên - chúng đi qua đây rồi giữ nguyên trạng thái cũ.
type Notifier interface {
	Success(message string)
	Warning(message string)
	Error(message string)
}

// Cache giữ lựa chọn gần nhất giữa các phiên làm việc.
type Cache interface {
	Get(key string) (string, bool)
	Set(key string, value string)
	Delete(key string)
}

// LogNotifier là Notifier mặc định, ghi thông báo vào app log.
type LogNotifier struct{}

// Success ghi thông báo thành công
func (LogNotifier) Success(message string) {
	logger.GetAppLogger().WithField("notify", "success").Info("💬 [SESSION] " + message)
}

// Warning ghi cảnh báo
func (LogNotifier) Warning(message string) {
	logger.GetAppLogger().WithField("notify", "warning").Warn("💬 [SESSION] " + message)
}

// Error ghi thông báo lỗi
func (LogNotifier) Error(message string) {
	logger.GetAppLogger().WithField("notify", "error").Error("💬 [SESSION] " + message)
}

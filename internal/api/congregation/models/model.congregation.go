// Package models - Congregation thuộc domain congregation (congregations).
// Congregation là đơn vị tenant: mọi dữ liệu khu vực/bản đồ đều thuộc về một congregation.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/geo"
)

// Giá trị mặc định cho cấu hình congregation khi tạo mới.
const (
	DefaultMaxTries    = 3  // số lần "không có nhà" tối đa trước khi hộ được tính là đã xử lý
	DefaultExpiryHours = 24 // thời hạn mặc định của link chia sẻ (giờ)
)

// Congregation hội thánh - tenant gốc của toàn bộ dữ liệu khu vực.
type Congregation struct {
	ID   primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name string             `json:"name" bson:"name" index:"unique"`

	// Cấu hình nghiệp vụ
	MaxTries    int             `json:"maxTries" bson:"maxTries"`       // ngưỡng not-home cho map unit
	Origin      *geo.Coordinate `json:"origin,omitempty" bson:"origin,omitempty"` // tọa độ tham chiếu để tính hướng/khoảng cách
	ExpiryHours int             `json:"expiryHours" bson:"expiryHours"` // thời hạn mặc định của share link

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Package models - Territory thuộc domain territory (territories).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/geo"
)

// Territory khu vực rao giảng của một congregation.
// Code là mã khu vực (ví dụ "A-12"), duy nhất trong phạm vi congregation.
// Boundary là đa giác ranh giới - dưới 3 điểm hợp lệ được coi là "không có ranh giới".
type Territory struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"compound:territory_cong_code_unique;single:1"`
	Code                string             `json:"code" bson:"code" index:"compound:territory_cong_code_unique"`
	Name                string             `json:"name,omitempty" bson:"name,omitempty"`

	// Progress phần trăm hoàn thành (0-100), tổng hợp từ các bản đồ bên trong.
	Progress float64          `json:"progress" bson:"progress"`
	Boundary []geo.Coordinate `json:"boundary,omitempty" bson:"boundary,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// BoundaryCenter trả về tâm ranh giới nếu có ít nhất 3 điểm hợp lệ.
func (t *Territory) BoundaryCenter() (geo.Coordinate, bool) {
	valid := geo.FilterValid(t.Boundary)
	if len(valid) < 3 {
		return geo.Coordinate{}, false
	}
	return geo.PolygonCenter(valid)
}

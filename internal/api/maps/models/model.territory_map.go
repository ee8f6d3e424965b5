// Package models - TerritoryMap thuộc domain maps (territory_maps).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/geo"
)

// Loại bản đồ: single là nhà riêng lẻ, multi là chung cư/nhà nhiều tầng.
const (
	MapTypeSingle = "single"
	MapTypeMulti  = "multi"
)

// TerritoryMap một bản đồ (địa chỉ) trong khu vực.
// Sequence do người dùng đặt, quyết định thứ tự hiển thị trong khu vực.
type TerritoryMap struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"single:1"`
	TerritoryID         primitive.ObjectID `json:"territoryId" bson:"territoryId" index:"single:1"`

	Sequence int    `json:"sequence" bson:"sequence"`
	Type     string `json:"type,omitempty" bson:"type,omitempty"` // single | multi, thiếu thì hiểu là multi
	Name     string `json:"name,omitempty" bson:"name,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"` // địa chỉ dạng chữ

	Coordinates *geo.Coordinate `json:"coordinates,omitempty" bson:"coordinates,omitempty"`

	// Số liệu tổng hợp từ map_units, cập nhật qua RecomputeCounts.
	Progress     float64 `json:"progress" bson:"progress"`
	NotDoneCount int     `json:"notDoneCount" bson:"notDoneCount"`
	NotHomeCount int     `json:"notHomeCount" bson:"notHomeCount"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

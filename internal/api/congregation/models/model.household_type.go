// Package models - HouseholdType thuộc domain congregation (household_types).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HouseholdType loại hộ gia đình do congregation tự định nghĩa (ví dụ: gia đình, cửa hàng, văn phòng).
// Code là mã ngắn hiển thị trên bản đồ, Sequence quyết định thứ tự hiển thị trong danh sách chọn.
type HouseholdType struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"compound:household_type_cong_code_unique;single:1"`
	Code                string             `json:"code" bson:"code" index:"compound:household_type_cong_code_unique"`
	Description         string             `json:"description,omitempty" bson:"description,omitempty"`
	Sequence            int                `json:"sequence" bson:"sequence"`
	CreatedAt           int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt           int64              `json:"updatedAt" bson:"updatedAt"`
}

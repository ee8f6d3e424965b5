// Package models - MapUnit thuộc domain maps (map_units).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái của một hộ trong bản đồ.
const (
	UnitStatusDefault   = "default"     // chưa tiếp cận
	UnitStatusDone      = "done"        // đã gặp
	UnitStatusNotHome   = "not_home"    // không có nhà, sẽ quay lại
	UnitStatusDoNotCall = "do_not_call" // không ghé thăm
	UnitStatusInvalid   = "invalid"     // số nhà không tồn tại
)

// ValidUnitStatus kiểm tra status có thuộc tập trạng thái hợp lệ không.
func ValidUnitStatus(status string) bool {
	switch status {
	case UnitStatusDefault, UnitStatusDone, UnitStatusNotHome, UnitStatusDoNotCall, UnitStatusInvalid:
		return true
	}
	return false
}

// MapUnit một hộ (số nhà/căn hộ) trong bản đồ.
// Floor chỉ có nghĩa với bản đồ multi; bản đồ single luôn là tầng 0.
// NotHomeTries đếm số lần ghé không gặp, bị chặn trên bởi MaxTries của congregation.
type MapUnit struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"single:1"`
	MapID               primitive.ObjectID `json:"mapId" bson:"mapId" index:"single:1"`

	Code            string              `json:"code" bson:"code"` // số nhà / số căn hộ
	Floor           int                 `json:"floor" bson:"floor"`
	Sequence        int                 `json:"sequence" bson:"sequence"`
	Status          string              `json:"status" bson:"status"`
	NotHomeTries    int                 `json:"notHomeTries" bson:"notHomeTries"`
	Note            string              `json:"note,omitempty" bson:"note,omitempty"`
	HouseholdTypeID *primitive.ObjectID `json:"householdTypeId,omitempty" bson:"householdTypeId,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Counted cho biết hộ có được tính vào tiến độ không.
// Hộ invalid và do_not_call nằm ngoài mẫu số tiến độ.
func (u *MapUnit) Counted() bool {
	return u.Status != UnitStatusInvalid && u.Status != UnitStatusDoNotCall
}

// Processed cho biết hộ đã được xử lý xong theo nghĩa tiến độ:
// đã gặp, hoặc đã ghé đủ số lần cho phép mà vẫn không gặp.
func (u *MapUnit) Processed(maxTries int) bool {
	if u.Status == UnitStatusDone {
		return true
	}
	return u.Status == UnitStatusNotHome && maxTries > 0 && u.NotHomeTries >= maxTries
}

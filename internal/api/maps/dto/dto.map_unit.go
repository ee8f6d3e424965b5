// Package mapsdto - DTO cho hộ trong bản đồ.
package mapsdto

// UnitCreateInput dữ liệu đầu vào khi thêm một hộ vào bản đồ.
type UnitCreateInput struct {
	MapID           string `json:"mapId" validate:"required" transform:"str_objectid"`
	Code            string `json:"code" validate:"required,no_xss,max=20"`
	Floor           int    `json:"floor,omitempty" validate:"omitempty,min=0"`
	Sequence        int    `json:"sequence,omitempty" validate:"omitempty,min=0"`
	Note            string `json:"note,omitempty" validate:"omitempty,no_xss"`
	HouseholdTypeID string `json:"householdTypeId,omitempty" validate:"omitempty" transform:"str_objectid_ptr,optional"`
}

// UnitUpdateInput dữ liệu đầu vào khi sửa thông tin một hộ.
// Trạng thái KHÔNG sửa qua đây - dùng UnitStatusInput để ràng buộc not-home được áp dụng.
type UnitUpdateInput struct {
	Code            string `json:"code,omitempty" validate:"omitempty,no_xss,max=20"`
	Floor           *int   `json:"floor,omitempty" validate:"omitempty,min=0"`
	Sequence        *int   `json:"sequence,omitempty" validate:"omitempty,min=0"`
	Note            string `json:"note,omitempty" validate:"omitempty,no_xss"`
	HouseholdTypeID string `json:"householdTypeId,omitempty" validate:"omitempty" transform:"str_objectid_ptr,optional"`
}

// UnitStatusInput cập nhật trạng thái một hộ.
type UnitStatusInput struct {
	Status string `json:"status" validate:"required,oneof=default done not_home do_not_call invalid"`
	Note   string `json:"note,omitempty" validate:"omitempty,no_xss"`
}

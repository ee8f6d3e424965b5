// Package mapsdto - các DTO cho domain maps.
package mapsdto

import (
	"field_service/internal/geo"
)

// MapCreateInput dữ liệu đầu vào khi tạo bản đồ trong khu vực.
type MapCreateInput struct {
	TerritoryID string          `json:"territoryId" validate:"required" transform:"str_objectid"`
	Sequence    int             `json:"sequence,omitempty" validate:"omitempty,min=0"`
	Type        string          `json:"type,omitempty" validate:"omitempty,oneof=single multi"`
	Name        string          `json:"name,omitempty" validate:"omitempty,no_xss"`
	Location    string          `json:"location,omitempty" validate:"omitempty,no_xss"`
	Coordinates *geo.Coordinate `json:"coordinates,omitempty"`
}

// MapUpdateInput dữ liệu đầu vào khi cập nhật bản đồ.
type MapUpdateInput struct {
	Sequence    *int            `json:"sequence,omitempty" validate:"omitempty,min=0"`
	Type        string          `json:"type,omitempty" validate:"omitempty,oneof=single multi"`
	Name        string          `json:"name,omitempty" validate:"omitempty,no_xss"`
	Location    string          `json:"location,omitempty" validate:"omitempty,no_xss"`
	Coordinates *geo.Coordinate `json:"coordinates,omitempty"`
}

// MapSequenceItem một cặp (bản đồ, thứ tự mới) trong cập nhật thứ tự hàng loạt.
type MapSequenceItem struct {
	ID       string `json:"id" validate:"required"`
	Sequence int    `json:"sequence" validate:"min=0"`
}

// MapSequenceUpdateInput cập nhật thứ tự hiển thị cho nhiều bản đồ cùng lúc.
type MapSequenceUpdateInput struct {
	Items []MapSequenceItem `json:"items" validate:"required,min=1,dive"`
}

// MoveToTerritoryInput chuyển bản đồ sang khu vực khác, xác định bằng mã khu vực đích.
type MoveToTerritoryInput struct {
	TargetCode string `json:"targetCode" validate:"required,territory_code"`
}

// FloorAddInput thêm một tầng vào bản đồ multi, kèm danh sách số căn hộ của tầng đó.
type FloorAddInput struct {
	Floor     int      `json:"floor" validate:"min=0"`
	UnitCodes []string `json:"unitCodes" validate:"required,min=1,dive,required"`
}

// FloorRemoveInput gỡ một tầng (và toàn bộ hộ của tầng) khỏi bản đồ multi.
type FloorRemoveInput struct {
	Floor int `json:"floor" validate:"min=0"`
}

// Package territorydto - các DTO cho domain territory.
package territorydto

import (
	"field_service/internal/geo"
)

// TerritoryCreateInput dữ liệu đầu vào khi tạo khu vực.
type TerritoryCreateInput struct {
	Code     string           `json:"code" validate:"required,territory_code"`
	Name     string           `json:"name,omitempty" validate:"omitempty,no_xss"`
	Boundary []geo.Coordinate `json:"boundary,omitempty"`
}

// TerritoryUpdateInput dữ liệu đầu vào khi cập nhật khu vực.
type TerritoryUpdateInput struct {
	Code     string           `json:"code,omitempty" validate:"omitempty,territory_code"`
	Name     string           `json:"name,omitempty" validate:"omitempty,no_xss"`
	Boundary []geo.Coordinate `json:"boundary,omitempty"`
}

// TerritoryRenameInput đổi mã/tên khu vực.
// Code và Name cập nhật cùng lúc trong một thao tác để không bao giờ lệch nhau.
type TerritoryRenameInput struct {
	Code string `json:"code" validate:"required,territory_code"`
	Name string `json:"name,omitempty" validate:"omitempty,no_xss"`
}

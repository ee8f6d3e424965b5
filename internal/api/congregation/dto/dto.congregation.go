// Package congregationdto - các DTO cho domain congregation.
package congregationdto

import (
	"field_service/internal/geo"
)

// CongregationCreateInput dữ liệu đầu vào khi tạo congregation mới.
// MaxTries/ExpiryHours để trống sẽ nhận giá trị mặc định trong service.
type CongregationCreateInput struct {
	Name        string          `json:"name" validate:"required,no_xss"`
	MaxTries    int             `json:"maxTries,omitempty" validate:"omitempty,min=1,max=10"`
	Origin      *geo.Coordinate `json:"origin,omitempty"`
	ExpiryHours int             `json:"expiryHours,omitempty" validate:"omitempty,min=1,max=720"`
}

// CongregationUpdateInput dữ liệu đầu vào khi cập nhật cấu hình congregation.
type CongregationUpdateInput struct {
	Name        string          `json:"name,omitempty" validate:"omitempty,no_xss"`
	MaxTries    int             `json:"maxTries,omitempty" validate:"omitempty,min=1,max=10"`
	Origin      *geo.Coordinate `json:"origin,omitempty"`
	ExpiryHours int             `json:"expiryHours,omitempty" validate:"omitempty,min=1,max=720"`
}

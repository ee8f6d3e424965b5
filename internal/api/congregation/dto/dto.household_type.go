// Package congregationdto - DTO cho loại hộ gia đình.
package congregationdto

// HouseholdTypeCreateInput dữ liệu đầu vào khi tạo loại hộ gia đình.
type HouseholdTypeCreateInput struct {
	Code        string `json:"code" validate:"required,no_xss,max=20"`
	Description string `json:"description,omitempty" validate:"omitempty,no_xss"`
	Sequence    int    `json:"sequence,omitempty" validate:"omitempty,min=0"`
}

// HouseholdTypeUpdateInput dữ liệu đầu vào khi cập nhật loại hộ gia đình.
type HouseholdTypeUpdateInput struct {
	Code        string `json:"code,omitempty" validate:"omitempty,no_xss,max=20"`
	Description string `json:"description,omitempty" validate:"omitempty,no_xss"`
	Sequence    *int   `json:"sequence,omitempty" validate:"omitempty,min=0"`
}

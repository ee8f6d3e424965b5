// Package linksdto - các DTO cho domain links.
package linksdto

// ShareLinkCreateInput dữ liệu đầu vào khi tạo link chia sẻ bản đồ.
// ExpiryHours = 0 dùng thời hạn mặc định của congregation.
type ShareLinkCreateInput struct {
	MapID       string `json:"mapId" validate:"required" transform:"str_objectid"`
	Type        string `json:"type" validate:"required,oneof=assignment personal view"`
	Publisher   string `json:"publisher,omitempty" validate:"omitempty,no_xss"`
	ExpiryHours int    `json:"expiryHours,omitempty" validate:"omitempty,min=1,max=720"`
}

// ShareLinkUpdateInput dữ liệu đầu vào khi cập nhật link (chỉ gia hạn và người nhận).
type ShareLinkUpdateInput struct {
	Publisher   string `json:"publisher,omitempty" validate:"omitempty,no_xss"`
	ExpiryHours int    `json:"expiryHours,omitempty" validate:"omitempty,min=1,max=720"`
}

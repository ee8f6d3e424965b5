// Package models - ShareLink thuộc domain links (share_links).
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loại link chia sẻ bản đồ.
const (
	LinkTypeAssignment = "assignment" // giao bản đồ cho một publisher
	LinkTypePersonal   = "personal"   // bản đồ cá nhân (địa chỉ người quen)
	LinkTypeView       = "view"       // chỉ xem, không thao tác
)

// ValidLinkType kiểm tra loại link có thuộc tập hợp lệ không.
func ValidLinkType(linkType string) bool {
	switch linkType {
	case LinkTypeAssignment, LinkTypePersonal, LinkTypeView:
		return true
	}
	return false
}

// ShareLink link chia sẻ một bản đồ cho người không có tài khoản.
// Token là uuid, tra cứu không cần đăng nhập. Link hết hạn khi quá ExpiresAt
// hoặc bản đồ đích không còn tồn tại.
type ShareLink struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"single:1"`
	MapID               primitive.ObjectID `json:"mapId" bson:"mapId" index:"single:1"`

	Type      string `json:"type" bson:"type"`
	Publisher string `json:"publisher,omitempty" bson:"publisher,omitempty"` // tên người được giao
	Token     string `json:"token" bson:"token" index:"unique"`
	ExpiresAt int64  `json:"expiresAt" bson:"expiresAt" index:"single:1"` // unix ms

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// Expired kiểm tra link đã quá hạn tại thời điểm now chưa.
func (l *ShareLink) Expired(now time.Time) bool {
	return now.UnixMilli() > l.ExpiresAt
}

// Package models - UserRole thuộc domain auth.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các mức truy cập của user trong một congregation.
// Mức cao hơn bao gồm toàn bộ quyền của mức thấp hơn.
const (
	AccessLevelReadOnly      = "read-only"     // chỉ xem territory/map
	AccessLevelConductor     = "conductor"     // cập nhật trạng thái hộ, tạo link chia sẻ
	AccessLevelAdministrator = "administrator" // toàn quyền quản lý congregation
)

// accessLevelRank thứ hạng các mức truy cập, dùng để so sánh quyền.
var accessLevelRank = map[string]int{
	AccessLevelReadOnly:      1,
	AccessLevelConductor:     2,
	AccessLevelAdministrator: 3,
}

// AccessLevelSatisfies kiểm tra level có đạt tối thiểu requiredLevel không.
// Level không hợp lệ luôn trả về false.
func AccessLevelSatisfies(level, requiredLevel string) bool {
	have, ok := accessLevelRank[level]
	if !ok {
		return false
	}
	need, ok := accessLevelRank[requiredLevel]
	if !ok {
		return false
	}
	return have >= need
}

// UserRole vai trò của người dùng trong một congregation.
// Mỗi user chỉ có một role trong mỗi congregation (unique compound index).
type UserRole struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"userId" bson:"userId" index:"compound:user_congregation_unique;single:1"`
	CongregationID primitive.ObjectID `json:"congregationId" bson:"congregationId" index:"compound:user_congregation_unique;single:1"`
	AccessLevel    string             `json:"accessLevel" bson:"accessLevel"`
	CreatedAt      int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt      int64              `json:"updatedAt" bson:"updatedAt"`
}

// Package models - AccessToken, JwtClaims thuộc domain auth.
package models

import (
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JwtClaims chứa data được mã hóa trong JWT token.
// TokenID trỏ tới bản ghi AccessToken, dùng để thu hồi token phía server.
type JwtClaims struct {
	UserID  string `json:"userId"`
	TokenID string `json:"tokenId"`
	jwt.RegisteredClaims
}

// AccessToken bản ghi token phía server, mỗi thiết bị (hwid) một token.
// Token bị thu hồi khi logout hoặc khi user bị block.
type AccessToken struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId" index:"single:1"`
	Hwid      string             `json:"hwid,omitempty" bson:"hwid,omitempty"`
	Revoked   bool               `json:"revoked" bson:"revoked"`
	ExpiresAt int64              `json:"expiresAt" bson:"expiresAt" index:"single:1"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

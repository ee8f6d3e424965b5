// Package authsvc - service access token (JWT + bản ghi token phía server).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "field_service/internal/api/auth/models"
	basesvc "field_service/internal/api/base/service"
	"field_service/internal/common"
	"field_service/internal/global"
	"field_service/internal/utility"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccessTokenService quản lý vòng đời access token.
// JWT chỉ mang userId + tokenId; trạng thái thật (revoked, expiry) nằm ở bản ghi server.
type AccessTokenService struct {
	*basesvc.BaseServiceMongoImpl[models.AccessToken]
}

// NewAccessTokenService tạo mới AccessTokenService
func NewAccessTokenService() (*AccessTokenService, error) {
	tokenCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.AccessTokens)
	if !exist {
		return nil, fmt.Errorf("failed to get access_tokens collection: %v", common.ErrNotFound)
	}
	return &AccessTokenService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.AccessToken](tokenCollection),
	}, nil
}

// IssueToken tạo bản ghi token cho user + hwid rồi ký JWT.
// Token cũ của cùng hwid sẽ bị thu hồi (mỗi thiết bị một token sống).
func (s *AccessTokenService) IssueToken(ctx context.Context, user *models.User, hwid string) (string, int64, error) {
	if hwid != "" {
		if err := s.revokeByHwid(ctx, user.ID, hwid); err != nil {
			logrus.WithError(err).Warn("IssueToken: Lỗi thu hồi token cũ theo hwid")
		}
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(global.MongoDB_ServerConfig.JwtExpiryHours) * time.Hour)

	record := models.AccessToken{
		UserID:    user.ID,
		Hwid:      hwid,
		ExpiresAt: utility.UnixMilli(expiresAt),
	}
	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, record)
	if err != nil {
		return "", 0, err
	}

	claims := models.JwtClaims{
		UserID:  user.ID.Hex(),
		TokenID: created.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(global.MongoDB_ServerConfig.JwtSecret))
	if err != nil {
		return "", 0, common.NewError(common.ErrCodeAuthToken, "Lỗi ký JWT token", common.StatusInternalServerError, err)
	}

	return signed, utility.UnixMilli(expiresAt), nil
}

// ParseAndValidate parse JWT và đối chiếu bản ghi token phía server.
// Trả về claims nếu token hợp lệ, chưa thu hồi và chưa hết hạn.
func (s *AccessTokenService) ParseAndValidate(ctx context.Context, tokenString string) (*models.JwtClaims, error) {
	claims := &models.JwtClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không được hỗ trợ: %v", t.Header["alg"])
		}
		return []byte(global.MongoDB_ServerConfig.JwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, common.ErrTokenInvalid
	}

	tokenID, err := primitive.ObjectIDFromHex(claims.TokenID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}

	record, err := s.BaseServiceMongoImpl.FindOneById(ctx, tokenID)
	if err != nil {
		// Bản ghi đã bị xóa → token coi như bị thu hồi
		return nil, common.ErrTokenInvalid
	}
	if record.Revoked {
		return nil, common.ErrTokenInvalid
	}
	if record.ExpiresAt > 0 && record.ExpiresAt < utility.CurrentTimeInMilli() {
		return nil, common.ErrTokenExpired
	}

	return claims, nil
}

// RevokeByID thu hồi một token theo ID bản ghi.
func (s *AccessTokenService) RevokeByID(ctx context.Context, tokenID primitive.ObjectID) error {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"revoked": true},
	}
	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, tokenID, updateData)
	return err
}

// RevokeAllForUser thu hồi toàn bộ token của user (dùng khi block user / đổi mật khẩu).
func (s *AccessTokenService) RevokeAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	tokens, err := s.BaseServiceMongoImpl.Find(ctx, bson.M{"userId": userID, "revoked": false}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	for _, t := range tokens {
		if err := s.RevokeByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// revokeByHwid thu hồi các token còn sống của user trên một thiết bị.
func (s *AccessTokenService) revokeByHwid(ctx context.Context, userID primitive.ObjectID, hwid string) error {
	tokens, err := s.BaseServiceMongoImpl.Find(ctx, bson.M{"userId": userID, "hwid": hwid, "revoked": false}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	for _, t := range tokens {
		if err := s.RevokeByID(ctx, t.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteExpired xóa các bản ghi token đã hết hạn hoặc đã thu hồi quá hạn.
// Được gọi định kỳ bởi worker dọn dẹp.
func (s *AccessTokenService) DeleteExpired(ctx context.Context) (int64, error) {
	now := utility.CurrentTimeInMilli()
	filter := bson.M{
		"$or": []bson.M{
			{"expiresAt": bson.M{"$gt": 0, "$lt": now}},
			{"revoked": true},
		},
	}
	count, err := s.BaseServiceMongoImpl.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return count, nil
}

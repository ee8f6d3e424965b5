// Package middleware - xác thực JWT và kiểm tra mức truy cập theo congregation.
package middleware

import (
	"context"
	"strings"
	"sync"
	"time"

	models "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthManager giữ các service và cache phục vụ xác thực.
// Cache giảm số lần query user + role cho mỗi request.
type AuthManager struct {
	userService     *authsvc.UserService
	tokenService    *authsvc.AccessTokenService
	userRoleService *authsvc.UserRoleService
	cache           *cache.Cache
}

var (
	authManagerInstance *AuthManager
	authManagerOnce     sync.Once
	authManagerErr      error
)

// GetAuthManager trả về AuthManager singleton.
func GetAuthManager() (*AuthManager, error) {
	authManagerOnce.Do(func() {
		userService, err := authsvc.NewUserService()
		if err != nil {
			authManagerErr = err
			return
		}
		tokenService, err := authsvc.NewAccessTokenService()
		if err != nil {
			authManagerErr = err
			return
		}
		userRoleService, err := authsvc.NewUserRoleService()
		if err != nil {
			authManagerErr = err
			return
		}
		authManagerInstance = &AuthManager{
			userService:     userService,
			tokenService:    tokenService,
			userRoleService: userRoleService,
			cache:           cache.New(5*time.Minute, 10*time.Minute),
		}
	})
	return authManagerInstance, authManagerErr
}

// getUser lấy user theo ID, có cache 5 phút.
func (m *AuthManager) getUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	cacheKey := "user:" + userID.Hex()
	if cached, found := m.cache.Get(cacheKey); found {
		if user, ok := cached.(*models.User); ok {
			return user, nil
		}
	}

	user, err := m.userService.FindOneById(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.cache.Set(cacheKey, &user, cache.DefaultExpiration)
	return &user, nil
}

// getAccessLevel lấy mức truy cập của user trong congregation, có cache 5 phút.
// Trả về chuỗi rỗng nếu user không có role trong congregation.
func (m *AuthManager) getAccessLevel(ctx context.Context, userID, congregationID primitive.ObjectID) (string, error) {
	cacheKey := "level:" + userID.Hex() + ":" + congregationID.Hex()
	if cached, found := m.cache.Get(cacheKey); found {
		if level, ok := cached.(string); ok {
			return level, nil
		}
	}

	level, err := authsvc.GetAccessLevel(ctx, userID, congregationID)
	if err != nil {
		return "", err
	}
	m.cache.Set(cacheKey, level, cache.DefaultExpiration)
	return level, nil
}

// resolveCongregationID xác định congregation đang làm việc:
// ưu tiên header X-Active-Congregation-ID, fallback về congregation của role đầu tiên.
func (m *AuthManager) resolveCongregationID(ctx context.Context, c fiber.Ctx, userID primitive.ObjectID) (primitive.ObjectID, error) {
	headerValue := c.Get("X-Active-Congregation-ID")
	if headerValue != "" {
		congID, err := primitive.ObjectIDFromHex(headerValue)
		if err != nil {
			return primitive.NilObjectID, common.NewError(common.ErrCodeValidationInput, "Header X-Active-Congregation-ID không hợp lệ", common.StatusBadRequest, err)
		}
		return congID, nil
	}

	roles, err := m.userRoleService.GetRolesForUser(ctx, userID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(roles) == 0 {
		return primitive.NilObjectID, common.ErrNoCongregation
	}
	return roles[0].CongregationID, nil
}

// AuthMiddleware xác thực JWT token và (tùy chọn) kiểm tra mức truy cập.
//
// requireLevel == "" → chỉ xác thực, không kiểm tra congregation.
// requireLevel != "" → user phải có role trong congregation đang làm việc
// với mức truy cập >= requireLevel (read-only < conductor < administrator).
//
// Context locals được set: user_id, user, và (khi có requireLevel)
// active_congregation_id, access_level, min_access_level.
func AuthMiddleware(requireLevel string) fiber.Handler {
	return func(c fiber.Ctx) error {
		manager, err := GetAuthManager()
		if err != nil {
			logrus.WithError(err).Error("🔐 [AUTH] Lỗi khởi tạo AuthManager")
			HandleErrorResponse(c, common.NewError(common.ErrCodeInternalServer, common.MsgInternalError, common.StatusInternalServerError, err))
			return nil
		}

		// Lấy Bearer token từ header
		authHeader := c.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			HandleErrorResponse(c, common.ErrTokenMissing)
			return nil
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := manager.tokenService.ParseAndValidate(c.Context(), tokenString)
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		userID, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			HandleErrorResponse(c, common.ErrTokenInvalid)
			return nil
		}

		user, err := manager.getUser(c.Context(), userID)
		if err != nil {
			HandleErrorResponse(c, common.ErrUserNotFound)
			return nil
		}
		if user.IsBlock {
			HandleErrorResponse(c, common.NewError(common.ErrCodeAuthCredentials, "Tài khoản đã bị khóa", common.StatusForbidden, nil))
			return nil
		}

		c.Locals("user_id", userID.Hex())
		c.Locals("user", user)

		// Route không yêu cầu mức truy cập cụ thể → chỉ cần xác thực
		if requireLevel == "" {
			return c.Next()
		}

		congID, err := manager.resolveCongregationID(c.Context(), c, userID)
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}

		level, err := manager.getAccessLevel(c.Context(), userID, congID)
		if err != nil {
			HandleErrorResponse(c, err)
			return nil
		}
		if level == "" {
			HandleErrorResponse(c, common.ErrNoCongregation)
			return nil
		}
		if !models.AccessLevelSatisfies(level, requireLevel) {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthRole,
				"Mức truy cập không đủ cho thao tác này",
				common.StatusForbidden,
				nil,
			))
			return nil
		}

		c.Locals("active_congregation_id", congID.Hex())
		c.Locals("access_level", level)
		c.Locals("min_access_level", requireLevel)

		return c.Next()
	}
}

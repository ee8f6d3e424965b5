package middleware

import (
	"context"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	authsvc "field_service/internal/api/auth/service"
	"field_service/internal/common"
)

// CongregationContextMiddleware middleware để quản lý congregation context.
// - Đọc X-Active-Congregation-ID từ header
// - Validate user có role trong congregation này không
// - Nếu header thiếu hoặc không hợp lệ: fallback về congregation của role đầu tiên
// - Lưu active_congregation_id vào context
//
// Middleware này khoan dung: route không có congregation context vẫn đi tiếp
// (các handler tự quyết định có cần context hay không).
func CongregationContextMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Đã có context (do AuthMiddleware với requireLevel set) → giữ nguyên
		if existing, ok := c.Locals("active_congregation_id").(string); ok && existing != "" {
			return c.Next()
		}

		// Lấy user ID từ context (đã được set bởi AuthMiddleware)
		userIDStr, ok := c.Locals("user_id").(string)
		if !ok || userIDStr == "" {
			// Không có user ID, có thể là route không cần auth
			return c.Next()
		}

		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			return c.Next()
		}

		// Lấy congregation ID từ header
		headerValue := c.Get("X-Active-Congregation-ID")
		var congID primitive.ObjectID

		if headerValue != "" {
			congID, err = primitive.ObjectIDFromHex(headerValue)
			if err != nil {
				// Header không hợp lệ, fallback về congregation đầu tiên
				congID, err = getFirstCongregationID(context.Background(), userID)
				if err != nil {
					return c.Next()
				}
			} else {
				// Validate user có role trong congregation này không
				hasRole, err := validateUserInCongregation(context.Background(), userID, congID)
				if err != nil || !hasRole {
					congID, err = getFirstCongregationID(context.Background(), userID)
					if err != nil {
						return c.Next()
					}
				}
			}
		} else {
			// Không có header, lấy congregation đầu tiên của user
			congID, err = getFirstCongregationID(context.Background(), userID)
			if err != nil {
				return c.Next()
			}
		}

		c.Locals("active_congregation_id", congID.Hex())
		return c.Next()
	}
}

// validateUserInCongregation kiểm tra user có role trong congregation không
func validateUserInCongregation(ctx context.Context, userID, congregationID primitive.ObjectID) (bool, error) {
	level, err := authsvc.GetAccessLevel(ctx, userID, congregationID)
	if err != nil {
		return false, err
	}
	return level != "", nil
}

// getFirstCongregationID lấy congregation ID của role đầu tiên của user
func getFirstCongregationID(ctx context.Context, userID primitive.ObjectID) (primitive.ObjectID, error) {
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return primitive.NilObjectID, err
	}

	roles, err := userRoleService.GetRolesForUser(ctx, userID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if len(roles) == 0 {
		return primitive.NilObjectID, common.ErrNoCongregation
	}
	return roles[0].CongregationID, nil
}

// Package authsvc - helper congregation (allowed congregations, admin check, context).
package authsvc

import (
	"context"
	"errors"
	"fmt"

	models "field_service/internal/api/auth/models"
	"field_service/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GetAllowedCongregationIDs lấy danh sách congregation IDs mà user được phép truy cập.
// Một user được phép truy cập congregation nếu có role (bất kỳ mức nào) trong congregation đó.
func GetAllowedCongregationIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	userRoleService, err := NewUserRoleService()
	if err != nil {
		return nil, fmt.Errorf("failed to create user role service: %v", err)
	}

	userRoles, err := userRoleService.GetRolesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	allowedMap := make(map[primitive.ObjectID]bool)
	for _, role := range userRoles {
		allowedMap[role.CongregationID] = true
	}

	result := make([]primitive.ObjectID, 0, len(allowedMap))
	for congID := range allowedMap {
		result = append(result, congID)
	}
	return result, nil
}

// GetAccessLevel lấy mức truy cập của user trong một congregation.
// Trả về chuỗi rỗng nếu user không có role trong congregation đó.
func GetAccessLevel(ctx context.Context, userID, congregationID primitive.ObjectID) (string, error) {
	userRoleService, err := NewUserRoleService()
	if err != nil {
		return "", fmt.Errorf("failed to create user role service: %v", err)
	}

	role, err := userRoleService.GetRole(ctx, userID, congregationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return role.AccessLevel, nil
}

// IsUserAdministrator kiểm tra user có là administrator của ít nhất một congregation không.
func IsUserAdministrator(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	userRoleService, err := NewUserRoleService()
	if err != nil {
		return false, fmt.Errorf("failed to create user role service: %v", err)
	}

	_, err = userRoleService.BaseServiceMongoImpl.FindOne(ctx, bson.M{
		"userId":      userID,
		"accessLevel": models.AccessLevelAdministrator,
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type contextKey string

const userIDContextKey contextKey = "user_id"

// SetUserIDToContext lưu userID vào context
func SetUserIDToContext(ctx context.Context, userID primitive.ObjectID) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserIDFromContext lấy userID từ context
func GetUserIDFromContext(ctx context.Context) (primitive.ObjectID, bool) {
	userID, ok := ctx.Value(userIDContextKey).(primitive.ObjectID)
	return userID, ok
}

// IsUserAdministratorFromContext kiểm tra user trong context có phải administrator không
func IsUserAdministratorFromContext(ctx context.Context) (bool, error) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return false, nil
	}
	return IsUserAdministrator(ctx, userID)
}

// Package authsvc - service vai trò người dùng (UserRole).
package authsvc

import (
	"context"
	"errors"
	"fmt"

	authdto "field_service/internal/api/auth/dto"
	models "field_service/internal/api/auth/models"
	basesvc "field_service/internal/api/base/service"
	"field_service/internal/common"
	"field_service/internal/filter"
	"field_service/internal/global"
	"field_service/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRoleService là cấu trúc chứa các phương thức liên quan đến vai trò người dùng
type UserRoleService struct {
	*basesvc.BaseServiceMongoImpl[models.UserRole]
	userService *basesvc.BaseServiceMongoImpl[models.User]
}

// NewUserRoleService tạo mới UserRoleService
func NewUserRoleService() (*UserRoleService, error) {
	userRoleCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.UserRoles)
	if !exist {
		return nil, fmt.Errorf("failed to get user_roles collection: %v", common.ErrNotFound)
	}
	userCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get users collection: %v", common.ErrNotFound)
	}

	return &UserRoleService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.UserRole](userRoleCollection),
		userService:          basesvc.NewBaseServiceMongo[models.User](userCollection),
	}, nil
}

// AssignRole gán role cho user trong một congregation.
// Nếu user đã có role trong congregation đó thì cập nhật accessLevel (upsert).
func (s *UserRoleService) AssignRole(ctx context.Context, input *authdto.UserRoleCreateInput) (*models.UserRole, error) {
	userID := utility.String2ObjectID(input.UserID)
	congregationID := utility.String2ObjectID(input.CongregationID)

	// User phải tồn tại
	if _, err := s.userService.FindOneById(ctx, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Không tìm thấy user để gán role", common.StatusNotFound, err)
		}
		return nil, err
	}

	roleFilter := filter.Build(filter.And(
		filter.Eq("userId", userID),
		filter.Eq("congregationId", congregationID),
	))
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"userId":         userID,
			"congregationId": congregationID,
			"accessLevel":    input.AccessLevel,
		},
	}
	role, err := s.BaseServiceMongoImpl.Upsert(ctx, roleFilter, updateData)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id":         input.UserID,
		"congregation_id": input.CongregationID,
		"access_level":    input.AccessLevel,
	}).Info("🔐 [AUTH] Gán role cho user")
	return &role, nil
}

// UpdateAccessLevel cập nhật mức truy cập của một role.
func (s *UserRoleService) UpdateAccessLevel(ctx context.Context, roleID primitive.ObjectID, accessLevel string) (*models.UserRole, error) {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"accessLevel": accessLevel},
	}
	role, err := s.BaseServiceMongoImpl.UpdateById(ctx, roleID, updateData)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// GetRolesForUser lấy toàn bộ role của user.
func (s *UserRoleService) GetRolesForUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserRole, error) {
	roles, err := s.BaseServiceMongoImpl.Find(ctx, filter.Build(filter.Eq("userId", userID)), nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.UserRole{}, nil
		}
		return nil, err
	}
	return roles, nil
}

// GetRole lấy role của user trong một congregation cụ thể.
func (s *UserRoleService) GetRole(ctx context.Context, userID, congregationID primitive.ObjectID) (*models.UserRole, error) {
	role, err := s.BaseServiceMongoImpl.FindOne(ctx, filter.Build(filter.And(
		filter.Eq("userId", userID),
		filter.Eq("congregationId", congregationID),
	)), nil)
	if err != nil {
		return nil, err
	}
	return &role, nil
}

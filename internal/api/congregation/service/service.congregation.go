// Package congregationsvc - service quản lý congregation và cấu hình của nó.
package congregationsvc

import (
	"context"
	"errors"
	"fmt"

	authmodels "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	basesvc "field_service/internal/api/base/service"
	congregationdto "field_service/internal/api/congregation/dto"
	models "field_service/internal/api/congregation/models"
	"field_service/internal/common"
	"field_service/internal/global"
	"field_service/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CongregationService là cấu trúc chứa các phương thức liên quan đến congregation
type CongregationService struct {
	*basesvc.BaseServiceMongoImpl[models.Congregation]
	userRoleService *authsvc.UserRoleService
}

// NewCongregationService tạo mới CongregationService
func NewCongregationService() (*CongregationService, error) {
	congregationCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Congregations)
	if !exist {
		return nil, fmt.Errorf("failed to get congregations collection: %v", common.ErrNotFound)
	}
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, err
	}

	return &CongregationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Congregation](congregationCollection),
		userRoleService:      userRoleService,
	}, nil
}

// Create tạo congregation mới với cấu hình mặc định và gán người tạo làm administrator.
// Người tạo luôn là administrator đầu tiên - không có congregation nào tồn tại mà không có admin.
func (s *CongregationService) Create(ctx context.Context, input *congregationdto.CongregationCreateInput, creatorID primitive.ObjectID) (*models.Congregation, error) {
	congregation := models.Congregation{
		Name:        input.Name,
		MaxTries:    input.MaxTries,
		ExpiryHours: input.ExpiryHours,
	}
	if congregation.MaxTries <= 0 {
		congregation.MaxTries = models.DefaultMaxTries
	}
	if congregation.ExpiryHours <= 0 {
		congregation.ExpiryHours = models.DefaultExpiryHours
	}
	// Origin không hợp lệ thì bỏ qua thay vì lưu tọa độ hỏng
	if input.Origin != nil && input.Origin.IsValid() {
		congregation.Origin = input.Origin
	}

	created, err := s.InsertOne(ctx, congregation)
	if err != nil {
		return nil, err
	}

	if !creatorID.IsZero() {
		role := authmodels.UserRole{
			UserID:         creatorID,
			CongregationID: created.ID,
			AccessLevel:    authmodels.AccessLevelAdministrator,
		}
		if _, err := s.userRoleService.InsertOne(ctx, role); err != nil {
			logger.GetAppLogger().WithFields(logrus.Fields{
				"congregationId": created.ID.Hex(),
				"userId":         creatorID.Hex(),
				"error":          err.Error(),
			}).Error("🏛️ [CONGREGATION] Tạo congregation thành công nhưng gán admin thất bại")
			return nil, err
		}
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"congregationId": created.ID.Hex(),
		"name":           created.Name,
	}).Info("🏛️ [CONGREGATION] Đã tạo congregation mới")
	return &created, nil
}

// UpdateSettings cập nhật cấu hình congregation, chỉ set các field có giá trị.
func (s *CongregationService) UpdateSettings(ctx context.Context, congregationID primitive.ObjectID, input *congregationdto.CongregationUpdateInput) (*models.Congregation, error) {
	set := map[string]interface{}{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.MaxTries > 0 {
		set["maxTries"] = input.MaxTries
	}
	if input.ExpiryHours > 0 {
		set["expiryHours"] = input.ExpiryHours
	}
	if input.Origin != nil {
		if !input.Origin.IsValid() {
			return nil, common.NewError(common.ErrCodeValidationInput, "Tọa độ origin không hợp lệ", common.StatusBadRequest, nil)
		}
		set["origin"] = input.Origin
	}
	if len(set) == 0 {
		current, err := s.FindOneById(ctx, congregationID)
		if err != nil {
			return nil, err
		}
		return &current, nil
	}

	updated, err := s.UpdateById(ctx, congregationID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetSettings trả về congregation theo id. Dùng cho các service khác cần MaxTries/Origin/ExpiryHours.
func (s *CongregationService) GetSettings(ctx context.Context, congregationID primitive.ObjectID) (*models.Congregation, error) {
	congregation, err := s.FindOneById(ctx, congregationID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeBusinessOperation, "Không tìm thấy congregation", common.StatusNotFound, err)
		}
		return nil, err
	}
	return &congregation, nil
}

// MaxTriesFor trả về ngưỡng not-home của congregation, fallback về mặc định khi thiếu.
func (s *CongregationService) MaxTriesFor(ctx context.Context, congregationID primitive.ObjectID) int {
	congregation, err := s.FindOneById(ctx, congregationID)
	if err != nil || congregation.MaxTries <= 0 {
		return models.DefaultMaxTries
	}
	return congregation.MaxTries
}

// ExpiryHoursFor trả về thời hạn link mặc định của congregation, fallback về mặc định khi thiếu.
func (s *CongregationService) ExpiryHoursFor(ctx context.Context, congregationID primitive.ObjectID) int {
	congregation, err := s.FindOneById(ctx, congregationID)
	if err != nil || congregation.ExpiryHours <= 0 {
		return models.DefaultExpiryHours
	}
	return congregation.ExpiryHours
}

// FindByIDs trả về các congregation theo danh sách id (dùng cho bootstrap resolver).
func (s *CongregationService) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Congregation, error) {
	if len(ids) == 0 {
		return []models.Congregation{}, nil
	}
	results, err := s.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.Congregation{}, nil
		}
		return nil, err
	}
	return results, nil
}

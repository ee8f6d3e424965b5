// Package congregationsvc - service loại hộ gia đình.
package congregationsvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "field_service/internal/api/base/service"
	models "field_service/internal/api/congregation/models"
	"field_service/internal/common"
	"field_service/internal/global"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// HouseholdTypeService là cấu trúc chứa các phương thức liên quan đến loại hộ gia đình
type HouseholdTypeService struct {
	*basesvc.BaseServiceMongoImpl[models.HouseholdType]
}

// NewHouseholdTypeService tạo mới HouseholdTypeService
func NewHouseholdTypeService() (*HouseholdTypeService, error) {
	householdTypeCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.HouseholdTypes)
	if !exist {
		return nil, fmt.Errorf("failed to get household_types collection: %v", common.ErrNotFound)
	}
	return &HouseholdTypeService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.HouseholdType](householdTypeCollection),
	}, nil
}

// ListSorted trả về các loại hộ của congregation theo thứ tự sequence tăng dần.
// Không có loại nào thì trả về slice rỗng, không phải lỗi.
func (s *HouseholdTypeService) ListSorted(ctx context.Context, congregationID primitive.ObjectID) ([]models.HouseholdType, error) {
	opts := mongoopts.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	results, err := s.Find(ctx, bson.M{"ownerCongregationId": congregationID}, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.HouseholdType{}, nil
		}
		return nil, err
	}
	return results, nil
}

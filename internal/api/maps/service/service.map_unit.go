// Package mapssvc - service hộ trong bản đồ.
package mapssvc

import (
	"context"
	"fmt"

	basesvc "field_service/internal/api/base/service"
	models "field_service/internal/api/maps/models"
	"field_service/internal/common"
	"field_service/internal/global"
	"field_service/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MapUnitService là cấu trúc chứa các phương thức liên quan đến hộ trong bản đồ
type MapUnitService struct {
	*basesvc.BaseServiceMongoImpl[models.MapUnit]
	mapService *MapService
}

// NewMapUnitService tạo mới MapUnitService
func NewMapUnitService() (*MapUnitService, error) {
	unitCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.MapUnits)
	if !exist {
		return nil, fmt.Errorf("failed to get map_units collection: %v", common.ErrNotFound)
	}
	mapService, err := NewMapService()
	if err != nil {
		return nil, err
	}

	return &MapUnitService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.MapUnit](unitCollection),
		mapService:           mapService,
	}, nil
}

// EscalateNotHomeTries tăng số lần ghé không gặp thêm 1, chặn trên tại maxTries.
func EscalateNotHomeTries(current, maxTries int) int {
	tries := current + 1
	if tries > maxTries {
		tries = maxTries
	}
	return tries
}

// UpdateStatus cập nhật trạng thái một hộ rồi tính lại số liệu bản đồ và khu vực.
//
// Quy tắc not-home: mỗi lần đánh not_home tăng NotHomeTries thêm 1 nhưng không
// vượt quá MaxTries của congregation; đạt ngưỡng thì hộ được tính là đã xử lý.
// Chuyển sang trạng thái khác not_home đưa NotHomeTries về 0.
func (s *MapUnitService) UpdateStatus(ctx context.Context, unitID primitive.ObjectID, status string, note string) (*models.MapUnit, error) {
	if !models.ValidUnitStatus(status) {
		return nil, common.NewError(common.ErrCodeValidationInput, "Trạng thái hộ không hợp lệ: "+status, common.StatusBadRequest, nil)
	}

	unit, err := s.FindOneById(ctx, unitID)
	if err != nil {
		return nil, err
	}

	set := map[string]interface{}{"status": status}
	if note != "" {
		set["note"] = note
	}
	if status == models.UnitStatusNotHome {
		maxTries := s.mapService.congregationService.MaxTriesFor(ctx, unit.OwnerCongregationID)
		set["notHomeTries"] = EscalateNotHomeTries(unit.NotHomeTries, maxTries)
	} else {
		set["notHomeTries"] = 0
	}

	updated, err := s.UpdateById(ctx, unitID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}

	if err := s.mapService.RecomputeCounts(ctx, unit.MapID); err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"mapId": unit.MapID.Hex(),
			"error": err.Error(),
		}).Warn("🗺️ [MAP] Không tính lại được số liệu bản đồ sau khi đổi trạng thái hộ")
	}
	return &updated, nil
}

// Package territorysvc - service quản lý khu vực: mã duy nhất, đổi tên,
// tổng hợp tiến độ và reset toàn khu vực.
package territorysvc

import (
	"context"
	"errors"
	"fmt"

	basesvc "field_service/internal/api/base/service"
	mapsmodels "field_service/internal/api/maps/models"
	models "field_service/internal/api/territory/models"
	"field_service/internal/common"
	"field_service/internal/filter"
	"field_service/internal/global"
	"field_service/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// TerritoryService là cấu trúc chứa các phương thức liên quan đến khu vực
type TerritoryService struct {
	*basesvc.BaseServiceMongoImpl[models.Territory]
	mapService  *basesvc.BaseServiceMongoImpl[mapsmodels.TerritoryMap]
	unitService *basesvc.BaseServiceMongoImpl[mapsmodels.MapUnit]
}

// NewTerritoryService tạo mới TerritoryService
func NewTerritoryService() (*TerritoryService, error) {
	territoryCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Territories)
	if !exist {
		return nil, fmt.Errorf("failed to get territories collection: %v", common.ErrNotFound)
	}
	mapCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.TerritoryMaps)
	if !exist {
		return nil, fmt.Errorf("failed to get territory_maps collection: %v", common.ErrNotFound)
	}
	unitCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.MapUnits)
	if !exist {
		return nil, fmt.Errorf("failed to get map_units collection: %v", common.ErrNotFound)
	}

	return &TerritoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Territory](territoryCollection),
		mapService:           basesvc.NewBaseServiceMongo[mapsmodels.TerritoryMap](mapCollection),
		unitService:          basesvc.NewBaseServiceMongo[mapsmodels.MapUnit](unitCollection),
	}, nil
}

// ListSorted trả về các khu vực của congregation theo thứ tự mã tăng dần.
func (s *TerritoryService) ListSorted(ctx context.Context, congregationID primitive.ObjectID) ([]models.Territory, error) {
	opts := mongoopts.Find().SetSort(bson.D{{Key: "code", Value: 1}})
	results, err := s.Find(ctx, bson.M{"ownerCongregationId": congregationID}, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.Territory{}, nil
		}
		return nil, err
	}
	return results, nil
}

// FindByCode tìm khu vực theo mã trong phạm vi một congregation.
func (s *TerritoryService) FindByCode(ctx context.Context, congregationID primitive.ObjectID, code string) (*models.Territory, error) {
	territory, err := s.FindOne(ctx, bson.M{"ownerCongregationId": congregationID, "code": code}, nil)
	if err != nil {
		return nil, err
	}
	return &territory, nil
}

// Rename đổi mã và tên khu vực trong một thao tác duy nhất.
// Mã mới trùng với khu vực khác cùng congregation sẽ bị unique index chặn (ErrDuplicate).
func (s *TerritoryService) Rename(ctx context.Context, territoryID primitive.ObjectID, code string, name string) (*models.Territory, error) {
	set := map[string]interface{}{"code": code}
	if name != "" {
		set["name"] = name
	}
	updated, err := s.UpdateById(ctx, territoryID, &basesvc.UpdateData{Set: set})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RecomputeProgress tính lại tiến độ khu vực từ tiến độ các bản đồ bên trong.
// Khu vực không có bản đồ nào có tiến độ 0.
func (s *TerritoryService) RecomputeProgress(ctx context.Context, territoryID primitive.ObjectID) (float64, error) {
	maps, err := s.mapService.Find(ctx, bson.M{"territoryId": territoryID}, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return 0, err
	}

	progress := 0.0
	if len(maps) > 0 {
		var sum float64
		for _, m := range maps {
			sum += m.Progress
		}
		progress = sum / float64(len(maps))
	}

	if _, err := s.UpdateById(ctx, territoryID, &basesvc.UpdateData{
		Set: map[string]interface{}{"progress": progress},
	}); err != nil {
		return 0, err
	}
	return progress, nil
}

// Reset đưa toàn bộ hộ trong khu vực về trạng thái ban đầu (đầu đợt rao giảng mới):
// status = default, notHomeTries = 0, tiến độ các bản đồ và khu vực về 0.
func (s *TerritoryService) Reset(ctx context.Context, territoryID primitive.ObjectID) error {
	maps, err := s.mapService.Find(ctx, bson.M{"territoryId": territoryID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil // khu vực trống, không có gì để reset
		}
		return err
	}

	mapIDs := make([]primitive.ObjectID, 0, len(maps))
	for _, m := range maps {
		mapIDs = append(mapIDs, m.ID)
	}

	unitCount, err := s.unitService.UpdateMany(ctx, bson.M{"mapId": bson.M{"$in": mapIDs}}, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":       mapsmodels.UnitStatusDefault,
			"notHomeTries": 0,
		},
	}, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	// Số liệu tổng hợp: mỗi bản đồ quay về 0% với toàn bộ hộ chưa xử lý
	for _, m := range maps {
		total, err := s.unitService.CountDocuments(ctx, bson.M{"mapId": m.ID})
		if err != nil {
			return err
		}
		if _, err := s.mapService.UpdateById(ctx, m.ID, &basesvc.UpdateData{
			Set: map[string]interface{}{
				"progress":     0.0,
				"notDoneCount": total,
				"notHomeCount": 0,
			},
		}); err != nil {
			return err
		}
	}

	if _, err := s.UpdateById(ctx, territoryID, &basesvc.UpdateData{
		Set: map[string]interface{}{"progress": 0.0},
	}); err != nil {
		return err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"territoryId": territoryID.Hex(),
		"maps":        len(maps),
		"units":       unitCount,
	}).Info("🗺️ [TERRITORY] Đã reset khu vực về đầu đợt")
	return nil
}

// DeleteCascade xóa khu vực cùng toàn bộ bản đồ và hộ bên trong.
func (s *TerritoryService) DeleteCascade(ctx context.Context, territoryID primitive.ObjectID) error {
	maps, err := s.mapService.Find(ctx, bson.M{"territoryId": territoryID}, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	if len(maps) > 0 {
		mapIDs := make([]primitive.ObjectID, 0, len(maps))
		for _, m := range maps {
			mapIDs = append(mapIDs, m.ID)
		}
		if _, err := s.unitService.DeleteMany(ctx, bson.M{"mapId": bson.M{"$in": mapIDs}}); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if _, err := s.mapService.DeleteMany(ctx, bson.M{"territoryId": territoryID}); err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
	}

	if err := s.DeleteById(ctx, territoryID); err != nil {
		return err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"territoryId": territoryID.Hex(),
		"maps":        len(maps),
	}).Info("🗺️ [TERRITORY] Đã xóa khu vực và dữ liệu bên trong")
	return nil
}

// HasAnyMap kiểm tra nhanh trong một tập khu vực có tồn tại ít nhất một bản đồ không.
// Tập khu vực rỗng trả về false ngay, không chạm database.
func (s *TerritoryService) HasAnyMap(ctx context.Context, territoryIDs []primitive.ObjectID) (bool, error) {
	if len(territoryIDs) == 0 {
		return false, nil
	}
	ids := make([]interface{}, 0, len(territoryIDs))
	for _, id := range territoryIDs {
		ids = append(ids, id)
	}
	count, err := s.mapService.CountDocuments(ctx, filter.Build(filter.In("territoryId", ids...)))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Package mapssvc - service bản đồ: thứ tự hiển thị, tầng, chuyển khu vực
// và tổng hợp tiến độ từ các hộ.
package mapssvc

import (
	"context"
	"errors"
	"fmt"
	"sort"

	basesvc "field_service/internal/api/base/service"
	congregationsvc "field_service/internal/api/congregation/service"
	mapsdto "field_service/internal/api/maps/dto"
	models "field_service/internal/api/maps/models"
	territorysvc "field_service/internal/api/territory/service"
	"field_service/internal/common"
	"field_service/internal/global"
	"field_service/internal/logger"
	"field_service/internal/utility"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoopts "go.mongodb.org/mongo-driver/mongo/options"
)

// MapService là cấu trúc chứa các phương thức liên quan đến bản đồ
type MapService struct {
	*basesvc.BaseServiceMongoImpl[models.TerritoryMap]
	unitService         *basesvc.BaseServiceMongoImpl[models.MapUnit]
	territoryService    *territorysvc.TerritoryService
	congregationService *congregationsvc.CongregationService
}

// NewMapService tạo mới MapService
func NewMapService() (*MapService, error) {
	mapCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.TerritoryMaps)
	if !exist {
		return nil, fmt.Errorf("failed to get territory_maps collection: %v", common.ErrNotFound)
	}
	unitCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.MapUnits)
	if !exist {
		return nil, fmt.Errorf("failed to get map_units collection: %v", common.ErrNotFound)
	}
	territoryService, err := territorysvc.NewTerritoryService()
	if err != nil {
		return nil, err
	}
	congregationService, err := congregationsvc.NewCongregationService()
	if err != nil {
		return nil, err
	}

	return &MapService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.TerritoryMap](mapCollection),
		unitService:          basesvc.NewBaseServiceMongo[models.MapUnit](unitCollection),
		territoryService:     territoryService,
		congregationService:  congregationService,
	}, nil
}

// ListByTerritory trả về các bản đồ của khu vực theo thứ tự sequence tăng dần.
func (s *MapService) ListByTerritory(ctx context.Context, territoryID primitive.ObjectID) ([]models.TerritoryMap, error) {
	opts := mongoopts.Find().SetSort(bson.D{{Key: "sequence", Value: 1}})
	results, err := s.Find(ctx, bson.M{"territoryId": territoryID}, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.TerritoryMap{}, nil
		}
		return nil, err
	}
	return results, nil
}

// UpdateSequences cập nhật thứ tự hiển thị cho nhiều bản đồ.
// Từng bản đồ được update riêng; lỗi ở giữa dừng lại và trả về số bản đồ đã đổi.
func (s *MapService) UpdateSequences(ctx context.Context, items []mapsdto.MapSequenceItem) (int, error) {
	changed := 0
	for _, item := range items {
		id := utility.String2ObjectID(item.ID)
		if id.IsZero() {
			return changed, common.NewError(common.ErrCodeValidationFormat, "ID bản đồ không hợp lệ: "+item.ID, common.StatusBadRequest, nil)
		}
		if _, err := s.UpdateById(ctx, id, &basesvc.UpdateData{
			Set: map[string]interface{}{"sequence": item.Sequence},
		}); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// MoveToTerritory chuyển bản đồ sang khu vực khác (xác định bằng mã khu vực đích
// trong cùng congregation) rồi tính lại tiến độ cả khu vực nguồn lẫn khu vực đích.
// Trả về mã khu vực đích để caller thông báo.
func (s *MapService) MoveToTerritory(ctx context.Context, mapID primitive.ObjectID, targetCode string) (string, error) {
	mapRecord, err := s.FindOneById(ctx, mapID)
	if err != nil {
		return "", err
	}

	target, err := s.territoryService.FindByCode(ctx, mapRecord.OwnerCongregationID, targetCode)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.NewError(common.ErrCodeValidationInput, "Không tìm thấy khu vực đích với mã "+targetCode, common.StatusNotFound, err)
		}
		return "", err
	}
	if target.ID == mapRecord.TerritoryID {
		return "", common.NewError(common.ErrCodeBusinessOperation, "Bản đồ đã thuộc khu vực "+targetCode, common.StatusBadRequest, nil)
	}

	sourceTerritoryID := mapRecord.TerritoryID
	if _, err := s.UpdateById(ctx, mapID, &basesvc.UpdateData{
		Set: map[string]interface{}{"territoryId": target.ID},
	}); err != nil {
		return "", err
	}

	// Tiến độ hai khu vực đều thay đổi sau khi chuyển
	if _, err := s.territoryService.RecomputeProgress(ctx, sourceTerritoryID); err != nil {
		logger.GetAppLogger().WithField("territoryId", sourceTerritoryID.Hex()).Warn("🗺️ [MAP] Không tính lại được tiến độ khu vực nguồn sau khi chuyển bản đồ")
	}
	if _, err := s.territoryService.RecomputeProgress(ctx, target.ID); err != nil {
		logger.GetAppLogger().WithField("territoryId", target.ID.Hex()).Warn("🗺️ [MAP] Không tính lại được tiến độ khu vực đích sau khi chuyển bản đồ")
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"mapId":      mapID.Hex(),
		"targetCode": targetCode,
	}).Info("🗺️ [MAP] Đã chuyển bản đồ sang khu vực khác")
	return target.Code, nil
}

// AddFloor thêm một tầng vào bản đồ multi với danh sách số căn hộ của tầng.
// Bản đồ single không có khái niệm tầng.
func (s *MapService) AddFloor(ctx context.Context, mapID primitive.ObjectID, floor int, unitCodes []string) ([]models.MapUnit, error) {
	mapRecord, err := s.FindOneById(ctx, mapID)
	if err != nil {
		return nil, err
	}
	if mapRecord.Type == models.MapTypeSingle {
		return nil, common.NewError(common.ErrCodeBusinessOperation, "Bản đồ single không có tầng", common.StatusBadRequest, nil)
	}

	existing, err := s.unitService.CountDocuments(ctx, bson.M{"mapId": mapID, "floor": floor})
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, common.NewError(common.ErrCodeBusinessState, "Tầng đã tồn tại trong bản đồ", common.StatusBadRequest, nil)
	}

	units := make([]models.MapUnit, 0, len(unitCodes))
	for i, code := range unitCodes {
		units = append(units, models.MapUnit{
			OwnerCongregationID: mapRecord.OwnerCongregationID,
			MapID:               mapID,
			Code:                code,
			Floor:               floor,
			Sequence:            i,
			Status:              models.UnitStatusDefault,
		})
	}
	created, err := s.unitService.InsertMany(ctx, units)
	if err != nil {
		return nil, err
	}

	if err := s.RecomputeCounts(ctx, mapID); err != nil {
		return nil, err
	}
	return created, nil
}

// RemoveFloor gỡ một tầng và toàn bộ hộ của tầng khỏi bản đồ multi.
func (s *MapService) RemoveFloor(ctx context.Context, mapID primitive.ObjectID, floor int) (int64, error) {
	mapRecord, err := s.FindOneById(ctx, mapID)
	if err != nil {
		return 0, err
	}
	if mapRecord.Type == models.MapTypeSingle {
		return 0, common.NewError(common.ErrCodeBusinessOperation, "Bản đồ single không có tầng", common.StatusBadRequest, nil)
	}

	deleted, err := s.unitService.DeleteMany(ctx, bson.M{"mapId": mapID, "floor": floor})
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if err := s.RecomputeCounts(ctx, mapID); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// FloorGroup các hộ của một tầng, dùng cho hiển thị bản đồ multi.
type FloorGroup struct {
	Floor int              `json:"floor"`
	Units []models.MapUnit `json:"units"`
}

// GroupByFloor gom danh sách hộ theo tầng: tầng cao trước (giảm dần),
// trong mỗi tầng hộ sắp theo sequence tăng dần.
func GroupByFloor(units []models.MapUnit) []FloorGroup {
	sorted := make([]models.MapUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Floor != sorted[j].Floor {
			return sorted[i].Floor > sorted[j].Floor
		}
		return sorted[i].Sequence < sorted[j].Sequence
	})

	groups := make([]FloorGroup, 0)
	for _, unit := range sorted {
		if len(groups) == 0 || groups[len(groups)-1].Floor != unit.Floor {
			groups = append(groups, FloorGroup{Floor: unit.Floor})
		}
		last := &groups[len(groups)-1]
		last.Units = append(last.Units, unit)
	}
	return groups
}

// GroupUnitsByFloor trả về các hộ của bản đồ gom theo tầng (xem GroupByFloor).
func (s *MapService) GroupUnitsByFloor(ctx context.Context, mapID primitive.ObjectID) ([]FloorGroup, error) {
	units, err := s.unitService.Find(ctx, bson.M{"mapId": mapID}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []FloorGroup{}, nil
		}
		return nil, err
	}
	return GroupByFloor(units), nil
}

// SummarizeUnits tính tiến độ (%) và các bộ đếm của một bản đồ từ danh sách hộ:
//   - mẫu số chỉ gồm các hộ counted (không tính invalid và do_not_call)
//   - hộ processed = done, hoặc not_home đã ghé đủ maxTries
//   - notHome đếm mọi hộ đang ở trạng thái not_home, kể cả đã đạt ngưỡng
func SummarizeUnits(units []models.MapUnit, maxTries int) (progress float64, notDone int, notHome int) {
	counted, processed := 0, 0
	for i := range units {
		unit := &units[i]
		if unit.Status == models.UnitStatusNotHome {
			notHome++
		}
		if !unit.Counted() {
			continue
		}
		counted++
		if unit.Processed(maxTries) {
			processed++
		}
	}

	if counted > 0 {
		progress = float64(processed) / float64(counted) * 100
	}
	return progress, counted - processed, notHome
}

// RecomputeCounts tính lại tiến độ và số liệu của bản đồ từ các hộ bên trong,
// rồi lan lên tiến độ khu vực chứa nó.
//   - mẫu số chỉ gồm các hộ counted (không tính invalid và do_not_call)
//   - hộ processed = done, hoặc not_home đã ghé đủ MaxTries của congregation
func (s *MapService) RecomputeCounts(ctx context.Context, mapID primitive.ObjectID) error {
	mapRecord, err := s.FindOneById(ctx, mapID)
	if err != nil {
		return err
	}

	units, err := s.unitService.Find(ctx, bson.M{"mapId": mapID}, nil)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return err
	}

	maxTries := s.congregationService.MaxTriesFor(ctx, mapRecord.OwnerCongregationID)
	progress, notDone, notHome := SummarizeUnits(units, maxTries)

	if _, err := s.UpdateById(ctx, mapID, &basesvc.UpdateData{
		Set: map[string]interface{}{
			"progress":     progress,
			"notDoneCount": notDone,
			"notHomeCount": notHome,
		},
	}); err != nil {
		return err
	}

	_, err = s.territoryService.RecomputeProgress(ctx, mapRecord.TerritoryID)
	return err
}

// Package linkssvc - service link chia sẻ bản đồ.
package linkssvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	basesvc "field_service/internal/api/base/service"
	congregationsvc "field_service/internal/api/congregation/service"
	linksdto "field_service/internal/api/links/dto"
	models "field_service/internal/api/links/models"
	mapsmodels "field_service/internal/api/maps/models"
	mapssvc "field_service/internal/api/maps/service"
	"field_service/internal/common"
	"field_service/internal/filter"
	"field_service/internal/global"
	"field_service/internal/logger"
	"field_service/internal/utility"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ShareLinkService là cấu trúc chứa các phương thức liên quan đến link chia sẻ
type ShareLinkService struct {
	*basesvc.BaseServiceMongoImpl[models.ShareLink]
	mapService          *mapssvc.MapService
	congregationService *congregationsvc.CongregationService
}

// NewShareLinkService tạo mới ShareLinkService
func NewShareLinkService() (*ShareLinkService, error) {
	linkCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ShareLinks)
	if !exist {
		return nil, fmt.Errorf("failed to get share_links collection: %v", common.ErrNotFound)
	}
	mapService, err := mapssvc.NewMapService()
	if err != nil {
		return nil, err
	}
	congregationService, err := congregationsvc.NewCongregationService()
	if err != nil {
		return nil, err
	}

	return &ShareLinkService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ShareLink](linkCollection),
		mapService:           mapService,
		congregationService:  congregationService,
	}, nil
}

// Create tạo link chia sẻ mới cho một bản đồ.
// Thời hạn lấy từ input, không có thì dùng ExpiryHours của congregation sở hữu bản đồ.
func (s *ShareLinkService) Create(ctx context.Context, input *linksdto.ShareLinkCreateInput) (*models.ShareLink, error) {
	if !models.ValidLinkType(input.Type) {
		return nil, common.NewError(common.ErrCodeValidationInput, "Loại link không hợp lệ: "+input.Type, common.StatusBadRequest, nil)
	}

	mapID := utility.String2ObjectID(input.MapID)
	mapRecord, err := s.mapService.FindOneById(ctx, mapID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NewError(common.ErrCodeValidationInput, "Không tìm thấy bản đồ để chia sẻ", common.StatusNotFound, err)
		}
		return nil, err
	}

	expiryHours := input.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = s.congregationService.ExpiryHoursFor(ctx, mapRecord.OwnerCongregationID)
	}

	link := models.ShareLink{
		OwnerCongregationID: mapRecord.OwnerCongregationID,
		MapID:               mapRecord.ID,
		Type:                input.Type,
		Publisher:           input.Publisher,
		Token:               uuid.NewString(),
		ExpiresAt:           time.Now().Add(time.Duration(expiryHours) * time.Hour).UnixMilli(),
	}
	created, err := s.InsertOne(ctx, link)
	if err != nil {
		return nil, err
	}

	logger.GetAppLogger().WithFields(logrus.Fields{
		"mapId": mapRecord.ID.Hex(),
		"type":  created.Type,
	}).Info("🔗 [LINK] Đã tạo link chia sẻ bản đồ")
	return &created, nil
}

// ResolvedLink dữ liệu trả về khi mở một link chia sẻ: link, bản đồ và các hộ gom theo tầng.
type ResolvedLink struct {
	Link  models.ShareLink        `json:"link"`
	Map   mapsmodels.TerritoryMap `json:"map"`
	Units []mapssvc.FloorGroup    `json:"units"`
}

// ResolveByToken mở link chia sẻ theo token, không cần đăng nhập.
// Link quá hạn hoặc bản đồ đích đã bị xóa đều trả về ErrLinkExpired (410).
func (s *ShareLinkService) ResolveByToken(ctx context.Context, token string) (*ResolvedLink, error) {
	link, err := s.FindOne(ctx, filter.Build(filter.Eq("token", token)), nil)
	if err != nil {
		return nil, err
	}
	if link.Expired(time.Now()) {
		return nil, common.ErrLinkExpired
	}

	mapRecord, err := s.mapService.FindOneById(ctx, link.MapID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// Bản đồ không còn - link coi như hết hạn
			return nil, common.ErrLinkExpired
		}
		return nil, err
	}

	units, err := s.mapService.GroupUnitsByFloor(ctx, link.MapID)
	if err != nil {
		return nil, err
	}
	return &ResolvedLink{Link: link, Map: mapRecord, Units: units}, nil
}

// ListByMap trả về các link còn hạn của một bản đồ.
func (s *ShareLinkService) ListByMap(ctx context.Context, mapIDHex string) ([]models.ShareLink, error) {
	mapID := utility.String2ObjectID(mapIDHex)
	now := time.Now().UnixMilli()
	links, err := s.Find(ctx, filter.Build(filter.And(
		filter.Eq("mapId", mapID),
		filter.Gt("expiresAt", now),
	)), nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []models.ShareLink{}, nil
		}
		return nil, err
	}
	return links, nil
}

// CollectExpired trả về và xóa các link đã quá hạn (worker dọn dẹp gọi định kỳ).
// Danh sách trả về dùng để enqueue thông báo hết hạn.
func (s *ShareLinkService) CollectExpired(ctx context.Context) ([]models.ShareLink, error) {
	now := time.Now().UnixMilli()
	expiredFilter := filter.Build(filter.Lte("expiresAt", now))

	expired, err := s.Find(ctx, expiredFilter, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}

	if _, err := s.DeleteMany(ctx, expiredFilter); err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}
	return expired, nil
}

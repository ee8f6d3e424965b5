package session

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	authsvc "field_service/internal/api/auth/service"
	congregationmodels "field_service/internal/api/congregation/models"
	congregationsvc "field_service/internal/api/congregation/service"
	mapsmodels "field_service/internal/api/maps/models"
	mapssvc "field_service/internal/api/maps/service"
	territorymodels "field_service/internal/api/territory/models"
	territorysvc "field_service/internal/api/territory/service"
	"field_service/internal/common"
)

// MongoStore là Store thật, ghép từ các service domain.
type MongoStore struct {
	userRoleService      *authsvc.UserRoleService
	congregationService  *congregationsvc.CongregationService
	householdTypeService *congregationsvc.HouseholdTypeService
	territoryService     *territorysvc.TerritoryService
	mapService           *mapssvc.MapService
}

// NewMongoStore tạo store từ các service domain.
func NewMongoStore() (*MongoStore, error) {
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, fmt.Errorf("create user role service: %w", err)
	}
	congregationService, err := congregationsvc.NewCongregationService()
	if err != nil {
		return nil, fmt.Errorf("create congregation service: %w", err)
	}
	householdTypeService, err := congregationsvc.NewHouseholdTypeService()
	if err != nil {
		return nil, fmt.Errorf("create household type service: %w", err)
	}
	territoryService, err := territorysvc.NewTerritoryService()
	if err != nil {
		return nil, fmt.Errorf("create territory service: %w", err)
	}
	mapService, err := mapssvc.NewMapService()
	if err != nil {
		return nil, fmt.Errorf("create map service: %w", err)
	}

	return &MongoStore{
		userRoleService:      userRoleService,
		congregationService:  congregationService,
		householdTypeService: householdTypeService,
		territoryService:     territoryService,
		mapService:           mapService,
	}, nil
}

// RolesForUser lấy role của user và gắn tên congregation tương ứng.
func (s *MongoStore) RolesForUser(ctx context.Context, userID primitive.ObjectID) ([]RoleGrant, error) {
	roles, err := s.userRoleService.GetRolesForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	congIDs := make([]primitive.ObjectID, 0, len(roles))
	for _, r := range roles {
		congIDs = append(congIDs, r.CongregationID)
	}
	congregations, err := s.congregationService.FindByIDs(ctx, congIDs)
	if err != nil {
		return nil, err
	}
	nameByID := make(map[primitive.ObjectID]string, len(congregations))
	for _, c := range congregations {
		nameByID[c.ID] = c.Name
	}

	grants := make([]RoleGrant, 0, len(roles))
	for _, r := range roles {
		grants = append(grants, RoleGrant{
			CongregationID:   r.CongregationID,
			CongregationName: nameByID[r.CongregationID],
			AccessLevel:      r.AccessLevel,
		})
	}
	return grants, nil
}

// CongregationDetail trả về (nil, nil) khi congregation không tồn tại.
func (s *MongoStore) CongregationDetail(ctx context.Context, id primitive.ObjectID) (*congregationmodels.Congregation, error) {
	cong, err := s.congregationService.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cong, nil
}

// HouseholdTypes các loại hộ xếp theo sequence
func (s *MongoStore) HouseholdTypes(ctx context.Context, congregationID primitive.ObjectID) ([]congregationmodels.HouseholdType, error) {
	return s.householdTypeService.ListSorted(ctx, congregationID)
}

// Territories các khu vực xếp theo code
func (s *MongoStore) Territories(ctx context.Context, congregationID primitive.ObjectID) ([]territorymodels.Territory, error) {
	return s.territoryService.ListSorted(ctx, congregationID)
}

// HasAnyMap kiểm tra sự tồn tại của bản đồ trong các khu vực
func (s *MongoStore) HasAnyMap(ctx context.Context, territoryIDs []primitive.ObjectID) (bool, error) {
	return s.territoryService.HasAnyMap(ctx, territoryIDs)
}

// MapsByTerritory các bản đồ của khu vực xếp theo sequence
func (s *MongoStore) MapsByTerritory(ctx context.Context, territoryID primitive.ObjectID) ([]mapsmodels.TerritoryMap, error) {
	return s.mapService.ListByTerritory(ctx, territoryID)
}

// MoveMap chuyển bản đồ sang khu vực có code đích
func (s *MongoStore) MoveMap(ctx context.Context, mapID primitive.ObjectID, targetCode string) (string, error) {
	return s.mapService.MoveToTerritory(ctx, mapID, targetCode)
}

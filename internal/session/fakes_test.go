package session

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	congregationmodels "field_service/internal/api/congregation/models"
	mapsmodels "field_service/internal/api/maps/models"
	territorymodels "field_service/internal/api/territory/models"
)

// fakeStore là Store giả cho test, đếm số lần gọi từng method.
type fakeStore struct {
	roles          []RoleGrant
	rolesErr       error
	congregations  map[primitive.ObjectID]*congregationmodels.Congregation
	householdTypes []congregationmodels.HouseholdType
	territories    []territorymodels.Territory
	maps           []mapsmodels.TerritoryMap
	hasMaps        bool
	moveErr        error
	movedCode      string

	calls map[string]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		congregations: make(map[primitive.ObjectID]*congregationmodels.Congregation),
		calls:         make(map[string]int),
	}
}

func (f *fakeStore) record(name string) {
	f.calls[name]++
}

func (f *fakeStore) RolesForUser(ctx context.Context, userID primitive.ObjectID) ([]RoleGrant, error) {
	f.record("RolesForUser")
	return f.roles, f.rolesErr
}

func (f *fakeStore) CongregationDetail(ctx context.Context, id primitive.ObjectID) (*congregationmodels.Congregation, error) {
	f.record("CongregationDetail")
	return f.congregations[id], nil
}

func (f *fakeStore) HouseholdTypes(ctx context.Context, congregationID primitive.ObjectID) ([]congregationmodels.HouseholdType, error) {
	f.record("HouseholdTypes")
	return f.householdTypes, nil
}

func (f *fakeStore) Territories(ctx context.Context, congregationID primitive.ObjectID) ([]territorymodels.Territory, error) {
	f.record("Territories")
	return f.territories, nil
}

func (f *fakeStore) HasAnyMap(ctx context.Context, territoryIDs []primitive.ObjectID) (bool, error) {
	f.record("HasAnyMap")
	return f.hasMaps, nil
}

func (f *fakeStore) MapsByTerritory(ctx context.Context, territoryID primitive.ObjectID) ([]mapsmodels.TerritoryMap, error) {
	f.record("MapsByTerritory")
	return f.maps, nil
}

func (f *fakeStore) MoveMap(ctx context.Context, mapID primitive.ObjectID, targetCode string) (string, error) {
	f.record("MoveMap")
	if f.moveErr != nil {
		return "", f.moveErr
	}
	if f.movedCode != "" {
		return f.movedCode, nil
	}
	return targetCode, nil
}

// fakeNotifier gom thông báo theo mức.
type fakeNotifier struct {
	mu       sync.Mutex
	successs []string
	warnings []string
	errors   []string
}

func (f *fakeNotifier) Success(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successs = append(f.successs, message)
}

func (f *fakeNotifier) Warning(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.warnings = append(f.warnings, message)
}

func (f *fakeNotifier) Error(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, message)
}

// fakeCache là Cache trong bộ nhớ cho test.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (f *fakeCache) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeCache) Set(key string, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

func (f *fakeCache) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
}

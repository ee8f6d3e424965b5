package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	congregationmodels "field_service/internal/api/congregation/models"
	territorymodels "field_service/internal/api/territory/models"
)

func newTestCongregation(name string) *congregationmodels.Congregation {
	return &congregationmodels.Congregation{
		ID:          primitive.NewObjectID(),
		Name:        name,
		MaxTries:    congregationmodels.DefaultMaxTries,
		ExpiryHours: congregationmodels.DefaultExpiryHours,
	}
}

// Không có role nào: trạng thái unauthorized, báo lỗi, và không fetch gì thêm.
func TestResolveUnauthorizedShortCircuit(t *testing.T) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	r := NewResolver(store, newFakeCache(), notifier)

	state, err := r.Resolve(context.Background(), primitive.NewObjectID())
	require.NoError(t, err)
	require.NotNil(t, state)

	assert.True(t, state.Unauthorized)
	assert.NotEmpty(t, notifier.errors)
	assert.Equal(t, 1, store.calls["RolesForUser"])
	assert.Zero(t, store.calls["CongregationDetail"])
	assert.Zero(t, store.calls["HouseholdTypes"])
	assert.Zero(t, store.calls["Territories"])
	assert.Zero(t, store.calls["HasAnyMap"])
}

// Cache trỏ congregation user không còn quyền: cache bị xóa và entry đầu
// trong danh sách quyền được chọn thay thế.
func TestResolveStaleCongregationCacheCleared(t *testing.T) {
	userID := primitive.NewObjectID()
	cong := newTestCongregation("Hội thánh A")
	store := newFakeStore()
	store.roles = []RoleGrant{{CongregationID: cong.ID, CongregationName: cong.Name, AccessLevel: "conductor"}}
	store.congregations[cong.ID] = cong

	cache := newFakeCache()
	cache.Set(congregationCacheKey(userID), primitive.NewObjectID().Hex()) // id không còn trong quyền

	r := NewResolver(store, cache, &fakeNotifier{})
	state, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)

	require.NotNil(t, state.Congregation)
	assert.Equal(t, cong.ID, state.Congregation.ID)
	assert.Equal(t, "conductor", state.AccessLevel)

	// Cache được ghi lại theo lựa chọn mới
	v, ok := cache.Get(congregationCacheKey(userID))
	require.True(t, ok)
	assert.Equal(t, cong.ID.Hex(), v)
}

// Cache hợp lệ được ưu tiên hơn entry đầu.
func TestResolvePrefersCachedCongregation(t *testing.T) {
	userID := primitive.NewObjectID()
	first := newTestCongregation("Hội thánh A")
	second := newTestCongregation("Hội thánh B")
	store := newFakeStore()
	store.roles = []RoleGrant{
		{CongregationID: first.ID, AccessLevel: "read-only"},
		{CongregationID: second.ID, AccessLevel: "administrator"},
	}
	store.congregations[first.ID] = first
	store.congregations[second.ID] = second

	cache := newFakeCache()
	cache.Set(congregationCacheKey(userID), second.ID.Hex())

	r := NewResolver(store, cache, &fakeNotifier{})
	state, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)

	require.NotNil(t, state.Congregation)
	assert.Equal(t, second.ID, state.Congregation.ID)
	assert.Equal(t, "administrator", state.AccessLevel)
}

// Congregation đã chọn không còn tồn tại: trạng thái not-found, dừng,
// không nạp tiếp dữ liệu phụ thuộc.
func TestResolveCongregationNotFoundTerminal(t *testing.T) {
	userID := primitive.NewObjectID()
	store := newFakeStore()
	store.roles = []RoleGrant{{CongregationID: primitive.NewObjectID(), AccessLevel: "administrator"}}

	notifier := &fakeNotifier{}
	r := NewResolver(store, newFakeCache(), notifier)
	state, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)

	assert.True(t, state.CongregationNotFound)
	assert.NotEmpty(t, notifier.warnings)
	assert.Zero(t, store.calls["HouseholdTypes"])
	assert.Zero(t, store.calls["Territories"])
}

// Khu vực đã cache chỉ được khôi phục khi còn trong tập vừa nạp;
// không còn thì cache bị xóa.
func TestResolveTerritoryCacheRestore(t *testing.T) {
	userID := primitive.NewObjectID()
	cong := newTestCongregation("Hội thánh A")
	territory := territorymodels.Territory{ID: primitive.NewObjectID(), Code: "A-01", OwnerCongregationID: cong.ID}

	store := newFakeStore()
	store.roles = []RoleGrant{{CongregationID: cong.ID, AccessLevel: "administrator"}}
	store.congregations[cong.ID] = cong
	store.territories = []territorymodels.Territory{territory}
	store.hasMaps = true

	cache := newFakeCache()
	cache.Set(territoryCacheKey(userID), territory.ID.Hex())

	r := NewResolver(store, cache, &fakeNotifier{})
	state, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)

	selected := state.Territories.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, territory.ID, selected.ID)

	// Lần hai với cache trỏ khu vực đã biến mất
	cache.Set(territoryCacheKey(userID), primitive.NewObjectID().Hex())
	state, err = r.Resolve(context.Background(), userID)
	require.NoError(t, err)
	assert.Nil(t, state.Territories.Selected())
	_, ok := cache.Get(territoryCacheKey(userID))
	assert.False(t, ok)
}

// Tập khu vực rỗng: HasMaps=false mà không gọi store.
func TestResolveEmptyTerritoriesSkipsMapCheck(t *testing.T) {
	userID := primitive.NewObjectID()
	cong := newTestCongregation("Hội thánh A")
	store := newFakeStore()
	store.roles = []RoleGrant{{CongregationID: cong.ID, AccessLevel: "read-only"}}
	store.congregations[cong.ID] = cong

	r := NewResolver(store, newFakeCache(), &fakeNotifier{})
	state, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)

	assert.False(t, state.HasMaps)
	assert.Zero(t, store.calls["HasAnyMap"])
}

// Loại hộ giữ nguyên thứ tự sequence store trả về.
func TestResolveHouseholdTypesProjected(t *testing.T) {
	userID := primitive.NewObjectID()
	cong := newTestCongregation("Hội thánh A")
	store := newFakeStore()
	store.roles = []RoleGrant{{CongregationID: cong.ID, AccessLevel: "read-only"}}
	store.congregations[cong.ID] = cong
	store.householdTypes = []congregationmodels.HouseholdType{
		{ID: primitive.NewObjectID(), Code: "NC", Sequence: 1},
		{ID: primitive.NewObjectID(), Code: "TK", Sequence: 2},
	}

	r := NewResolver(store, newFakeCache(), &fakeNotifier{})
	state, err := r.Resolve(context.Background(), userID)
	require.NoError(t, err)

	require.Len(t, state.HouseholdTypes, 2)
	assert.Equal(t, "NC", state.HouseholdTypes[0].Code)
	assert.Equal(t, "TK", state.HouseholdTypes[1].Code)
}

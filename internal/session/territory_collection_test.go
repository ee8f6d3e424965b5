package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	territorymodels "field_service/internal/api/territory/models"
	"field_service/internal/geo"
)

func newTestTerritory(code, name string) territorymodels.Territory {
	return territorymodels.Territory{
		ID:   primitive.NewObjectID(),
		Code: code,
		Name: name,
	}
}

// Sau UpdateCode trên khu vực đang chọn, cả con trỏ lẫn entry trong map
// cùng mang code mới; các entry khác không đổi.
func TestTerritoryCollectionDualStateRename(t *testing.T) {
	a := newTestTerritory("A-01", "Khu A")
	b := newTestTerritory("B-02", "Khu B")

	c := NewTerritoryCollection(&fakeNotifier{}, newFakeCache(), "test:territory")
	c.Process([]territorymodels.Territory{a, b})
	require.True(t, c.Select(a.ID))

	c.UpdateCode(a.ID, "A-99")

	selected := c.Selected()
	require.NotNil(t, selected)
	assert.Equal(t, "A-99", selected.Code)

	entry, ok := c.Entry(a.ID)
	require.True(t, ok)
	assert.Equal(t, "A-99", entry.Code)

	other, ok := c.Entry(b.ID)
	require.True(t, ok)
	assert.Equal(t, "B-02", other.Code)
}

// UpdateName giữ hai bản sao đồng bộ như UpdateCode.
func TestTerritoryCollectionDualStateNameUpdate(t *testing.T) {
	a := newTestTerritory("A-01", "Khu A")

	c := NewTerritoryCollection(&fakeNotifier{}, newFakeCache(), "test:territory")
	c.Process([]territorymodels.Territory{a})
	require.True(t, c.Select(a.ID))

	c.UpdateName(a.ID, "Khu A mới")

	assert.Equal(t, "Khu A mới", c.Selected().Name)
	entry, _ := c.Entry(a.ID)
	assert.Equal(t, "Khu A mới", entry.Name)
}

// Đổi code khu vực KHÔNG đang chọn không chạm vào con trỏ đang chọn.
func TestTerritoryCollectionRenameOtherLeavesSelection(t *testing.T) {
	a := newTestTerritory("A-01", "Khu A")
	b := newTestTerritory("B-02", "Khu B")

	c := NewTerritoryCollection(&fakeNotifier{}, newFakeCache(), "test:territory")
	c.Process([]territorymodels.Territory{a, b})
	require.True(t, c.Select(a.ID))

	c.UpdateCode(b.ID, "B-99")

	assert.Equal(t, "A-01", c.Selected().Code)
}

// ClearSelection bỏ lựa chọn và xóa khóa cache đã lưu.
func TestTerritoryCollectionClearSelection(t *testing.T) {
	a := newTestTerritory("A-01", "Khu A")
	cache := newFakeCache()

	c := NewTerritoryCollection(&fakeNotifier{}, cache, "test:territory")
	c.Process([]territorymodels.Territory{a})
	require.True(t, c.Select(a.ID))
	_, cached := cache.Get("test:territory")
	require.True(t, cached)

	c.ClearSelection()

	assert.Nil(t, c.Selected())
	_, cached = cache.Get("test:territory")
	assert.False(t, cached)
}

// WithSelection không có lựa chọn là no-op, không phải lỗi.
func TestTerritoryCollectionWithSelectionNoop(t *testing.T) {
	c := NewTerritoryCollection(&fakeNotifier{}, newFakeCache(), "test:territory")
	called := false
	err := c.WithSelection(func(id primitive.ObjectID) error {
		called = true
		return nil
	})
	assert.NoError(t, err)
	assert.False(t, called)
}

// WithSelection có lựa chọn: lỗi của fn được báo qua notifier và trả về.
func TestTerritoryCollectionWithSelectionError(t *testing.T) {
	a := newTestTerritory("A-01", "Khu A")
	notifier := &fakeNotifier{}

	c := NewTerritoryCollection(notifier, newFakeCache(), "test:territory")
	c.Process([]territorymodels.Territory{a})
	require.True(t, c.Select(a.ID))

	wantErr := errors.New("reset thất bại")
	err := c.WithSelection(func(id primitive.ObjectID) error {
		assert.Equal(t, a.ID, id)
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NotEmpty(t, notifier.errors)
}

// Process bỏ qua bản ghi thiếu id và vẫn giữ phần còn lại.
func TestTerritoryCollectionProcessTolerant(t *testing.T) {
	good := newTestTerritory("A-01", "Khu A")
	bad := territorymodels.Territory{Code: "hỏng"} // không có ID

	c := NewTerritoryCollection(&fakeNotifier{}, newFakeCache(), "test:territory")
	built := c.Process([]territorymodels.Territory{bad, good})

	assert.Len(t, built, 1)
	_, ok := c.Entry(good.ID)
	assert.True(t, ok)
}

// Boundary đủ 3 điểm hợp lệ mới sinh tâm khu vực.
func TestTerritoryCollectionBoundaryCenter(t *testing.T) {
	withBounds := newTestTerritory("A-01", "Khu A")
	withBounds.Boundary = []geo.Coordinate{{Lat: 0, Lng: 0}, {Lat: 0, Lng: 3}, {Lat: 3, Lng: 0}}
	without := newTestTerritory("B-02", "Khu B")
	without.Boundary = []geo.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}}

	c := NewTerritoryCollection(&fakeNotifier{}, newFakeCache(), "test:territory")
	c.Process([]territorymodels.Territory{withBounds, without})

	entry, _ := c.Entry(withBounds.ID)
	require.True(t, entry.HasBounds)
	assert.InDelta(t, 1.0, entry.Center.Lat, 1e-9)
	assert.InDelta(t, 1.0, entry.Center.Lng, 1e-9)

	entry, _ = c.Entry(without.ID)
	assert.False(t, entry.HasBounds)
	assert.Nil(t, entry.Center)
}

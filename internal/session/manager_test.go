package session

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/api/events"
	congregationmodels "field_service/internal/api/congregation/models"
	mapsmodels "field_service/internal/api/maps/models"
	territorymodels "field_service/internal/api/territory/models"
	"field_service/internal/geo"
	"field_service/internal/global"
	"field_service/internal/realtime"
)

// newManagerFixture dựng store với một congregation, một khu vực và một bản đồ,
// trả về manager móc vào hub thật cùng các id dùng trong test.
func newManagerFixture(t *testing.T) (*Manager, *fakeStore, primitive.ObjectID, primitive.ObjectID) {
	t.Helper()
	global.MongoDB_ColNames.TerritoryMaps = "territory_maps"

	userID := primitive.NewObjectID()
	congID := primitive.NewObjectID()
	territoryID := primitive.NewObjectID()

	store := newFakeStore()
	store.roles = []RoleGrant{{CongregationID: congID, CongregationName: "Hội thánh A", AccessLevel: "conductor"}}
	store.congregations[congID] = &congregationmodels.Congregation{ID: congID, Name: "Hội thánh A"}
	store.territories = []territorymodels.Territory{{ID: territoryID, OwnerCongregationID: congID, Code: "A-1"}}
	store.maps = []mapsmodels.TerritoryMap{newTestMap(territoryID, 1, 100)}
	store.hasMaps = true

	hub := realtime.NewHub()
	m := NewManager(hub, store, newFakeCache(), &fakeNotifier{})
	return m, store, userID, territoryID
}

func TestManagerStartOpensRealtimeSession(t *testing.T) {
	m, _, userID, territoryID := newManagerFixture(t)

	s, err := m.Start(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, s.Maps)
	require.NotNil(t, s.Locator)
	assert.False(t, s.State.Unauthorized)

	entries, err := m.SelectTerritory(context.Background(), s.ID, territoryID)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// CRUD phát qua hub phải chảy về collection của phiên
	created := newTestMap(territoryID, 2, 200)
	m.hub.Publish(context.Background(), events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.TerritoryMaps,
		Operation:      events.OpInsert,
		Document:       created,
		Version:        200,
	})
	waitForEntries(t, s, 2)
	assert.Equal(t, []int{1, 2}, sequences(s.Maps.Entries()))
}

func TestManagerStartUnauthorized(t *testing.T) {
	m, store, userID, _ := newManagerFixture(t)
	store.roles = nil

	s, err := m.Start(context.Background(), userID)
	require.NoError(t, err)
	assert.True(t, s.State.Unauthorized)
	assert.Nil(t, s.Maps, "phiên unauthorized không được mở subscription realtime")
	assert.Nil(t, s.Locator)
}

func TestManagerEndStopsRealtime(t *testing.T) {
	m, _, userID, territoryID := newManagerFixture(t)

	s, err := m.Start(context.Background(), userID)
	require.NoError(t, err)
	_, err = m.SelectTerritory(context.Background(), s.ID, territoryID)
	require.NoError(t, err)

	m.End(s.ID)
	m.End(s.ID) // đóng lại lần nữa vô hại

	if _, ok := m.Get(s.ID); ok {
		t.Fatal("phiên đã đóng không được còn trong manager")
	}

	// Sự kiện sau khi đóng không được chạm vào collection của phiên
	created := newTestMap(territoryID, 5, 300)
	m.hub.Publish(context.Background(), events.DataChangeEvent{
		CollectionName: global.MongoDB_ColNames.TerritoryMaps,
		Operation:      events.OpInsert,
		Document:       created,
		Version:        300,
	})
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, s.Maps.Entries(), 1)
}

func TestManagerPushPositionFeedsLocator(t *testing.T) {
	m, _, userID, _ := newManagerFixture(t)

	s, err := m.Start(context.Background(), userID)
	require.NoError(t, err)

	var got []geo.Coordinate
	done := make(chan struct{})
	require.NoError(t, s.Locator.StartWatch(func(pos geo.Coordinate) {
		got = append(got, pos)
		close(done)
	}))

	require.NoError(t, m.PushPosition(s.ID, geo.Coordinate{Lat: 10, Lng: 106}))
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fix từ client phải đến được locator của phiên")
	}
	require.Len(t, got, 1)
	assert.Equal(t, geo.Coordinate{Lat: 10, Lng: 106}, got[0])
}

func TestManagerPushPositionRejectsInvalid(t *testing.T) {
	m, _, userID, _ := newManagerFixture(t)

	s, err := m.Start(context.Background(), userID)
	require.NoError(t, err)

	err = m.PushPosition(s.ID, geo.Coordinate{Lat: math.NaN(), Lng: 106})
	assert.Error(t, err, "tọa độ NaN phải bị từ chối")

	err = m.PushPosition("không tồn tại", geo.Coordinate{Lat: 10, Lng: 106})
	assert.Error(t, err)
}

// waitForEntries chờ collection của phiên đạt đủ n entry hoặc timeout.
func waitForEntries(t *testing.T, s *UserSession, n int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(s.Maps.Entries()) >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("collection không đạt %d entry trong thời gian chờ", n)
}

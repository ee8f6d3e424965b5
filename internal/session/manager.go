package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"field_service/internal/common"
	"field_service/internal/geo"
	"field_service/internal/geolocate"
	"field_service/internal/logger"
	"field_service/internal/realtime"
)

// UserSession là một phiên làm việc admin do server giữ: kết quả bootstrap,
// collection bản đồ đang theo dõi realtime và locator nhận vị trí từ client.
type UserSession struct {
	ID     string
	UserID primitive.ObjectID

	State    *BootstrapState
	Maps     *MapCollection
	Locator  *geolocate.Locator
	provider *geolocate.ClientProvider
}

// Manager giữ các phiên làm việc đang mở, mỗi phiên một subscription realtime.
// Hub được móc vào luồng sự kiện trung tâm nên mọi CRUD qua base service
// tự chảy về các collection của phiên.
type Manager struct {
	hub      *realtime.Hub
	store    Store
	cache    Cache
	notifier Notifier
	resolver *Resolver

	mu       sync.RWMutex
	sessions map[string]*UserSession
}

// NewManager tạo manager với hub, store và cache được inject.
func NewManager(hub *realtime.Hub, store Store, cache Cache, notifier Notifier) *Manager {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Manager{
		hub:      hub,
		store:    store,
		cache:    cache,
		notifier: notifier,
		resolver: NewResolver(store, cache, notifier),
		sessions: make(map[string]*UserSession),
	}
}

// Start dựng một phiên làm việc mới cho user: bootstrap trạng thái, tạo
// collection bản đồ móc vào hub và locator nhận vị trí do client đẩy lên.
// Phiên unauthorized hoặc congregation-not-found vẫn được trả về (kèm trạng thái)
// nhưng không mở subscription realtime.
func (m *Manager) Start(ctx context.Context, userID primitive.ObjectID) (*UserSession, error) {
	state, err := m.resolver.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	s := &UserSession{
		ID:     uuid.NewString(),
		UserID: userID,
		State:  state,
	}

	if !state.Unauthorized && !state.CongregationNotFound {
		fallback := geo.DefaultMapCenter(nil, nil, state.Congregation.Origin)
		s.Maps = NewMapCollection(m.store, m.notifier, fallback)
		s.Maps.Watch(m.hub)

		s.provider = geolocate.NewClientProvider()
		s.Locator = geolocate.NewLocator(s.provider, func(err error) {
			m.notifier.Error(fmt.Sprintf("Lỗi định vị: %v", err))
		})
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	logger.GetAppLogger().WithFields(logrus.Fields{
		"sessionId":    s.ID,
		"userId":       userID.Hex(),
		"unauthorized": state.Unauthorized,
	}).Info("💬 [SESSION] Đã mở phiên làm việc")
	return s, nil
}

// Get trả về phiên theo id.
func (m *Manager) Get(id string) (*UserSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// SelectTerritory chuyển phiên sang một khu vực: cập nhật lựa chọn, nạp lại
// danh sách bản đồ và thử lấy vị trí ban đầu (bỏ qua nếu khu vực đã có boundary).
func (m *Manager) SelectTerritory(ctx context.Context, sessionID string, territoryID primitive.ObjectID) ([]MapEntry, error) {
	s, ok := m.Get(sessionID)
	if !ok || s.Maps == nil {
		return nil, common.NewError(common.ErrCodeValidationInput, "Phiên làm việc không tồn tại", common.StatusNotFound, nil)
	}

	territories := s.State.Territories
	if territories == nil || !territories.Select(territoryID) {
		return nil, common.NewError(common.ErrCodeValidationInput, "Khu vực không thuộc phiên làm việc", common.StatusNotFound, nil)
	}

	if err := s.Maps.Setup(ctx, territoryID); err != nil {
		return nil, err
	}

	// Boundary của khu vực lấy lại từ store - collection chỉ giữ hình chiếu.
	var boundary []geo.Coordinate
	if raw, err := m.store.Territories(ctx, s.State.Congregation.ID); err == nil {
		for _, t := range raw {
			if t.ID == territoryID {
				boundary = t.Boundary
				break
			}
		}
	}
	// Chạy nền: lấy fix ban đầu chờ client đẩy vị trí lên, không giữ request.
	go s.Locator.AcquireInitial(context.Background(), boundary)

	return s.Maps.Entries(), nil
}

// PushPosition nhận một fix vị trí do client đẩy lên cho phiên.
func (m *Manager) PushPosition(sessionID string, pos geo.Coordinate) error {
	s, ok := m.Get(sessionID)
	if !ok || s.provider == nil {
		return common.NewError(common.ErrCodeValidationInput, "Phiên làm việc không tồn tại", common.StatusNotFound, nil)
	}
	if !pos.IsValid() {
		return common.NewError(common.ErrCodeValidationInput, "Tọa độ không hợp lệ", common.StatusBadRequest, nil)
	}
	s.provider.Push(pos)
	return nil
}

// End kết thúc một phiên: hủy subscription realtime và phiên định vị.
// Gọi với id không tồn tại vô hại.
func (m *Manager) End(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if !ok {
		return
	}

	if s.Maps != nil {
		s.Maps.Stop()
	}
	if s.Locator != nil {
		s.Locator.Cancel()
	}
	logger.GetAppLogger().WithField("sessionId", id).Info("💬 [SESSION] Đã đóng phiên làm việc")
}

// Close đóng toàn bộ phiên đang mở. Gọi khi server shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.End(id)
	}
}

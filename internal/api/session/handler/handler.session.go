// Package sessionhdl - handler cho domain phiên làm việc.
package sessionhdl

import (
	"sort"
	"time"

	"github.com/gofiber/fiber/v3"

	basehdl "field_service/internal/api/base/handler"
	sessiondto "field_service/internal/api/session/dto"
	"field_service/internal/common"
	"field_service/internal/geo"
	"field_service/internal/realtime"
	"field_service/internal/session"
	"field_service/internal/utility"
)

// lastSelectionTTL là thời gian nhớ lựa chọn congregation/territory gần nhất.
const lastSelectionTTL = 30 * 24 * time.Hour

// SessionHandler xử lý các route phiên làm việc admin. Handler này giữ hub
// realtime và manager dùng chung cho cả process.
type SessionHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	Manager *session.Manager
}

// NewSessionHandler tạo SessionHandler cùng hub realtime và manager của process.
func NewSessionHandler() (*SessionHandler, error) {
	store, err := session.NewMongoStore()
	if err != nil {
		return nil, err
	}

	hub := realtime.NewHub()
	cache := session.NewMemoryCache(lastSelectionTTL)
	manager := session.NewManager(hub, store, cache, nil)

	return &SessionHandler{
		BaseHandler: &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		Manager:     manager,
	}, nil
}

// HandleStart mở phiên làm việc mới cho user đang đăng nhập.
func (h *SessionHandler) HandleStart(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userIDStr, ok := c.Locals("user_id").(string)
		if !ok || userIDStr == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthCredentials, "Không xác định được user", common.StatusUnauthorized, nil))
			return nil
		}

		s, err := h.Manager.Start(c.Context(), utility.String2ObjectID(userIDStr))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, snapshotOf(s), nil)
		return nil
	})
}

// HandleSnapshot trả về trạng thái hiện tại của phiên.
func (h *SessionHandler) HandleSnapshot(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := h.ownedSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, snapshotOf(s), nil)
		return nil
	})
}

// HandleSelectTerritory chuyển phiên sang một khu vực và trả về danh sách bản đồ.
func (h *SessionHandler) HandleSelectTerritory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := h.ownedSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		territoryID := c.Params("territoryId")
		if territoryID == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu territoryId", common.StatusBadRequest, nil))
			return nil
		}

		entries, err := h.Manager.SelectTerritory(c.Context(), s.ID, utility.String2ObjectID(territoryID))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, mapViews(entries), nil)
		return nil
	})
}

// HandleMaps trả về danh sách bản đồ hiện tại của phiên theo thứ tự hiển thị.
func (h *SessionHandler) HandleMaps(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := h.ownedSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if s.Maps == nil {
			h.HandleResponse(c, []sessiondto.MapView{}, nil)
			return nil
		}
		h.HandleResponse(c, mapViews(s.Maps.Entries()), nil)
		return nil
	})
}

// HandlePushPosition nhận một fix vị trí từ thiết bị của client.
func (h *SessionHandler) HandlePushPosition(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := h.ownedSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input sessiondto.PositionInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		if err := h.Manager.PushPosition(s.ID, geo.Coordinate{Lat: input.Lat, Lng: input.Lng}); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.HandleResponse(c, fiber.Map{"accepted": true}, nil)
		return nil
	})
}

// HandleEnd đóng phiên làm việc.
func (h *SessionHandler) HandleEnd(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		s, err := h.ownedSession(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		h.Manager.End(s.ID)
		h.HandleResponse(c, fiber.Map{"ended": true}, nil)
		return nil
	})
}

// ownedSession lấy phiên theo param id và kiểm tra phiên thuộc user đang đăng nhập.
func (h *SessionHandler) ownedSession(c fiber.Ctx) (*session.UserSession, error) {
	id := c.Params("id")
	if id == "" {
		return nil, common.NewError(common.ErrCodeValidationInput, "Thiếu id phiên làm việc", common.StatusBadRequest, nil)
	}
	s, ok := h.Manager.Get(id)
	if !ok {
		return nil, common.NewError(common.ErrCodeValidationInput, "Phiên làm việc không tồn tại", common.StatusNotFound, nil)
	}

	userIDStr, _ := c.Locals("user_id").(string)
	if userIDStr == "" || s.UserID != utility.String2ObjectID(userIDStr) {
		return nil, common.NewError(common.ErrCodeAuthRole, "Phiên làm việc không thuộc user này", common.StatusForbidden, nil)
	}
	return s, nil
}

// snapshotOf chiếu một phiên thành DTO trả về cho client.
func snapshotOf(s *session.UserSession) *sessiondto.Snapshot {
	snap := &sessiondto.Snapshot{
		SessionID:            s.ID,
		Unauthorized:         s.State.Unauthorized,
		CongregationNotFound: s.State.CongregationNotFound,
		HasMaps:              s.State.HasMaps,
	}

	for _, g := range s.State.Roles {
		snap.Roles = append(snap.Roles, sessiondto.RoleView{
			CongregationID:   g.CongregationID.Hex(),
			CongregationName: g.CongregationName,
			AccessLevel:      g.AccessLevel,
		})
	}

	if s.State.Congregation != nil {
		snap.CongregationID = s.State.Congregation.ID.Hex()
		snap.CongregationName = s.State.Congregation.Name
		snap.AccessLevel = s.State.AccessLevel
	}

	for _, ht := range s.State.HouseholdTypes {
		snap.HouseholdTypes = append(snap.HouseholdTypes, sessiondto.HouseholdTypeView{
			ID:          ht.ID.Hex(),
			Code:        ht.Code,
			Description: ht.Description,
			Sequence:    ht.Sequence,
		})
	}

	if s.State.Territories != nil {
		for _, entry := range s.State.Territories.Entries() {
			snap.Territories = append(snap.Territories, sessiondto.TerritoryView{
				ID:        entry.ID.Hex(),
				Code:      entry.Code,
				Name:      entry.Name,
				Progress:  entry.Progress,
				HasBounds: entry.HasBounds,
			})
		}
		sort.Slice(snap.Territories, func(i, j int) bool {
			return snap.Territories[i].Code < snap.Territories[j].Code
		})
		if selected := s.State.Territories.Selected(); selected != nil {
			snap.SelectedID = selected.ID.Hex()
		}
	}
	return snap
}

// mapViews chiếu danh sách MapEntry thành DTO, giữ nguyên thứ tự.
func mapViews(entries []session.MapEntry) []sessiondto.MapView {
	views := make([]sessiondto.MapView, 0, len(entries))
	for _, e := range entries {
		views = append(views, sessiondto.MapView{
			ID:           e.ID.Hex(),
			TerritoryID:  e.TerritoryID.Hex(),
			Sequence:     e.Sequence,
			Type:         e.Type,
			Name:         e.Name,
			Location:     e.Location,
			Lat:          e.Coordinates.Lat,
			Lng:          e.Coordinates.Lng,
			Progress:     e.Progress,
			NotDoneCount: e.NotDoneCount,
			NotHomeCount: e.NotHomeCount,
		})
	}
	return views
}

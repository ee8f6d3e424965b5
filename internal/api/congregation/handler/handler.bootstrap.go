// Handler bootstrap phiên làm việc admin: resolve quyền, congregation ban đầu
// và dữ liệu phụ thuộc qua lớp session.
package congregationhdl

import (
	"time"

	basehdl "field_service/internal/api/base/handler"
	"field_service/internal/common"
	"field_service/internal/session"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BootstrapHandler trả về trạng thái khởi tạo cho admin sau đăng nhập.
type BootstrapHandler struct {
	*basehdl.BaseHandler[interface{}, interface{}, interface{}]
	resolver *session.Resolver
}

// NewBootstrapHandler dựng resolver với store Mongo và cache trong process.
// Cache sống cùng handler - lựa chọn gần nhất tồn tại đến khi server restart.
func NewBootstrapHandler() (*BootstrapHandler, error) {
	store, err := session.NewMongoStore()
	if err != nil {
		return nil, err
	}
	cache := session.NewMemoryCache(30 * 24 * time.Hour)
	return &BootstrapHandler{
		BaseHandler: &basehdl.BaseHandler[interface{}, interface{}, interface{}]{},
		resolver:    session.NewResolver(store, cache, session.LogNotifier{}),
	}, nil
}

// bootstrapResponse là hình chiếu JSON của BootstrapState.
type bootstrapResponse struct {
	Congregation   interface{}                  `json:"congregation"`
	AccessLevel    string                       `json:"accessLevel"`
	Roles          []bootstrapRole              `json:"roles"`
	HouseholdTypes []session.HouseholdTypeEntry `json:"householdTypes"`
	Territories    []session.TerritoryEntry     `json:"territories"`
	SelectedID     *primitive.ObjectID          `json:"selectedTerritoryId,omitempty"`
	HasMaps        bool                         `json:"hasMaps"`
}

type bootstrapRole struct {
	CongregationID   primitive.ObjectID `json:"congregationId"`
	CongregationName string             `json:"congregationName"`
	AccessLevel      string             `json:"accessLevel"`
}

// HandleBootstrap resolve phiên làm việc của user hiện tại.
// Unauthorized trả 403, congregation biến mất trả 404 - hai trạng thái kết thúc.
func (h *BootstrapHandler) HandleBootstrap(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userIDStr, ok := c.Locals("user_id").(string)
		if !ok || userIDStr == "" {
			h.HandleResponse(c, nil, common.ErrTokenMissing)
			return nil
		}
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}

		state, err := h.resolver.Resolve(c.Context(), userID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if state.Unauthorized {
			h.HandleResponse(c, nil, common.ErrNoCongregation)
			return nil
		}
		if state.CongregationNotFound {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeBusinessOperation, "Hội thánh đã chọn không còn tồn tại", common.StatusNotFound, nil))
			return nil
		}

		resp := bootstrapResponse{
			Congregation:   state.Congregation,
			AccessLevel:    state.AccessLevel,
			Roles:          make([]bootstrapRole, 0, len(state.Roles)),
			HouseholdTypes: state.HouseholdTypes,
			Territories:    make([]session.TerritoryEntry, 0),
			HasMaps:        state.HasMaps,
		}
		for _, g := range state.Roles {
			resp.Roles = append(resp.Roles, bootstrapRole{
				CongregationID:   g.CongregationID,
				CongregationName: g.CongregationName,
				AccessLevel:      g.AccessLevel,
			})
		}
		for _, entry := range state.Territories.Entries() {
			resp.Territories = append(resp.Territories, entry)
		}
		if selected := state.Territories.Selected(); selected != nil {
			resp.SelectedID = &selected.ID
		}

		h.HandleResponse(c, resp, nil)
		return nil
	})
}

// Package congregationhdl - handler loại hộ gia đình.
package congregationhdl

import (
	basehdl "field_service/internal/api/base/handler"
	congregationdto "field_service/internal/api/congregation/dto"
	models "field_service/internal/api/congregation/models"
	congregationsvc "field_service/internal/api/congregation/service"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
)

// HouseholdTypeHandler xử lý các route liên quan đến loại hộ gia đình
type HouseholdTypeHandler struct {
	*basehdl.BaseHandler[models.HouseholdType, congregationdto.HouseholdTypeCreateInput, congregationdto.HouseholdTypeUpdateInput]
	HouseholdTypeService *congregationsvc.HouseholdTypeService
}

// NewHouseholdTypeHandler tạo một instance mới của HouseholdTypeHandler
func NewHouseholdTypeHandler() (*HouseholdTypeHandler, error) {
	householdTypeService, err := congregationsvc.NewHouseholdTypeService()
	if err != nil {
		return nil, err
	}

	handler := &HouseholdTypeHandler{
		HouseholdTypeService: householdTypeService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.HouseholdType, congregationdto.HouseholdTypeCreateInput, congregationdto.HouseholdTypeUpdateInput](householdTypeService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleListSorted trả về các loại hộ của congregation đang hoạt động, sắp theo sequence
func (h *HouseholdTypeHandler) HandleListSorted(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		congregationID := h.GetActiveCongregationID(c)
		if congregationID == nil {
			h.HandleResponse(c, nil, common.ErrNoCongregation)
			return nil
		}

		types, err := h.HouseholdTypeService.ListSorted(c.Context(), *congregationID)
		h.HandleResponse(c, types, err)
		return nil
	})
}

// Package mapshdl - handler hộ trong bản đồ.
package mapshdl

import (
	basehdl "field_service/internal/api/base/handler"
	mapsdto "field_service/internal/api/maps/dto"
	models "field_service/internal/api/maps/models"
	mapssvc "field_service/internal/api/maps/service"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MapUnitHandler xử lý các route liên quan đến hộ trong bản đồ
type MapUnitHandler struct {
	*basehdl.BaseHandler[models.MapUnit, mapsdto.UnitCreateInput, mapsdto.UnitUpdateInput]
	MapUnitService *mapssvc.MapUnitService
}

// NewMapUnitHandler tạo một instance mới của MapUnitHandler
func NewMapUnitHandler() (*MapUnitHandler, error) {
	unitService, err := mapssvc.NewMapUnitService()
	if err != nil {
		return nil, err
	}

	handler := &MapUnitHandler{
		MapUnitService: unitService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.MapUnit, mapsdto.UnitCreateInput, mapsdto.UnitUpdateInput](unitService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleUpdateStatus cập nhật trạng thái một hộ (kèm ràng buộc not-home)
func (h *MapUnitHandler) HandleUpdateStatus(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		idStr := h.GetIDFromContext(c)
		id, err := primitive.ObjectIDFromHex(idStr)
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateCongregationAccess(c, idStr); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input mapsdto.UnitStatusInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		unit, err := h.MapUnitService.UpdateStatus(c.Context(), id, input.Status, input.Note)
		h.HandleResponse(c, unit, err)
		return nil
	})
}

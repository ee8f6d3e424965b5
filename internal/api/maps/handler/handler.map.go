// Package mapshdl - handler cho domain maps.
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

// MapHandler xử lý các route liên quan đến bản đồ
type MapHandler struct {
	*basehdl.BaseHandler[models.TerritoryMap, mapsdto.MapCreateInput, mapsdto.MapUpdateInput]
	MapService *mapssvc.MapService
}

// NewMapHandler tạo một instance mới của MapHandler
func NewMapHandler() (*MapHandler, error) {
	mapService, err := mapssvc.NewMapService()
	if err != nil {
		return nil, err
	}

	handler := &MapHandler{
		MapService: mapService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.TerritoryMap, mapsdto.MapCreateInput, mapsdto.MapUpdateInput](mapService.BaseServiceMongoImpl)
	return handler, nil
}

// mapIDFromParams đọc :id, validate định dạng và quyền truy cập congregation sở hữu.
func (h *MapHandler) mapIDFromParams(c fiber.Ctx) (primitive.ObjectID, error) {
	idStr := h.GetIDFromContext(c)
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		return primitive.NilObjectID, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err)
	}
	if err := h.ValidateCongregationAccess(c, idStr); err != nil {
		return primitive.NilObjectID, err
	}
	return id, nil
}

// HandleListByTerritory trả về các bản đồ của một khu vực, sắp theo sequence
func (h *MapHandler) HandleListByTerritory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		territoryID, err := primitive.ObjectIDFromHex(c.Params("territoryId"))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID khu vực không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		maps, err := h.MapService.ListByTerritory(c.Context(), territoryID)
		h.HandleResponse(c, maps, err)
		return nil
	})
}

// HandleUpdateSequences cập nhật thứ tự hiển thị cho nhiều bản đồ cùng lúc
func (h *MapHandler) HandleUpdateSequences(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input mapsdto.MapSequenceUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		changed, err := h.MapService.UpdateSequences(c.Context(), input.Items)
		h.HandleResponse(c, fiber.Map{"changed": changed}, err)
		return nil
	})
}

// HandleMoveToTerritory chuyển bản đồ sang khu vực khác theo mã khu vực đích
func (h *MapHandler) HandleMoveToTerritory(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.mapIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input mapsdto.MoveToTerritoryInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		targetCode, err := h.MapService.MoveToTerritory(c.Context(), id, input.TargetCode)
		h.HandleResponse(c, fiber.Map{"mapId": id.Hex(), "targetCode": targetCode}, err)
		return nil
	})
}

// HandleAddFloor thêm một tầng vào bản đồ multi
func (h *MapHandler) HandleAddFloor(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.mapIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input mapsdto.FloorAddInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		units, err := h.MapService.AddFloor(c.Context(), id, input.Floor, input.UnitCodes)
		h.HandleResponse(c, units, err)
		return nil
	})
}

// HandleRemoveFloor gỡ một tầng khỏi bản đồ multi
func (h *MapHandler) HandleRemoveFloor(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.mapIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input mapsdto.FloorRemoveInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		deleted, err := h.MapService.RemoveFloor(c.Context(), id, input.Floor)
		h.HandleResponse(c, fiber.Map{"deleted": deleted}, err)
		return nil
	})
}

// HandleUnitsByFloor trả về các hộ của bản đồ gom theo tầng (tầng cao trước)
func (h *MapHandler) HandleUnitsByFloor(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.mapIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		groups, err := h.MapService.GroupUnitsByFloor(c.Context(), id)
		h.HandleResponse(c, groups, err)
		return nil
	})
}

// Package territoryhdl - handler cho domain territory.
package territoryhdl

import (
	basehdl "field_service/internal/api/base/handler"
	territorydto "field_service/internal/api/territory/dto"
	models "field_service/internal/api/territory/models"
	territorysvc "field_service/internal/api/territory/service"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TerritoryHandler xử lý các route liên quan đến khu vực
type TerritoryHandler struct {
	*basehdl.BaseHandler[models.Territory, territorydto.TerritoryCreateInput, territorydto.TerritoryUpdateInput]
	TerritoryService *territorysvc.TerritoryService
}

// NewTerritoryHandler tạo một instance mới của TerritoryHandler
func NewTerritoryHandler() (*TerritoryHandler, error) {
	territoryService, err := territorysvc.NewTerritoryService()
	if err != nil {
		return nil, err
	}

	handler := &TerritoryHandler{
		TerritoryService: territoryService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.Territory, territorydto.TerritoryCreateInput, territorydto.TerritoryUpdateInput](territoryService.BaseServiceMongoImpl)
	return handler, nil
}

// territoryIDFromParams đọc và validate :id, đồng thời kiểm tra quyền trên congregation sở hữu.
func (h *TerritoryHandler) territoryIDFromParams(c fiber.Ctx) (primitive.ObjectID, error) {
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

// HandleListSorted trả về các khu vực của congregation đang hoạt động, sắp theo mã
func (h *TerritoryHandler) HandleListSorted(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		congregationID := h.GetActiveCongregationID(c)
		if congregationID == nil {
			h.HandleResponse(c, nil, common.ErrNoCongregation)
			return nil
		}

		territories, err := h.TerritoryService.ListSorted(c.Context(), *congregationID)
		h.HandleResponse(c, territories, err)
		return nil
	})
}

// HandleRename đổi mã/tên khu vực trong một thao tác
func (h *TerritoryHandler) HandleRename(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.territoryIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input territorydto.TerritoryRenameInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		territory, err := h.TerritoryService.Rename(c.Context(), id, input.Code, input.Name)
		h.HandleResponse(c, territory, err)
		return nil
	})
}

// HandleReset đưa toàn bộ hộ trong khu vực về trạng thái đầu đợt
func (h *TerritoryHandler) HandleReset(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.territoryIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.TerritoryService.Reset(c.Context(), id)
		h.HandleResponse(c, fiber.Map{"territoryId": id.Hex()}, err)
		return nil
	})
}

// HandleRecomputeProgress tính lại tiến độ khu vực từ các bản đồ
func (h *TerritoryHandler) HandleRecomputeProgress(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.territoryIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		progress, err := h.TerritoryService.RecomputeProgress(c.Context(), id)
		h.HandleResponse(c, fiber.Map{"territoryId": id.Hex(), "progress": progress}, err)
		return nil
	})
}

// HandleDeleteCascade xóa khu vực cùng bản đồ và hộ bên trong
func (h *TerritoryHandler) HandleDeleteCascade(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := h.territoryIDFromParams(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.TerritoryService.DeleteCascade(c.Context(), id)
		h.HandleResponse(c, fiber.Map{"territoryId": id.Hex()}, err)
		return nil
	})
}

// Package congregationhdl - handler cho domain congregation.
package congregationhdl

import (
	authmodels "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	basehdl "field_service/internal/api/base/handler"
	congregationdto "field_service/internal/api/congregation/dto"
	models "field_service/internal/api/congregation/models"
	congregationsvc "field_service/internal/api/congregation/service"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CongregationHandler xử lý các route liên quan đến congregation
type CongregationHandler struct {
	*basehdl.BaseHandler[models.Congregation, congregationdto.CongregationCreateInput, congregationdto.CongregationUpdateInput]
	CongregationService *congregationsvc.CongregationService
}

// NewCongregationHandler tạo một instance mới của CongregationHandler
func NewCongregationHandler() (*CongregationHandler, error) {
	congregationService, err := congregationsvc.NewCongregationService()
	if err != nil {
		return nil, err
	}

	handler := &CongregationHandler{
		CongregationService: congregationService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.Congregation, congregationdto.CongregationCreateInput, congregationdto.CongregationUpdateInput](congregationService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleCreate tạo congregation mới, người tạo trở thành administrator đầu tiên
func (h *CongregationHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input congregationdto.CongregationCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

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

		congregation, err := h.CongregationService.Create(c.Context(), &input, userID)
		h.HandleResponse(c, congregation, err)
		return nil
	})
}

// HandleMyCongregations trả về các congregation mà user hiện tại có role
func (h *CongregationHandler) HandleMyCongregations(c fiber.Ctx) error {
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

		allowedIDs, err := authsvc.GetAllowedCongregationIDs(c.Context(), userID)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		congregations, err := h.CongregationService.FindByIDs(c.Context(), allowedIDs)
		h.HandleResponse(c, congregations, err)
		return nil
	})
}

// HandleUpdateSettings cập nhật cấu hình congregation.
// Chỉ administrator của chính congregation đó mới được phép.
func (h *CongregationHandler) HandleUpdateSettings(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}

		userIDStr, _ := c.Locals("user_id").(string)
		userID, err := primitive.ObjectIDFromHex(userIDStr)
		if err != nil {
			h.HandleResponse(c, nil, common.ErrTokenInvalid)
			return nil
		}
		level, err := authsvc.GetAccessLevel(c.Context(), userID, id)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if level != authmodels.AccessLevelAdministrator {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeAuthRole, "Chỉ administrator của congregation mới được sửa cấu hình", common.StatusForbidden, nil))
			return nil
		}

		var input congregationdto.CongregationUpdateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		congregation, err := h.CongregationService.UpdateSettings(c.Context(), id, &input)
		h.HandleResponse(c, congregation, err)
		return nil
	})
}

// HandleGetDetail trả về chi tiết một congregation mà user có quyền truy cập
func (h *CongregationHandler) HandleGetDetail(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id, err := primitive.ObjectIDFromHex(h.GetIDFromContext(c))
		if err != nil {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat, "ID không hợp lệ", common.StatusBadRequest, err))
			return nil
		}
		if err := h.ValidateUserHasAccessToCongregation(c, id); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		congregation, err := h.CongregationService.GetSettings(c.Context(), id)
		h.HandleResponse(c, congregation, err)
		return nil
	})
}

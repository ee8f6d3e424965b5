// Package linkshdl - handler cho domain links.
package linkshdl

import (
	basehdl "field_service/internal/api/base/handler"
	linksdto "field_service/internal/api/links/dto"
	models "field_service/internal/api/links/models"
	linkssvc "field_service/internal/api/links/service"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
)

// ShareLinkHandler xử lý các route liên quan đến link chia sẻ
type ShareLinkHandler struct {
	*basehdl.BaseHandler[models.ShareLink, linksdto.ShareLinkCreateInput, linksdto.ShareLinkUpdateInput]
	ShareLinkService *linkssvc.ShareLinkService
}

// NewShareLinkHandler tạo một instance mới của ShareLinkHandler
func NewShareLinkHandler() (*ShareLinkHandler, error) {
	linkService, err := linkssvc.NewShareLinkService()
	if err != nil {
		return nil, err
	}

	handler := &ShareLinkHandler{
		ShareLinkService: linkService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.ShareLink, linksdto.ShareLinkCreateInput, linksdto.ShareLinkUpdateInput](linkService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleCreate tạo link chia sẻ cho một bản đồ
func (h *ShareLinkHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input linksdto.ShareLinkCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		link, err := h.ShareLinkService.Create(c.Context(), &input)
		h.HandleResponse(c, link, err)
		return nil
	})
}

// HandleResolve mở một link chia sẻ theo token - route public, không cần đăng nhập
func (h *ShareLinkHandler) HandleResolve(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		token := c.Params("token")
		if token == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu token", common.StatusBadRequest, nil))
			return nil
		}

		resolved, err := h.ShareLinkService.ResolveByToken(c.Context(), token)
		h.HandleResponse(c, resolved, err)
		return nil
	})
}

// HandleListByMap trả về các link còn hạn của một bản đồ
func (h *ShareLinkHandler) HandleListByMap(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		mapID := c.Params("mapId")
		if mapID == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "Thiếu mapId", common.StatusBadRequest, nil))
			return nil
		}

		links, err := h.ShareLinkService.ListByMap(c.Context(), mapID)
		h.HandleResponse(c, links, err)
		return nil
	})
}

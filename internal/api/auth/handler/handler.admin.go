// Package authhdl - handler quản trị (block/unblock user).
package authhdl

import (
	authdto "field_service/internal/api/auth/dto"
	models "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	basehdl "field_service/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// AdminHandler xử lý các route quản trị người dùng
type AdminHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	UserService *authsvc.UserService
}

// NewAdminHandler tạo một instance mới của AdminHandler
func NewAdminHandler() (*AdminHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}

	handler := &AdminHandler{
		UserService: userService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleBlockUser khóa người dùng theo email
func (h *AdminHandler) HandleBlockUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.BlockUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.UserService.BlockUser(c.Context(), input.Email, true, input.Note)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleUnBlockUser mở khóa người dùng theo email
func (h *AdminHandler) HandleUnBlockUser(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UnBlockUserInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.UserService.UnBlockUser(c.Context(), input.Email)
		h.HandleResponse(c, user, err)
		return nil
	})
}

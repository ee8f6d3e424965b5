// Package authhdl - handler vai trò người dùng (UserRole).
package authhdl

import (
	authdto "field_service/internal/api/auth/dto"
	models "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	basehdl "field_service/internal/api/base/handler"

	"github.com/gofiber/fiber/v3"
)

// UserRoleHandler xử lý các route liên quan đến vai trò người dùng
type UserRoleHandler struct {
	*basehdl.BaseHandler[models.UserRole, authdto.UserRoleCreateInput, authdto.UserRoleUpdateInput]
	UserRoleService *authsvc.UserRoleService
}

// NewUserRoleHandler tạo một instance mới của UserRoleHandler
func NewUserRoleHandler() (*UserRoleHandler, error) {
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, err
	}

	handler := &UserRoleHandler{
		UserRoleService: userRoleService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.UserRole, authdto.UserRoleCreateInput, authdto.UserRoleUpdateInput](userRoleService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleAssignRole gán role cho user trong một congregation (upsert theo user + congregation)
func (h *UserRoleHandler) HandleAssignRole(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.UserRoleCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		role, err := h.UserRoleService.AssignRole(c.Context(), &input)
		h.HandleResponse(c, role, err)
		return nil
	})
}

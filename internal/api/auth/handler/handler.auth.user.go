// Package authhdl - handler người dùng (đăng ký, đăng nhập, hồ sơ).
package authhdl

import (
	authdto "field_service/internal/api/auth/dto"
	models "field_service/internal/api/auth/models"
	authsvc "field_service/internal/api/auth/service"
	basehdl "field_service/internal/api/base/handler"
	"field_service/internal/common"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler xử lý các route liên quan đến người dùng
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput]
	UserService     *authsvc.UserService
	UserRoleService *authsvc.UserRoleService
}

// NewUserHandler tạo một instance mới của UserHandler
func NewUserHandler() (*UserHandler, error) {
	userService, err := authsvc.NewUserService()
	if err != nil {
		return nil, err
	}
	userRoleService, err := authsvc.NewUserRoleService()
	if err != nil {
		return nil, err
	}

	handler := &UserHandler{
		UserService:     userService,
		UserRoleService: userRoleService,
	}
	handler.BaseHandler = basehdl.NewBaseHandler[models.User, authdto.UserCreateInput, authdto.UserUpdateInput](userService.BaseServiceMongoImpl)
	return handler, nil
}

// currentUserID lấy userID của user đang đăng nhập từ context.
func (h *UserHandler) currentUserID(c fiber.Ctx) (primitive.ObjectID, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok || userIDStr == "" {
		return primitive.NilObjectID, common.ErrTokenMissing
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		return primitive.NilObjectID, common.ErrTokenInvalid
	}
	return userID, nil
}

// HandleRegister đăng ký tài khoản mới
func (h *UserHandler) HandleRegister(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.RegisterInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.UserService.Register(c.Context(), &input)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleLogin đăng nhập bằng email + password
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input authdto.LoginInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		result, err := h.UserService.Login(c.Context(), &input)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleLogout đăng xuất (thu hồi token của thiết bị hiện tại)
func (h *UserHandler) HandleLogout(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input authdto.UserLogoutInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.UserService.Logout(c.Context(), userID, &input)
		h.HandleResponse(c, fiber.Map{"loggedOut": err == nil}, err)
		return nil
	})
}

// HandleProfile trả về thông tin user đang đăng nhập
func (h *UserHandler) HandleProfile(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.UserService.FindOneById(c.Context(), userID)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleMyRoles trả về danh sách role của user đang đăng nhập
func (h *UserHandler) HandleMyRoles(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		roles, err := h.UserRoleService.GetRolesForUser(c.Context(), userID)
		h.HandleResponse(c, roles, err)
		return nil
	})
}

// HandleChangeInfo thay đổi thông tin hiển thị của user đang đăng nhập
func (h *UserHandler) HandleChangeInfo(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input authdto.UserChangeInfoInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		user, err := h.UserService.ChangeInfo(c.Context(), userID, &input)
		h.HandleResponse(c, user, err)
		return nil
	})
}

// HandleChangePassword đổi mật khẩu của user đang đăng nhập
func (h *UserHandler) HandleChangePassword(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		userID, err := h.currentUserID(c)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		var input authdto.UserChangePasswordInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err = h.UserService.ChangePassword(c.Context(), userID, &input)
		h.HandleResponse(c, fiber.Map{"changed": err == nil}, err)
		return nil
	})
}

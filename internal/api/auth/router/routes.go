// Package router đăng ký các route thuộc domain auth: Auth, User, UserRole, Admin, System.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authhdl "field_service/internal/api/auth/handler"
	basehdl "field_service/internal/api/base/handler"
	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
)

// Register đăng ký tất cả route auth lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	if err := registerSystemRoutes(v1); err != nil {
		return err
	}
	if err := registerAuthRoutes(v1); err != nil {
		return err
	}
	if err := registerUserRoleRoutes(v1, r); err != nil {
		return err
	}
	if err := registerAdminRoutes(v1); err != nil {
		return err
	}
	return nil
}

func registerSystemRoutes(router fiber.Router) error {
	systemHandler, err := basehdl.NewSystemHandler()
	if err != nil {
		return fmt.Errorf("failed to create system handler: %w", err)
	}
	router.Get("/system/health", systemHandler.HandleHealth)
	return nil
}

func registerAuthRoutes(router fiber.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}

	// Route public: không cần token
	router.Post("/auth/register", userHandler.HandleRegister)
	router.Post("/auth/login", userHandler.HandleLogin)

	// Route cần đăng nhập (chỉ xác thực, không yêu cầu congregation)
	authOnlyMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "POST", "/logout", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleLogout)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/profile", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleProfile)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "GET", "/my-roles", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleMyRoles)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/change-info", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleChangeInfo)
	apirouter.RegisterRouteWithMiddleware(router, "/auth", "PUT", "/change-password", []fiber.Handler{authOnlyMiddleware}, userHandler.HandleChangePassword)
	return nil
}

func registerUserRoleRoutes(router fiber.Router, r *apirouter.Router) error {
	userHandler, err := authhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("failed to create user handler: %w", err)
	}
	r.RegisterCRUDRoutes(router, "/user", userHandler, apirouter.ReadOnlyConfig, apirouter.AdminWriteAccess)

	userRoleHandler, err := authhdl.NewUserRoleHandler()
	if err != nil {
		return fmt.Errorf("failed to create user role handler: %w", err)
	}
	assignRoleMiddleware := middleware.AuthMiddleware("administrator")
	apirouter.RegisterRouteWithMiddleware(router, "/user-role", "POST", "/assign", []fiber.Handler{assignRoleMiddleware}, userRoleHandler.HandleAssignRole)
	r.RegisterCRUDRoutes(router, "/user-role", userRoleHandler, apirouter.ReadOnlyConfig, apirouter.AdminWriteAccess)
	return nil
}

func registerAdminRoutes(router fiber.Router) error {
	adminHandler, err := authhdl.NewAdminHandler()
	if err != nil {
		return fmt.Errorf("failed to create admin handler: %w", err)
	}
	blockMiddleware := middleware.AuthMiddleware("administrator")
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/block", []fiber.Handler{blockMiddleware}, adminHandler.HandleBlockUser)
	apirouter.RegisterRouteWithMiddleware(router, "/admin/user", "POST", "/unblock", []fiber.Handler{blockMiddleware}, adminHandler.HandleUnBlockUser)
	return nil
}

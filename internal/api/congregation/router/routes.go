// Package router đăng ký các route thuộc domain congregation.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	congregationhdl "field_service/internal/api/congregation/handler"
	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
)

// Register đăng ký các route congregation và household type lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	congregationHandler, err := congregationhdl.NewCongregationHandler()
	if err != nil {
		return fmt.Errorf("failed to create congregation handler: %w", err)
	}

	// Congregation không đi qua CRUD chung: Find sẽ lộ mọi tenant.
	// Chỉ expose các route có kiểm soát quyền truy cập rõ ràng.
	authOnlyMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(v1, "/congregation", "POST", "/create", []fiber.Handler{authOnlyMiddleware}, congregationHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/congregation", "GET", "/my", []fiber.Handler{authOnlyMiddleware}, congregationHandler.HandleMyCongregations)
	apirouter.RegisterRouteWithMiddleware(v1, "/congregation", "GET", "/detail/:id", []fiber.Handler{authOnlyMiddleware}, congregationHandler.HandleGetDetail)

	apirouter.RegisterRouteWithMiddleware(v1, "/congregation", "PUT", "/settings/:id", []fiber.Handler{authOnlyMiddleware}, congregationHandler.HandleUpdateSettings)

	bootstrapHandler, err := congregationhdl.NewBootstrapHandler()
	if err != nil {
		return fmt.Errorf("failed to create bootstrap handler: %w", err)
	}
	// Bootstrap tự resolve quyền theo user nên chỉ cần đăng nhập
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "GET", "/bootstrap", []fiber.Handler{authOnlyMiddleware}, bootstrapHandler.HandleBootstrap)

	householdTypeHandler, err := congregationhdl.NewHouseholdTypeHandler()
	if err != nil {
		return fmt.Errorf("failed to create household type handler: %w", err)
	}
	congContextMiddleware := middleware.CongregationContextMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/household-type", "GET", "/list", []fiber.Handler{middleware.AuthMiddleware("read-only"), congContextMiddleware}, householdTypeHandler.HandleListSorted)
	r.RegisterCRUDRoutes(v1, "/household-type", householdTypeHandler, apirouter.ReadWriteConfig, apirouter.AdminWriteAccess)
	return nil
}

// Package router đăng ký các route thuộc domain territory.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
	territoryhdl "field_service/internal/api/territory/handler"
)

// Register đăng ký các route territory lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	territoryHandler, err := territoryhdl.NewTerritoryHandler()
	if err != nil {
		return fmt.Errorf("failed to create territory handler: %w", err)
	}

	congContextMiddleware := middleware.CongregationContextMiddleware()
	readMiddleware := middleware.AuthMiddleware("read-only")
	adminMiddleware := middleware.AuthMiddleware("administrator")

	apirouter.RegisterRouteWithMiddleware(v1, "/territory", "GET", "/list", []fiber.Handler{readMiddleware, congContextMiddleware}, territoryHandler.HandleListSorted)
	apirouter.RegisterRouteWithMiddleware(v1, "/territory", "PUT", "/rename/:id", []fiber.Handler{adminMiddleware, congContextMiddleware}, territoryHandler.HandleRename)
	apirouter.RegisterRouteWithMiddleware(v1, "/territory", "POST", "/reset/:id", []fiber.Handler{adminMiddleware, congContextMiddleware}, territoryHandler.HandleReset)
	apirouter.RegisterRouteWithMiddleware(v1, "/territory", "POST", "/recompute-progress/:id", []fiber.Handler{readMiddleware, congContextMiddleware}, territoryHandler.HandleRecomputeProgress)
	apirouter.RegisterRouteWithMiddleware(v1, "/territory", "DELETE", "/cascade/:id", []fiber.Handler{adminMiddleware, congContextMiddleware}, territoryHandler.HandleDeleteCascade)

	r.RegisterCRUDRoutes(v1, "/territory", territoryHandler, apirouter.ReadWriteConfig, apirouter.AdminWriteAccess)
	return nil
}

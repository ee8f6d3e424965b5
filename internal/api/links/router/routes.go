// Package router đăng ký các route thuộc domain links.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	linkshdl "field_service/internal/api/links/handler"
	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
)

// Register đăng ký các route link chia sẻ lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	linkHandler, err := linkshdl.NewShareLinkHandler()
	if err != nil {
		return fmt.Errorf("failed to create share link handler: %w", err)
	}

	// Resolve là route public: người nhận link không có tài khoản
	v1.Get("/link/resolve/:token", linkHandler.HandleResolve)

	congContextMiddleware := middleware.CongregationContextMiddleware()
	conductorMiddleware := middleware.AuthMiddleware("conductor")
	apirouter.RegisterRouteWithMiddleware(v1, "/link", "POST", "/create", []fiber.Handler{conductorMiddleware, congContextMiddleware}, linkHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/link", "GET", "/by-map/:mapId", []fiber.Handler{conductorMiddleware, congContextMiddleware}, linkHandler.HandleListByMap)

	r.RegisterCRUDRoutes(v1, "/link", linkHandler, apirouter.ReadOnlyConfig, apirouter.ConductorWriteAccess)
	return nil
}

// Package router đăng ký các route thuộc domain phiên làm việc.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
	sessionhdl "field_service/internal/api/session/handler"
)

// Register đăng ký các route phiên làm việc lên v1.
// Phiên mở được với mọi mức truy cập - bootstrap tự trả về unauthorized
// khi user chưa được gán congregation nào.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	sessionHandler, err := sessionhdl.NewSessionHandler()
	if err != nil {
		return fmt.Errorf("failed to create session handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware("")
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "POST", "/start", []fiber.Handler{authMiddleware}, sessionHandler.HandleStart)
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "GET", "/:id", []fiber.Handler{authMiddleware}, sessionHandler.HandleSnapshot)
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "GET", "/:id/maps", []fiber.Handler{authMiddleware}, sessionHandler.HandleMaps)
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "POST", "/:id/territory/:territoryId", []fiber.Handler{authMiddleware}, sessionHandler.HandleSelectTerritory)
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "POST", "/:id/position", []fiber.Handler{authMiddleware}, sessionHandler.HandlePushPosition)
	apirouter.RegisterRouteWithMiddleware(v1, "/session", "DELETE", "/:id", []fiber.Handler{authMiddleware}, sessionHandler.HandleEnd)
	return nil
}

// Package router đăng ký các route thuộc domain Delivery: Send, History.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	authmodels "field_service/internal/api/auth/models"
	deliveryhdl "field_service/internal/api/delivery/handler"
	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
)

// Register đăng ký tất cả route delivery lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	sendHandler, err := deliveryhdl.NewDeliverySendHandler()
	if err != nil {
		return fmt.Errorf("create delivery send handler: %w", err)
	}
	// Gửi thông báo thủ công là việc của administrator
	sendMiddleware := middleware.AuthMiddleware(authmodels.AccessLevelAdministrator)
	congContextMiddleware := middleware.CongregationContextMiddleware()
	apirouter.RegisterRouteWithMiddleware(v1, "/delivery", "POST", "/send", []fiber.Handler{sendMiddleware, congContextMiddleware}, sendHandler.HandleSend)

	historyHandler, err := deliveryhdl.NewDeliveryHistoryHandler()
	if err != nil {
		return fmt.Errorf("create delivery history handler: %w", err)
	}
	r.RegisterCRUDRoutes(v1, "/delivery/history", historyHandler, apirouter.ReadOnlyConfig, apirouter.AdminWriteAccess)
	return nil
}

// Package router đăng ký các route thuộc domain maps.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	mapshdl "field_service/internal/api/maps/handler"
	"field_service/internal/api/middleware"
	apirouter "field_service/internal/api/router"
)

// Register đăng ký các route bản đồ và hộ lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	mapHandler, err := mapshdl.NewMapHandler()
	if err != nil {
		return fmt.Errorf("failed to create map handler: %w", err)
	}

	congContextMiddleware := middleware.CongregationContextMiddleware()
	readMiddleware := middleware.AuthMiddleware("read-only")
	conductorMiddleware := middleware.AuthMiddleware("conductor")
	adminMiddleware := middleware.AuthMiddleware("administrator")

	apirouter.RegisterRouteWithMiddleware(v1, "/map", "GET", "/by-territory/:territoryId", []fiber.Handler{readMiddleware, congContextMiddleware}, mapHandler.HandleListByTerritory)
	apirouter.RegisterRouteWithMiddleware(v1, "/map", "PUT", "/sequences", []fiber.Handler{adminMiddleware, congContextMiddleware}, mapHandler.HandleUpdateSequences)
	apirouter.RegisterRouteWithMiddleware(v1, "/map", "POST", "/move-to-territory/:id", []fiber.Handler{adminMiddleware, congContextMiddleware}, mapHandler.HandleMoveToTerritory)
	apirouter.RegisterRouteWithMiddleware(v1, "/map", "POST", "/floor/:id", []fiber.Handler{adminMiddleware, congContextMiddleware}, mapHandler.HandleAddFloor)
	apirouter.RegisterRouteWithMiddleware(v1, "/map", "DELETE", "/floor/:id", []fiber.Handler{adminMiddleware, congContextMiddleware}, mapHandler.HandleRemoveFloor)
	apirouter.RegisterRouteWithMiddleware(v1, "/map", "GET", "/units-by-floor/:id", []fiber.Handler{readMiddleware, congContextMiddleware}, mapHandler.HandleUnitsByFloor)
	r.RegisterCRUDRoutes(v1, "/map", mapHandler, apirouter.ReadWriteConfig, apirouter.AdminWriteAccess)

	unitHandler, err := mapshdl.NewMapUnitHandler()
	if err != nil {
		return fmt.Errorf("failed to create map unit handler: %w", err)
	}
	// Đổi trạng thái hộ là thao tác rao giảng thường ngày - conductor là đủ
	apirouter.RegisterRouteWithMiddleware(v1, "/map-unit", "PUT", "/status/:id", []fiber.Handler{conductorMiddleware, congContextMiddleware}, unitHandler.HandleUpdateStatus)
	r.RegisterCRUDRoutes(v1, "/map-unit", unitHandler, apirouter.ReadWriteConfig, apirouter.ConductorWriteAccess)
	return nil
}

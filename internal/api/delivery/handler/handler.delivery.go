// Package deliveryhdl chứa HTTP handler cho domain Delivery (send, history).
// File: handler.delivery.go - giữ tên cấu trúc cũ (handler.<domain>.go).
package deliveryhdl

import (
	"fmt"
	"time"

	basehdl "field_service/internal/api/base/handler"
	deliverydto "field_service/internal/api/delivery/dto"
	deliverymodels "field_service/internal/api/delivery/models"
	deliverysvc "field_service/internal/api/delivery/service"
	"field_service/internal/common"
	"field_service/internal/delivery"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliverySendHandler xử lý gửi thông báo trực tiếp qua queue
type DeliverySendHandler struct {
	*basehdl.BaseHandler[deliverymodels.DeliveryQueueItem, deliverydto.DeliverySendInput, deliverydto.DeliverySendInput]
	queue *delivery.Queue
}

// NewDeliverySendHandler tạo mới DeliverySendHandler
func NewDeliverySendHandler() (*DeliverySendHandler, error) {
	queue, err := delivery.NewQueue()
	if err != nil {
		return nil, fmt.Errorf("failed to create delivery queue: %w", err)
	}
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}

	handler := &DeliverySendHandler{queue: queue}
	handler.BaseHandler = basehdl.NewBaseHandler[deliverymodels.DeliveryQueueItem, deliverydto.DeliverySendInput, deliverydto.DeliverySendInput](queueService.BaseServiceMongoImpl)
	return handler, nil
}

// HandleSend nhận request gửi thông báo và thêm vào queue.
// Việc gửi thật diễn ra async ở Processor - response chỉ xác nhận đã queued.
func (h *DeliverySendHandler) HandleSend(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input deliverydto.DeliverySendInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if err := h.ValidateInput(&input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		congID := h.GetActiveCongregationID(c)
		if congID == nil {
			h.HandleResponse(c, nil, common.ErrNoCongregation)
			return nil
		}

		now := time.Now().Unix()
		item := &deliverymodels.DeliveryQueueItem{
			ID:                  primitive.NewObjectID(),
			OwnerCongregationID: *congID,
			EventType:           input.EventType,
			ChannelType:         input.ChannelType,
			Recipient:           input.Recipient,
			Subject:             input.Subject,
			Content:             input.Content,
			Status:              "pending",
			Priority:            input.Priority,
			CreatedAt:           now,
			UpdatedAt:           now,
		}

		if err := h.queue.Enqueue(c.Context(), []*deliverymodels.DeliveryQueueItem{item}); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		h.HandleResponse(c, deliverydto.DeliverySendResponse{
			MessageID: item.ID.Hex(),
			Status:    "queued",
			QueuedAt:  item.CreatedAt,
		}, nil)
		return nil
	})
}

// DeliveryHistoryHandler cho phép admin tra cứu lịch sử gửi (chỉ đọc qua CRUD chung).
type DeliveryHistoryHandler struct {
	*basehdl.BaseHandler[deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory]
}

// NewDeliveryHistoryHandler tạo mới DeliveryHistoryHandler
func NewDeliveryHistoryHandler() (*DeliveryHistoryHandler, error) {
	historyService, err := deliverysvc.NewDeliveryHistoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}

	handler := &DeliveryHistoryHandler{}
	handler.BaseHandler = basehdl.NewBaseHandler[deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory, deliverymodels.DeliveryHistory](historyService.BaseServiceMongoImpl)
	return handler, nil
}

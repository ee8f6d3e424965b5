// Package deliverysvc - DeliveryHistoryService (xem service.delivery.queue.go cho package doc).
// File: service.delivery.history.go - giữ tên cấu trúc cũ (service.<domain>.<entity>.go).
package deliverysvc

import (
	"context"
	"fmt"

	basesvc "field_service/internal/api/base/service"
	deliverymodels "field_service/internal/api/delivery/models"
	"field_service/internal/common"
	"field_service/internal/global"
)

// DeliveryHistoryService là service quản lý Delivery History (lịch sử gửi thông báo).
type DeliveryHistoryService struct {
	*basesvc.BaseServiceMongoImpl[deliverymodels.DeliveryHistory]
}

// NewDeliveryHistoryService tạo mới DeliveryHistoryService
func NewDeliveryHistoryService() (*DeliveryHistoryService, error) {
	collection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.DeliveryHistory)
	if !exist {
		return nil, fmt.Errorf("failed to get delivery_history collection: %v", common.ErrNotFound)
	}

	return &DeliveryHistoryService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[deliverymodels.DeliveryHistory](collection),
	}, nil
}

// InsertOne wrapper để package khác gọi được
func (s *DeliveryHistoryService) InsertOne(ctx context.Context, data deliverymodels.DeliveryHistory) (deliverymodels.DeliveryHistory, error) {
	return s.BaseServiceMongoImpl.InsertOne(ctx, data)
}

package delivery

import (
	"context"
	"fmt"
	"time"

	deliverymodels "field_service/internal/api/delivery/models"
	deliverysvc "field_service/internal/api/delivery/service"
	"field_service/internal/logger"
)

// Queue xử lý việc enqueue và dequeue
type Queue struct {
	queueService *deliverysvc.DeliveryQueueService
}

// NewQueue tạo mới Queue
func NewQueue() (*Queue, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}

	return &Queue{
		queueService: queueService,
	}, nil
}

// Enqueue thêm items vào queue. Item trùng (cùng event, recipient, channel)
// trong vòng 1 giờ bị bỏ qua để tránh spam người nhận.
func (q *Queue) Enqueue(ctx context.Context, items []*deliverymodels.DeliveryQueueItem) error {
	now := time.Now().Unix()
	log := logger.GetAppLogger()

	itemsToInsert := make([]deliverymodels.DeliveryQueueItem, 0, len(items))
	skipped := 0
	for _, item := range items {
		duplicates, err := q.queueService.FindRecentDuplicates(ctx, item.EventType, item.Recipient, item.ChannelType, 3600)
		if err == nil && len(duplicates) > 0 {
			skipped++
			continue
		}

		item.Status = "pending"
		item.RetryCount = 0
		if item.MaxRetries == 0 {
			item.MaxRetries = 3
		}
		if item.Priority == 0 {
			item.Priority = 3
		}
		item.CreatedAt = now
		item.UpdatedAt = now
		itemsToInsert = append(itemsToInsert, *item)
	}

	if len(itemsToInsert) == 0 {
		return nil
	}

	insertedItems, err := q.queueService.InsertMany(ctx, itemsToInsert)
	if err != nil {
		log.WithError(err).WithField("totalItems", len(itemsToInsert)).Error("📦 [DELIVERY] Lỗi khi insert queue items vào database")
		return err
	}

	log.WithFields(map[string]interface{}{
		"insertedCount": len(insertedItems),
		"skipped":       skipped,
	}).Info("📦 [DELIVERY] Đã enqueue thông báo")
	return nil
}

// Dequeue lấy items từ queue (status="pending", limit)
func (q *Queue) Dequeue(ctx context.Context, limit int) ([]*deliverymodels.DeliveryQueueItem, error) {
	items, err := q.queueService.FindPending(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]interface{}, len(items))
	for i, item := range items {
		ids[i] = item.ID
	}
	if err := q.queueService.UpdateStatus(ctx, ids, "processing"); err != nil {
		return nil, err
	}

	result := make([]*deliverymodels.DeliveryQueueItem, len(items))
	for i := range items {
		result[i] = &items[i]
	}
	return result, nil
}

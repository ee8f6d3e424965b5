package delivery

import (
	"context"
	"fmt"
	"math"
	"time"

	deliverymodels "field_service/internal/api/delivery/models"
	deliverysvc "field_service/internal/api/delivery/service"
	basesvc "field_service/internal/api/base/service"
	"field_service/internal/delivery/channels"
	"field_service/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Processor xử lý queue items - chỉ lo việc gửi (như "bưu điện"):
// nhận recipient + content đã dựng sẵn và chuyển tới kênh tương ứng.
type Processor struct {
	queueService   *deliverysvc.DeliveryQueueService
	historyService *deliverysvc.DeliveryHistoryService
}

// NewProcessor tạo mới Processor
func NewProcessor() (*Processor, error) {
	queueService, err := deliverysvc.NewDeliveryQueueService()
	if err != nil {
		return nil, fmt.Errorf("failed to create queue service: %w", err)
	}

	historyService, err := deliverysvc.NewDeliveryHistoryService()
	if err != nil {
		return nil, fmt.Errorf("failed to create history service: %w", err)
	}

	return &Processor{
		queueService:   queueService,
		historyService: historyService,
	}, nil
}

// handleRetryOrFail xử lý retry logic cho mọi error case.
// Chưa hết retry: tăng retryCount, set nextRetryAt (backoff lũy tiến), reset về pending.
// Hết retry: đánh dấu failed và xóa khỏi queue.
func (p *Processor) handleRetryOrFail(ctx context.Context, item *deliverymodels.DeliveryQueueItem, err error) error {
	log := logger.GetAppLogger()

	item.RetryCount++

	if item.RetryCount < item.MaxRetries {
		backoffSeconds := int64(math.Pow(2, float64(item.RetryCount)))
		nextRetryAt := time.Now().Unix() + backoffSeconds

		updateData := basesvc.UpdateData{
			Set: map[string]interface{}{
				"status":      "pending",
				"retryCount":  item.RetryCount,
				"nextRetryAt": nextRetryAt,
				"updatedAt":   time.Now().Unix(),
				"error":       err.Error(),
			},
		}
		if _, updateErr := p.queueService.UpdateOne(ctx, bson.M{"_id": item.ID}, updateData, nil); updateErr != nil {
			log.WithError(updateErr).WithField("queueItemId", item.ID.Hex()).Error("📦 [DELIVERY] Failed to update queue item for retry")
			return fmt.Errorf("failed to update queue item for retry: %w", updateErr)
		}
		return err
	}

	updateData := basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    "failed",
			"error":     err.Error(),
			"updatedAt": time.Now().Unix(),
		},
	}
	if _, updateErr := p.queueService.UpdateOne(ctx, bson.M{"_id": item.ID}, updateData, nil); updateErr != nil {
		log.WithError(updateErr).WithField("queueItemId", item.ID.Hex()).Error("📦 [DELIVERY] Failed to mark queue item as failed")
		return fmt.Errorf("failed to mark queue item as failed: %w", updateErr)
	}
	if deleteErr := p.queueService.DeleteOne(ctx, bson.M{"_id": item.ID}); deleteErr != nil {
		log.WithError(deleteErr).WithField("queueItemId", item.ID.Hex()).Warn("📦 [DELIVERY] Failed to delete failed queue item")
	}
	return fmt.Errorf("max retries exceeded: %w", err)
}

// ProcessQueueItem xử lý một queue item: gửi qua kênh tương ứng và ghi history.
func (p *Processor) ProcessQueueItem(ctx context.Context, item *deliverymodels.DeliveryQueueItem) error {
	log := logger.GetAppLogger()

	historyID := primitive.NewObjectID()
	history := deliverymodels.DeliveryHistory{
		ID:                  historyID,
		QueueItemID:         item.ID,
		EventType:           item.EventType,
		OwnerCongregationID: item.OwnerCongregationID,
		ChannelType:         item.ChannelType,
		Recipient:           item.Recipient,
		Status:              "pending",
		Content:             item.Content,
		RetryCount:          item.RetryCount,
		CreatedAt:           time.Now().Unix(),
	}

	sendErr := p.send(ctx, item)
	if sendErr != nil {
		history.Status = "failed"
		history.Error = sendErr.Error()
	} else {
		history.Status = "sent"
		now := time.Now().Unix()
		history.SentAt = &now
	}

	if _, err := p.historyService.InsertOne(ctx, history); err != nil {
		log.WithError(err).WithField("historyId", historyID.Hex()).Error("📦 [DELIVERY] Failed to save history")
		return p.handleRetryOrFail(ctx, item, fmt.Errorf("failed to save history: %w", err))
	}

	if sendErr != nil {
		return p.handleRetryOrFail(ctx, item, sendErr)
	}

	// Gửi thành công, xóa queue item
	if err := p.queueService.DeleteOne(ctx, bson.M{"_id": item.ID}); err != nil {
		log.WithError(err).WithField("queueItemId", item.ID.Hex()).Warn("📦 [DELIVERY] Failed to delete completed queue item")
	}
	return nil
}

// send chuyển item tới kênh tương ứng
func (p *Processor) send(ctx context.Context, item *deliverymodels.DeliveryQueueItem) error {
	switch item.ChannelType {
	case deliverymodels.ChannelEmail:
		return channels.SendEmail(ctx, item.Recipient, item.Subject, item.Content)
	case deliverymodels.ChannelWebhook:
		return channels.SendWebhook(ctx, item.Recipient, item.EventType, item.Subject, item.Content)
	default:
		return fmt.Errorf("unsupported channel type: %s", item.ChannelType)
	}
}

// StartCleanupJob bắt đầu background job để dọn dẹp items bị kẹt
func (p *Processor) StartCleanupJob(ctx context.Context) {
	cleanupInterval := 1 * time.Minute
	staleMinutes := 5
	batchSize := 50

	go func() {
		ticker := time.NewTicker(cleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				log := logger.GetAppLogger()

				stuckItems, err := p.queueService.FindStuckItems(ctx, staleMinutes, batchSize)
				if err != nil {
					log.WithError(err).Error("📦 [CLEANUP] Failed to find stuck queue items")
					continue
				}

				for _, item := range stuckItems {
					// Processing quá lâu - reset về pending để retry
					updateData := basesvc.UpdateData{
						Set: map[string]interface{}{
							"status":      "pending",
							"nextRetryAt": nil,
							"updatedAt":   time.Now().Unix(),
						},
					}
					if _, err := p.queueService.UpdateOne(ctx, bson.M{"_id": item.ID}, updateData, nil); err != nil {
						log.WithError(err).WithField("queueItemId", item.ID.Hex()).Error("📦 [CLEANUP] Failed to reset stale item to pending")
					}
				}

				// Items failed quá 7 ngày thì xóa hẳn
				if _, err := p.queueService.CleanupFailedItems(ctx, 7); err != nil {
					log.WithError(err).Error("📦 [CLEANUP] Failed to cleanup old failed items")
				}
			}
		}
	}()
}

// Start bắt đầu background worker để xử lý queue.
// Panic trong vòng xử lý được recover và worker tự khởi động lại với delay tăng dần.
func (p *Processor) Start(ctx context.Context) {
	interval := 5 * time.Second
	batchSize := 10
	maxRetryDelay := 60 * time.Second
	retryDelay := 5 * time.Second

	p.StartCleanupJob(ctx)

	for {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetAppLogger().WithField("panic", r).Error("📦 [DELIVERY] Processor panic, sẽ tự khởi động lại sau khi delay")
					time.Sleep(retryDelay)
					retryDelay *= 2
					if retryDelay > maxRetryDelay {
						retryDelay = maxRetryDelay
					}
				} else {
					retryDelay = 5 * time.Second
				}
			}()

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					log := logger.GetAppLogger()
					items, err := p.queueService.FindPending(ctx, batchSize)
					if err != nil {
						log.WithError(err).Error("📦 [DELIVERY] Failed to find pending queue items")
						continue
					}

					for _, item := range items {
						ids := []interface{}{item.ID}
						if err := p.queueService.UpdateStatus(ctx, ids, "processing"); err != nil {
							log.WithError(err).WithField("queueItemId", item.ID.Hex()).Error("📦 [DELIVERY] Failed to update queue item status")
							continue
						}

						func() {
							defer func() {
								if r := recover(); r != nil {
									logger.GetAppLogger().WithFields(map[string]interface{}{
										"panic":       r,
										"queueItemId": item.ID.Hex(),
									}).Error("📦 [DELIVERY] Panic khi xử lý queue item")
									p.queueService.UpdateStatus(ctx, []interface{}{item.ID}, "pending")
								}
							}()

							if err := p.ProcessQueueItem(ctx, &item); err != nil {
								log.WithError(err).WithFields(map[string]interface{}{
									"queueItemId": item.ID.Hex(),
									"retryCount":  item.RetryCount,
								}).Error("📦 [DELIVERY] Failed to process queue item")
							}
						}()
					}
				}
			}
		}()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

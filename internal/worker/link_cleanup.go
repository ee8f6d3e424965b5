package worker

import (
	"context"
	"fmt"
	"time"

	authsvc "field_service/internal/api/auth/service"
	deliverymodels "field_service/internal/api/delivery/models"
	linksmodels "field_service/internal/api/links/models"
	linkssvc "field_service/internal/api/links/service"
	"field_service/internal/delivery"
	"field_service/internal/global"
	"field_service/internal/logger"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LinkCleanupWorker quét và xóa các link chia sẻ đã hết hạn, đồng thời
// đưa thông báo hết hạn vào delivery queue. Tiện thể dọn luôn access token
// hết hạn trong cùng chu kỳ.
type LinkCleanupWorker struct {
	linkService  *linkssvc.ShareLinkService
	tokenService *authsvc.AccessTokenService
	queue        *delivery.Queue
	interval     time.Duration
}

// NewLinkCleanupWorker tạo mới LinkCleanupWorker.
// interval dưới 1 phút bị nâng lên mặc định từ config (LINK_CLEANUP_INTERVAL_MIN).
func NewLinkCleanupWorker(interval time.Duration) (*LinkCleanupWorker, error) {
	linkService, err := linkssvc.NewShareLinkService()
	if err != nil {
		return nil, err
	}
	tokenService, err := authsvc.NewAccessTokenService()
	if err != nil {
		return nil, err
	}
	queue, err := delivery.NewQueue()
	if err != nil {
		return nil, err
	}

	if interval < time.Minute {
		minutes := 15
		if global.MongoDB_ServerConfig != nil && global.MongoDB_ServerConfig.LinkCleanupIntervalMin > 0 {
			minutes = global.MongoDB_ServerConfig.LinkCleanupIntervalMin
		}
		interval = time.Duration(minutes) * time.Minute
	}

	return &LinkCleanupWorker{
		linkService:  linkService,
		tokenService: tokenService,
		queue:        queue,
		interval:     interval,
	}, nil
}

// Start chạy worker cho đến khi context bị hủy.
func (w *LinkCleanupWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithField("interval", w.interval.String()).Info("🔄 [LINK_CLEANUP] Starting Link Cleanup Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔄 [LINK_CLEANUP] Link Cleanup Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithField("panic", r).Error("🔄 [LINK_CLEANUP] Panic khi dọn link hết hạn, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()
				w.runOnce(ctx)
			}()
		}
	}
}

// runOnce thực hiện một chu kỳ dọn dẹp.
func (w *LinkCleanupWorker) runOnce(ctx context.Context) {
	log := logger.GetAppLogger()

	expired, err := w.linkService.CollectExpired(ctx)
	if err != nil {
		log.WithError(err).Error("🔄 [LINK_CLEANUP] Failed to collect expired share links")
		return
	}
	if len(expired) > 0 {
		log.WithField("expiredCount", len(expired)).Info("🔄 [LINK_CLEANUP] Đã xóa link chia sẻ hết hạn")
		w.enqueueExpiryNotices(ctx, expired)
	}

	deletedTokens, err := w.tokenService.DeleteExpired(ctx)
	if err != nil {
		log.WithError(err).Error("🔄 [LINK_CLEANUP] Failed to delete expired access tokens")
		return
	}
	if deletedTokens > 0 {
		log.WithField("deletedCount", deletedTokens).Info("🔄 [LINK_CLEANUP] Đã xóa access token hết hạn")
	}
}

// enqueueExpiryNotices đưa thông báo link hết hạn vào delivery queue.
// Kênh nào chưa cấu hình thì bỏ qua kênh đó; queue tự lo chống trùng.
func (w *LinkCleanupWorker) enqueueExpiryNotices(ctx context.Context, expired []linksmodels.ShareLink) {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil {
		return
	}

	now := time.Now().Unix()
	items := make([]*deliverymodels.DeliveryQueueItem, 0, len(expired)*2)
	for _, link := range expired {
		subject := "Link chia sẻ bản đồ đã hết hạn"
		content := fmt.Sprintf(
			"Link %s của %s (loại %s) đã hết hạn lúc %s và đã được thu hồi.",
			link.Token,
			link.Publisher,
			link.Type,
			time.UnixMilli(link.ExpiresAt).Format(time.RFC3339),
		)

		if cfg.SMTPHost != "" && cfg.AdminEmail != "" {
			items = append(items, &deliverymodels.DeliveryQueueItem{
				ID:                  primitive.NewObjectID(),
				OwnerCongregationID: link.OwnerCongregationID,
				EventType:           deliverymodels.EventLinkExpired,
				ChannelType:         deliverymodels.ChannelEmail,
				Recipient:           cfg.AdminEmail,
				Subject:             subject,
				Content:             content,
				Status:              "pending",
				CreatedAt:           now,
				UpdatedAt:           now,
			})
		}
		if cfg.WebhookURL != "" {
			items = append(items, &deliverymodels.DeliveryQueueItem{
				ID:                  primitive.NewObjectID(),
				OwnerCongregationID: link.OwnerCongregationID,
				EventType:           deliverymodels.EventLinkExpired,
				ChannelType:         deliverymodels.ChannelWebhook,
				Recipient:           cfg.WebhookURL,
				Subject:             subject,
				Content:             content,
				Status:              "pending",
				CreatedAt:           now,
				UpdatedAt:           now,
			})
		}
	}
	if len(items) == 0 {
		return
	}

	if err := w.queue.Enqueue(ctx, items); err != nil {
		logger.GetAppLogger().WithError(err).WithFields(logrus.Fields{
			"itemCount": len(items),
		}).Error("🔄 [LINK_CLEANUP] Failed to enqueue link expiry notices")
	}
}

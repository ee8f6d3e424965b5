// Package models - DeliveryQueueItem thuộc domain Delivery (delivery_queue).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kênh gửi thông báo.
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
)

// Loại sự kiện thông báo.
const (
	EventLinkExpired = "link_expired" // link chia sẻ bản đồ hết hạn
)

// DeliveryQueueItem một thông báo đang chờ gửi.
// Item pending được processor lấy theo priority rồi createdAt; gửi lỗi sẽ
// retry với backoff lũy tiến cho tới MaxRetries.
type DeliveryQueueItem struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"single:1"`

	EventType   string `json:"eventType" bson:"eventType" index:"single:1"`
	ChannelType string `json:"channelType" bson:"channelType"` // email | webhook
	Recipient   string `json:"recipient" bson:"recipient"`     // địa chỉ email hoặc webhook URL
	Subject     string `json:"subject,omitempty" bson:"subject,omitempty"`
	Content     string `json:"content" bson:"content"`

	Status      string `json:"status" bson:"status" index:"single:1"` // pending | processing | failed
	Priority    int    `json:"priority" bson:"priority"`              // 1 cao nhất
	RetryCount  int    `json:"retryCount" bson:"retryCount"`
	MaxRetries  int    `json:"maxRetries" bson:"maxRetries"`
	NextRetryAt *int64 `json:"nextRetryAt,omitempty" bson:"nextRetryAt,omitempty"`
	Error       string `json:"error,omitempty" bson:"error,omitempty"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

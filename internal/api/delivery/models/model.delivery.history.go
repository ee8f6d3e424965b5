// Package models - DeliveryHistory thuộc domain Delivery.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DeliveryHistory - Lịch sử gửi thông báo (thuộc Delivery System)
type DeliveryHistory struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	QueueItemID         primitive.ObjectID `json:"queueItemId" bson:"queueItemId" index:"single:1"`
	EventType           string             `json:"eventType" bson:"eventType" index:"single:1"`
	OwnerCongregationID primitive.ObjectID `json:"ownerCongregationId" bson:"ownerCongregationId" index:"single:1"`
	ChannelType         string             `json:"channelType" bson:"channelType" index:"single:1"`
	Recipient           string             `json:"recipient" bson:"recipient"`
	Status              string             `json:"status" bson:"status" index:"single:1"` // sent, failed
	Content             string             `json:"content" bson:"content"`
	Error               string             `json:"error,omitempty" bson:"error,omitempty"`
	RetryCount          int                `json:"retryCount" bson:"retryCount"`
	SentAt              *int64             `json:"sentAt,omitempty" bson:"sentAt,omitempty"`
	CreatedAt           int64              `json:"createdAt" bson:"createdAt"`
}

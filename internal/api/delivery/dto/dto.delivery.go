// Package deliverydto chứa DTO cho domain Delivery (send, history).
// File: dto.delivery.go - giữ tên cấu trúc cũ (dto.<domain>.go).
package deliverydto

// DeliverySendInput là request để gửi thông báo trực tiếp (admin dùng để test cấu hình
// SMTP/webhook hoặc gửi thông báo thủ công cho hội thánh).
type DeliverySendInput struct {
	ChannelType string `json:"channelType" validate:"required,oneof=email webhook"`
	Recipient   string `json:"recipient" validate:"required"`
	Subject     string `json:"subject,omitempty" validate:"omitempty,max=200"`
	Content     string `json:"content" validate:"required"`
	EventType   string `json:"eventType,omitempty" validate:"omitempty,max=50"`
	Priority    int    `json:"priority,omitempty" validate:"omitempty,min=1,max=5"`
}

// DeliverySendResponse là response sau khi enqueue
type DeliverySendResponse struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"` // queued
	QueuedAt  int64  `json:"queuedAt"`
}

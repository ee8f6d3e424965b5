// Package channels chứa các kênh gửi của Delivery System: email (SMTP) và webhook.
package channels

import (
	"context"
	"fmt"

	"field_service/internal/global"

	"gopkg.in/gomail.v2"
)

// SendEmail gửi thông báo qua SMTP với cấu hình lấy từ server config.
func SendEmail(ctx context.Context, recipient string, subject string, content string) error {
	cfg := global.MongoDB_ServerConfig
	if cfg == nil || cfg.SMTPHost == "" {
		return fmt.Errorf("smtp chưa được cấu hình (SMTP_HOST trống)")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.SMTPFrom)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", content)

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)

	// gomail không nhận context - kiểm tra hủy trước khi dial
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return dialer.DialAndSend(msg)
}

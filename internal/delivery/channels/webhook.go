package channels

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"field_service/internal/global"
)

// SendWebhook gửi thông báo dạng JSON tới webhookURL.
// Có WEBHOOK_SECRET thì payload được ký HMAC-SHA256 trong header X-Signature
// để phía nhận xác minh nguồn gửi.
func SendWebhook(ctx context.Context, webhookURL string, eventType string, subject string, content string) error {
	payload := map[string]interface{}{
		"eventType": eventType,
		"subject":   subject,
		"content":   content,
		"timestamp": time.Now().Unix(),
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if cfg := global.MongoDB_ServerConfig; cfg != nil && cfg.WebhookSecret != "" {
		mac := hmac.New(sha256.New, []byte(cfg.WebhookSecret))
		mac.Write(jsonData)
		req.Header.Set("X-Signature", hex.EncodeToString(mac.Sum(nil)))
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

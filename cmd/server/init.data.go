package main

import (
	"field_service/internal/api/initsvc"
	"field_service/internal/logger"
)

func InitDefaultData() {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	initService, err := initsvc.NewInitService()
	if err != nil {
		log.Fatalf("Failed to initialize init service: %v", err)
	}

	// Seed admin + congregation mặc định + household types theo cấu hình ADMIN_EMAIL/ADMIN_PASSWORD.
	// Không có cấu hình admin thì bỏ qua: user đầu tiên đăng ký sẽ tự tạo congregation của mình.
	if err := initService.InitData(); err != nil {
		log.Fatalf("Failed to initialize default data: %v", err)
	}

	log.Info("✅ [INIT] InitDefaultData completed successfully")
}

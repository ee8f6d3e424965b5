// Package logger - Test cấu hình và hành vi lọc log entries.
package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func entryWith(level logrus.Level, fields logrus.Fields) *logrus.Entry {
	entry := logrus.NewEntry(logrus.New())
	entry.Level = level
	entry.Data = fields
	return entry
}

func TestDefaultConfig_FilterFieldsAllowAll(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.FilterModules != "*" || cfg.FilterCollections != "*" ||
		cfg.FilterEndpoints != "*" || cfg.FilterMethods != "*" || cfg.FilterLogTypes != "*" {
		t.Errorf("cấu hình mặc định phải cho phép tất cả, got %+v", cfg)
	}

	hook := NewFilterHook(cfg)
	entry := entryWith(logrus.InfoLevel, logrus.Fields{"module": "maps"})
	if err := hook.Fire(entry); err != nil {
		t.Fatalf("Fire lỗi: %v", err)
	}
	if entry.Data["_filtered"] == true {
		t.Error("cấu hình mặc định không được lọc entry nào")
	}
}

func TestDefaultConfig_FilterEnvOverride(t *testing.T) {
	t.Setenv("LOG_FILTER_MODULES", "auth,delivery")
	t.Setenv("LOG_FILTER_LOG_TYPES", "error")

	cfg := DefaultConfig()
	if cfg.FilterModules != "auth,delivery" {
		t.Errorf("LOG_FILTER_MODULES phải override config, got %q", cfg.FilterModules)
	}
	if cfg.FilterLogTypes != "error" {
		t.Errorf("LOG_FILTER_LOG_TYPES phải override config, got %q", cfg.FilterLogTypes)
	}
}

func TestFilterHook_ModuleFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterModules = "auth,delivery"
	hook := NewFilterHook(cfg)

	allowed := entryWith(logrus.InfoLevel, logrus.Fields{"module": "auth"})
	_ = hook.Fire(allowed)
	if allowed.Data["_filtered"] == true {
		t.Error("module trong danh sách phải được phép log")
	}

	blocked := entryWith(logrus.InfoLevel, logrus.Fields{"module": "maps"})
	_ = hook.Fire(blocked)
	if blocked.Data["_filtered"] != true {
		t.Error("module ngoài danh sách phải bị đánh dấu _filtered")
	}

	// Entry không có field module thì không áp filter module
	noModule := entryWith(logrus.InfoLevel, logrus.Fields{})
	_ = hook.Fire(noModule)
	if noModule.Data["_filtered"] == true {
		t.Error("entry thiếu field module không bị lọc theo module")
	}
}

func TestFilterHook_LogTypeFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterLogTypes = "error,warning"
	hook := NewFilterHook(cfg)

	info := entryWith(logrus.InfoLevel, logrus.Fields{})
	_ = hook.Fire(info)
	if info.Data["_filtered"] != true {
		t.Error("level ngoài danh sách phải bị lọc")
	}

	errEntry := entryWith(logrus.ErrorLevel, logrus.Fields{})
	_ = hook.Fire(errEntry)
	if errEntry.Data["_filtered"] == true {
		t.Error("level trong danh sách phải được phép log")
	}
}

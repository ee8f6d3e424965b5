package session

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache là Cache dựa trên go-cache, dùng chung cho mọi phiên trong process.
// Lựa chọn gần nhất chỉ cần sống trong vòng đời server - không cần bền qua restart.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache tạo cache với thời gian sống mặc định và chu kỳ dọn dẹp.
func NewMemoryCache(defaultTTL time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(defaultTTL, 10*time.Minute)}
}

// Get lấy giá trị theo key
func (m *MemoryCache) Get(key string) (string, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Set ghi giá trị với TTL mặc định
func (m *MemoryCache) Set(key string, value string) {
	m.c.Set(key, value, gocache.DefaultExpiration)
}

// Delete xóa key, không lỗi khi key không tồn tại
func (m *MemoryCache) Delete(key string) {
	m.c.Delete(key)
}

// Package geolocate quản lý việc lấy và theo dõi vị trí người dùng qua một
// Provider được inject, tách hẳn nguồn vị trí thật (thiết bị, trình duyệt, GPS gateway)
// ra khỏi logic nghiệp vụ để có thể test bằng provider giả.
package geolocate

import (
	"context"
	"time"

	"field_service/internal/geo"
)

// Các mã lỗi vị trí chuẩn hóa từ provider.
const (
	ErrCodePermissionDenied    = 1
	ErrCodePositionUnavailable = 2
	ErrCodeTimeout             = 3
)

// PositionError là lỗi có mã chuẩn hóa từ provider vị trí.
type PositionError struct {
	Code    int
	Message string
}

func (e *PositionError) Error() string {
	return e.Message
}

// ErrUnsupported trả về khi môi trường không có khả năng định vị.
var ErrUnsupported = &PositionError{
	Code:    ErrCodePositionUnavailable,
	Message: "định vị không được hỗ trợ trong môi trường này",
}

// Options điều khiển một lần lấy hoặc một phiên theo dõi vị trí.
type Options struct {
	HighAccuracy bool          // Yêu cầu độ chính xác cao (GPS thay vì network)
	Timeout      time.Duration // Thời gian chờ tối đa cho một fix
	MaximumAge   time.Duration // Chấp nhận fix cache cũ đến mức nào
}

// WatchHandle dừng một phiên theo dõi vị trí. Gọi nhiều lần phải an toàn.
type WatchHandle interface {
	Stop()
}

// Provider là nguồn vị trí được inject vào Locator.
type Provider interface {
	// Supported trả về false khi môi trường không có khả năng định vị.
	Supported() bool

	// CurrentPosition lấy một fix duy nhất. Lỗi trả về là *PositionError khi
	// provider phân loại được nguyên nhân.
	CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error)

	// Watch đẩy fix mới vào onUpdate và lỗi vào onError cho đến khi handle bị Stop.
	Watch(opts Options, onUpdate func(geo.Coordinate), onError func(error)) (WatchHandle, error)
}

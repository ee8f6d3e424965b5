package geolocate

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"field_service/internal/geo"
	"field_service/internal/logger"
)

// Các giá trị mặc định cho lấy và theo dõi vị trí.
const (
	initialFixTimeout       = 5 * time.Second
	watchTimeout            = 15 * time.Second
	watchMaximumAge         = 1 * time.Second
	watchUpdateToleranceDeg = 1e-5
)

// Locator giữ trạng thái vị trí của một phiên làm việc trên bản đồ:
// tâm hiển thị, vị trí hiện tại của người dùng và phiên theo dõi (nếu có).
// Tất cả method an toàn khi gọi từ nhiều goroutine.
type Locator struct {
	provider Provider
	onError  func(error) // callback báo lỗi cho UI, có thể nil

	mu          sync.Mutex
	acquired    bool // đã thử lấy vị trí ban đầu, không thử lại
	cancelled   bool // phiên đã hủy, bỏ kết quả đến muộn
	center      *geo.Coordinate
	current     *geo.Coordinate
	watchHandle WatchHandle
	watchStop   *sync.Once
	lastSent    *geo.Coordinate // fix cuối đã đẩy ra, dùng để nén cập nhật nhỏ
	lastErrCode int             // mã lỗi watch cuối, dùng để không báo lặp
}

// NewLocator tạo Locator với provider được inject.
// onError nhận các lỗi cần báo cho người dùng (có thể nil để bỏ qua).
func NewLocator(provider Provider, onError func(error)) *Locator {
	return &Locator{
		provider: provider,
		onError:  onError,
	}
}

// Center trả về tâm hiển thị hiện tại (nil nếu chưa xác định).
func (l *Locator) Center() *geo.Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.center == nil {
		return nil
	}
	c := *l.center
	return &c
}

// Current trả về vị trí người dùng đã biết gần nhất (nil nếu chưa có).
func (l *Locator) Current() *geo.Coordinate {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return nil
	}
	c := *l.current
	return &c
}

// AcquireInitial lấy vị trí ban đầu đúng một lần cho phiên làm việc.
// Bỏ qua khi boundary đã có từ 3 điểm hợp lệ trở lên (tâm boundary đủ tốt),
// khi đã thử trước đó, hoặc khi provider không hỗ trợ định vị.
// Thành công chỉ cập nhật vị trí hiện tại, không dời tâm hiển thị.
// Thất bại ở đây là im lặng: người dùng vẫn làm việc với tâm boundary.
func (l *Locator) AcquireInitial(ctx context.Context, boundary []geo.Coordinate) {
	l.mu.Lock()
	if l.acquired || l.cancelled {
		l.mu.Unlock()
		return
	}
	l.acquired = true
	if len(geo.FilterValid(boundary)) >= 3 {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	if !l.provider.Supported() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, initialFixTimeout)
	defer cancel()

	pos, err := l.provider.CurrentPosition(ctx, Options{Timeout: initialFixTimeout})
	if err != nil {
		logger.GetAppLogger().WithFields(logrus.Fields{
			"error": err.Error(),
		}).Debug("📍 [GEO] Initial position fix failed, keeping boundary center")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancelled {
		// Phiên đã hủy trong lúc chờ fix, bỏ kết quả
		return
	}
	// Chỉ cập nhật vị trí hiện tại; tâm hiển thị giữ nguyên để bản đồ
	// không nhảy sau khi mount. Muốn dời tâm phải gọi RequestLocation.
	l.current = &pos
}

// RequestLocation lấy vị trí theo yêu cầu tường minh của người dùng.
// Thành công thì cập nhật cả tâm hiển thị lẫn vị trí hiện tại và trả về tọa độ.
// Thất bại thì báo lỗi qua onError và trả về nil — tâm hiển thị giữ nguyên.
func (l *Locator) RequestLocation(ctx context.Context) *geo.Coordinate {
	if !l.provider.Supported() {
		l.notify(ErrUnsupported)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, initialFixTimeout)
	defer cancel()

	pos, err := l.provider.CurrentPosition(ctx, Options{HighAccuracy: true, Timeout: initialFixTimeout})
	if err != nil {
		l.notify(err)
		return nil
	}

	l.mu.Lock()
	l.center = &pos
	l.current = &pos
	l.mu.Unlock()
	return &pos
}

// StartWatch bắt đầu theo dõi vị trí liên tục và đẩy fix mới vào onUpdate.
// Cập nhật nằm trong dung sai so với fix trước đó sẽ bị nén để tránh re-render liên tục.
// Lỗi cùng mã chỉ báo một lần cho đến khi xuất hiện mã khác.
func (l *Locator) StartWatch(onUpdate func(geo.Coordinate)) error {
	l.mu.Lock()
	if l.watchHandle != nil {
		l.mu.Unlock()
		return nil // đã theo dõi rồi
	}
	l.lastSent = nil
	l.lastErrCode = 0
	l.mu.Unlock()

	if !l.provider.Supported() {
		return ErrUnsupported
	}

	opts := Options{
		HighAccuracy: true,
		Timeout:      watchTimeout,
		MaximumAge:   watchMaximumAge,
	}
	handle, err := l.provider.Watch(opts, func(pos geo.Coordinate) {
		l.mu.Lock()
		if l.lastSent != nil && geo.Near(*l.lastSent, pos, watchUpdateToleranceDeg) {
			l.mu.Unlock()
			return
		}
		l.lastSent = &pos
		l.current = &pos
		l.lastErrCode = 0
		l.mu.Unlock()
		onUpdate(pos)
	}, func(err error) {
		code := 0
		if pe, ok := err.(*PositionError); ok {
			code = pe.Code
		}
		l.mu.Lock()
		duplicate := code != 0 && code == l.lastErrCode
		l.lastErrCode = code
		l.mu.Unlock()
		if duplicate {
			return
		}
		l.notify(err)
	})
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.watchHandle = handle
	l.watchStop = &sync.Once{}
	l.mu.Unlock()
	return nil
}

// StopWatch dừng phiên theo dõi. An toàn khi gọi nhiều lần hoặc khi chưa theo dõi.
func (l *Locator) StopWatch() {
	l.mu.Lock()
	handle := l.watchHandle
	once := l.watchStop
	l.watchHandle = nil
	l.mu.Unlock()

	if handle == nil || once == nil {
		return
	}
	once.Do(handle.Stop)
}

// Cancel kết thúc phiên: dừng theo dõi và đánh dấu để bỏ các fix đến muộn.
func (l *Locator) Cancel() {
	l.StopWatch()
	l.mu.Lock()
	l.cancelled = true
	l.mu.Unlock()
}

func (l *Locator) notify(err error) {
	if l.onError != nil {
		l.onError(err)
	}
}

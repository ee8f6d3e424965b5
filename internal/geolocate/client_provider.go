package geolocate

import (
	"context"
	"sync"

	"field_service/internal/geo"
)

// ClientProvider là Provider nhận vị trí do client đẩy lên qua API.
// Server không tự định vị được - thiết bị của người dùng đo GPS rồi báo
// từng fix về; provider phân phối fix đó cho các phiên chờ (CurrentPosition)
// và các phiên theo dõi (Watch) đang mở.
type ClientProvider struct {
	mu       sync.Mutex
	waiters  []chan geo.Coordinate
	watchers map[uint64]*clientWatch
	nextID   uint64
}

type clientWatch struct {
	onUpdate func(geo.Coordinate)
	onError  func(error)
}

// NewClientProvider tạo provider rỗng, chưa có fix nào.
func NewClientProvider() *ClientProvider {
	return &ClientProvider{watchers: make(map[uint64]*clientWatch)}
}

// Supported luôn true: client nào cũng có thể đẩy vị trí lên.
func (p *ClientProvider) Supported() bool { return true }

// Push phân phối một fix mới cho mọi phiên đang chờ và đang theo dõi.
func (p *ClientProvider) Push(pos geo.Coordinate) {
	p.mu.Lock()
	waiters := p.waiters
	p.waiters = nil
	watchers := make([]*clientWatch, 0, len(p.watchers))
	for _, w := range p.watchers {
		watchers = append(watchers, w)
	}
	p.mu.Unlock()

	for _, ch := range waiters {
		ch <- pos
		close(ch)
	}
	for _, w := range watchers {
		w.onUpdate(pos)
	}
}

// PushError báo một lỗi định vị từ client cho các phiên theo dõi.
func (p *ClientProvider) PushError(err error) {
	p.mu.Lock()
	watchers := make([]*clientWatch, 0, len(p.watchers))
	for _, w := range p.watchers {
		watchers = append(watchers, w)
	}
	p.mu.Unlock()

	for _, w := range watchers {
		w.onError(err)
	}
}

// CurrentPosition chờ fix kế tiếp do client đẩy lên, hết hạn theo ctx.
func (p *ClientProvider) CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error) {
	ch := make(chan geo.Coordinate, 1)
	p.mu.Lock()
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case pos := <-ch:
		return pos, nil
	case <-ctx.Done():
		p.mu.Lock()
		for i, w := range p.waiters {
			if w == ch {
				p.waiters = append(p.waiters[:i], p.waiters[i+1:]...)
				break
			}
		}
		p.mu.Unlock()
		return geo.Coordinate{}, &PositionError{Code: ErrCodeTimeout, Message: "hết thời gian chờ vị trí từ client"}
	}
}

// Watch đăng ký nhận mọi fix client đẩy lên cho đến khi handle bị Stop.
func (p *ClientProvider) Watch(opts Options, onUpdate func(geo.Coordinate), onError func(error)) (WatchHandle, error) {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.watchers[id] = &clientWatch{onUpdate: onUpdate, onError: onError}
	p.mu.Unlock()
	return &clientWatchHandle{p: p, id: id}, nil
}

type clientWatchHandle struct {
	p    *ClientProvider
	id   uint64
	once sync.Once
}

// Stop gỡ phiên theo dõi. Gọi nhiều lần an toàn.
func (h *clientWatchHandle) Stop() {
	h.once.Do(func() {
		h.p.mu.Lock()
		delete(h.p.watchers, h.id)
		h.p.mu.Unlock()
	})
}

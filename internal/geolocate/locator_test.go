// Package geolocate - Test máy trạng thái lấy/theo dõi vị trí với provider giả.
package geolocate

import (
	"context"
	"sync"
	"testing"

	"field_service/internal/geo"
)

// fakeProvider là provider vị trí giả cho test.
type fakeProvider struct {
	mu        sync.Mutex
	supported bool
	pos       geo.Coordinate
	err       error
	calls     int

	onUpdate func(geo.Coordinate)
	onError  func(error)
	stopped  int
}

func (p *fakeProvider) Supported() bool { return p.supported }

func (p *fakeProvider) CurrentPosition(ctx context.Context, opts Options) (geo.Coordinate, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return geo.Coordinate{}, p.err
	}
	return p.pos, nil
}

func (p *fakeProvider) Watch(opts Options, onUpdate func(geo.Coordinate), onError func(error)) (WatchHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onUpdate = onUpdate
	p.onError = onError
	return &fakeHandle{p: p}, nil
}

func (p *fakeProvider) emit(pos geo.Coordinate) {
	p.mu.Lock()
	fn := p.onUpdate
	p.mu.Unlock()
	if fn != nil {
		fn(pos)
	}
}

func (p *fakeProvider) emitError(err error) {
	p.mu.Lock()
	fn := p.onError
	p.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

type fakeHandle struct{ p *fakeProvider }

func (h *fakeHandle) Stop() {
	h.p.mu.Lock()
	h.p.stopped++
	h.p.mu.Unlock()
}

func TestAcquireInitial_SkipsWhenBoundaryComplete(t *testing.T) {
	p := &fakeProvider{supported: true, pos: geo.Coordinate{Lat: 1, Lng: 2}}
	l := NewLocator(p, nil)

	boundary := []geo.Coordinate{{Lat: 1, Lng: 1}, {Lat: 2, Lng: 2}, {Lat: 3, Lng: 3}}
	l.AcquireInitial(context.Background(), boundary)

	if p.calls != 0 {
		t.Error("boundary đã đủ 3 điểm, không được gọi provider")
	}
	if l.Center() != nil {
		t.Error("không lấy vị trí thì không được đặt tâm")
	}
}

func TestAcquireInitial_RunsOnce(t *testing.T) {
	p := &fakeProvider{supported: true, pos: geo.Coordinate{Lat: 10, Lng: 106}}
	l := NewLocator(p, nil)

	l.AcquireInitial(context.Background(), nil)
	l.AcquireInitial(context.Background(), nil)

	if p.calls != 1 {
		t.Errorf("AcquireInitial phải chỉ gọi provider một lần, got %d", p.calls)
	}
	if c := l.Center(); c != nil {
		t.Errorf("lấy vị trí ban đầu không được dời tâm hiển thị, got %+v", c)
	}
	cur := l.Current()
	if cur == nil || cur.Lat != 10 || cur.Lng != 106 {
		t.Errorf("vị trí hiện tại phải được cập nhật, got %+v", cur)
	}
}

func TestAcquireInitial_SilentFailure(t *testing.T) {
	p := &fakeProvider{
		supported: true,
		err:       &PositionError{Code: ErrCodeTimeout, Message: "timeout"},
	}
	var notified []error
	l := NewLocator(p, func(err error) { notified = append(notified, err) })

	l.AcquireInitial(context.Background(), nil)

	if len(notified) != 0 {
		t.Error("thất bại lấy vị trí ban đầu phải im lặng, không báo lỗi")
	}
	if l.Current() != nil {
		t.Error("thất bại thì vị trí hiện tại phải giữ nguyên nil")
	}
}

func TestAcquireInitial_CancelDiscardsResult(t *testing.T) {
	p := &fakeProvider{supported: true, pos: geo.Coordinate{Lat: 10, Lng: 106}}
	l := NewLocator(p, nil)

	l.Cancel()
	l.AcquireInitial(context.Background(), nil)

	if l.Current() != nil {
		t.Error("phiên đã hủy, kết quả vị trí phải bị bỏ")
	}
}

func TestRequestLocation_UpdatesCenterAndCurrent(t *testing.T) {
	p := &fakeProvider{supported: true, pos: geo.Coordinate{Lat: 21, Lng: 105}}
	l := NewLocator(p, nil)

	got := l.RequestLocation(context.Background())
	if got == nil || got.Lat != 21 || got.Lng != 105 {
		t.Fatalf("RequestLocation phải trả về tọa độ, got %+v", got)
	}
	if c := l.Center(); c == nil || *c != *got {
		t.Errorf("tâm phải cập nhật theo vị trí, got %+v", c)
	}
}

func TestRequestLocation_FailureNotifiesAndReturnsNil(t *testing.T) {
	perr := &PositionError{Code: ErrCodePermissionDenied, Message: "denied"}
	p := &fakeProvider{supported: true, err: perr}
	var notified []error
	l := NewLocator(p, func(err error) { notified = append(notified, err) })

	if got := l.RequestLocation(context.Background()); got != nil {
		t.Errorf("thất bại phải trả về nil, got %+v", got)
	}
	if len(notified) != 1 || notified[0] != perr {
		t.Errorf("lỗi phải được báo đúng một lần, got %v", notified)
	}
	if l.Center() != nil {
		t.Error("thất bại thì tâm giữ nguyên")
	}
}

func TestRequestLocation_Unsupported(t *testing.T) {
	p := &fakeProvider{supported: false}
	var notified []error
	l := NewLocator(p, func(err error) { notified = append(notified, err) })

	if got := l.RequestLocation(context.Background()); got != nil {
		t.Error("provider không hỗ trợ phải trả về nil")
	}
	if len(notified) != 1 || notified[0] != ErrUnsupported {
		t.Errorf("phải báo ErrUnsupported, got %v", notified)
	}
}

func TestWatch_SuppressesTinyUpdates(t *testing.T) {
	p := &fakeProvider{supported: true}
	l := NewLocator(p, nil)

	var updates []geo.Coordinate
	if err := l.StartWatch(func(pos geo.Coordinate) { updates = append(updates, pos) }); err != nil {
		t.Fatalf("StartWatch lỗi: %v", err)
	}

	p.emit(geo.Coordinate{Lat: 10, Lng: 106})
	p.emit(geo.Coordinate{Lat: 10.000001, Lng: 106.000001}) // trong dung sai, phải nén
	p.emit(geo.Coordinate{Lat: 10.001, Lng: 106.001})       // ngoài dung sai

	if len(updates) != 2 {
		t.Errorf("cập nhật trong dung sai phải bị nén: got %d updates", len(updates))
	}
	cur := l.Current()
	if cur == nil || cur.Lat != 10.001 {
		t.Errorf("vị trí hiện tại phải là fix cuối được nhận, got %+v", cur)
	}
}

func TestWatch_DedupesRepeatedErrorCode(t *testing.T) {
	p := &fakeProvider{supported: true}
	var notified []error
	l := NewLocator(p, func(err error) { notified = append(notified, err) })

	if err := l.StartWatch(func(geo.Coordinate) {}); err != nil {
		t.Fatalf("StartWatch lỗi: %v", err)
	}

	timeout := &PositionError{Code: ErrCodeTimeout, Message: "timeout"}
	p.emitError(timeout)
	p.emitError(timeout) // cùng mã, không báo lại
	p.emitError(&PositionError{Code: ErrCodePermissionDenied, Message: "denied"})

	if len(notified) != 2 {
		t.Errorf("lỗi trùng mã phải chỉ báo một lần: got %d", len(notified))
	}

	// Một fix thành công reset dedup, lỗi cũ lại được báo
	p.emit(geo.Coordinate{Lat: 1, Lng: 1})
	p.emitError(timeout)
	if len(notified) != 3 {
		t.Errorf("sau fix thành công, lỗi phải được báo lại: got %d", len(notified))
	}
}

func TestStopWatch_Idempotent(t *testing.T) {
	p := &fakeProvider{supported: true}
	l := NewLocator(p, nil)

	if err := l.StartWatch(func(geo.Coordinate) {}); err != nil {
		t.Fatalf("StartWatch lỗi: %v", err)
	}
	l.StopWatch()
	l.StopWatch()
	l.Cancel()

	if p.stopped != 1 {
		t.Errorf("handle.Stop phải chỉ chạy một lần, got %d", p.stopped)
	}
}

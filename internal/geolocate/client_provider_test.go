package geolocate

import (
	"context"
	"sync"
	"testing"
	"time"

	"field_service/internal/geo"
)

func TestClientProvider_CurrentPositionReceivesPush(t *testing.T) {
	p := NewClientProvider()

	var wg sync.WaitGroup
	var got geo.Coordinate
	var gotErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, gotErr = p.CurrentPosition(context.Background(), Options{})
	}()

	// Chờ waiter đăng ký xong rồi mới đẩy fix
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		p.mu.Lock()
		n := len(p.waiters)
		p.mu.Unlock()
		if n > 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	p.Push(geo.Coordinate{Lat: 10, Lng: 106})
	wg.Wait()

	if gotErr != nil {
		t.Fatalf("CurrentPosition lỗi: %v", gotErr)
	}
	if got.Lat != 10 || got.Lng != 106 {
		t.Errorf("fix sai: got %+v", got)
	}
}

func TestClientProvider_CurrentPositionTimeout(t *testing.T) {
	p := NewClientProvider()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := p.CurrentPosition(ctx, Options{})
	perr, ok := err.(*PositionError)
	if !ok || perr.Code != ErrCodeTimeout {
		t.Fatalf("hết hạn chờ phải trả về PositionError timeout, got %v", err)
	}

	// Waiter đã hết hạn phải được gỡ - push sau đó không panic
	p.Push(geo.Coordinate{Lat: 1, Lng: 1})
}

func TestClientProvider_WatchDeliversAndStops(t *testing.T) {
	p := NewClientProvider()

	var mu sync.Mutex
	var updates []geo.Coordinate
	var errs []error
	handle, err := p.Watch(Options{}, func(pos geo.Coordinate) {
		mu.Lock()
		updates = append(updates, pos)
		mu.Unlock()
	}, func(e error) {
		mu.Lock()
		errs = append(errs, e)
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("Watch lỗi: %v", err)
	}

	p.Push(geo.Coordinate{Lat: 10, Lng: 106})
	p.PushError(&PositionError{Code: ErrCodePermissionDenied, Message: "denied"})

	mu.Lock()
	if len(updates) != 1 || len(errs) != 1 {
		t.Errorf("watcher phải nhận 1 fix và 1 lỗi, got %d/%d", len(updates), len(errs))
	}
	mu.Unlock()

	handle.Stop()
	handle.Stop() // gọi lại vô hại
	p.Push(geo.Coordinate{Lat: 20, Lng: 107})

	mu.Lock()
	if len(updates) != 1 {
		t.Errorf("watcher đã dừng không được nhận thêm fix, got %d", len(updates))
	}
	mu.Unlock()
}

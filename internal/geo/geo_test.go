// Package geo - Test tính hợp lệ tọa độ, tâm đa giác và fallback tâm bản đồ.
package geo

import (
	"math"
	"testing"
)

func TestCoordinateIsValid(t *testing.T) {
	valid := Coordinate{Lat: 10.762622, Lng: 106.660172}
	if !valid.IsValid() {
		t.Error("tọa độ hữu hạn phải hợp lệ")
	}
	cases := []Coordinate{
		{Lat: math.NaN(), Lng: 106.6},
		{Lat: 10.7, Lng: math.NaN()},
		{Lat: math.Inf(1), Lng: 106.6},
		{Lat: 10.7, Lng: math.Inf(-1)},
	}
	for i, c := range cases {
		if c.IsValid() {
			t.Errorf("case %d: tọa độ chứa NaN/Inf không được coi là hợp lệ", i)
		}
	}
}

func TestPolygonCenter_MeanOfVertices(t *testing.T) {
	boundary := []Coordinate{
		{Lat: 10, Lng: 100},
		{Lat: 12, Lng: 102},
		{Lat: 14, Lng: 104},
	}
	center, ok := PolygonCenter(boundary)
	if !ok {
		t.Fatal("PolygonCenter phải trả về ok với boundary hợp lệ")
	}
	if center.Lat != 12 || center.Lng != 102 {
		t.Errorf("tâm sai: got (%v, %v), want (12, 102)", center.Lat, center.Lng)
	}
}

func TestPolygonCenter_SkipsInvalidVertices(t *testing.T) {
	boundary := []Coordinate{
		{Lat: 10, Lng: 100},
		{Lat: math.NaN(), Lng: 100},
		{Lat: 12, Lng: 102},
	}
	center, ok := PolygonCenter(boundary)
	if !ok {
		t.Fatal("vẫn còn đỉnh hợp lệ, phải trả về ok")
	}
	if center.Lat != 11 || center.Lng != 101 {
		t.Errorf("tâm phải bỏ qua đỉnh hỏng: got (%v, %v), want (11, 101)", center.Lat, center.Lng)
	}
}

func TestPolygonCenter_AllInvalid(t *testing.T) {
	boundary := []Coordinate{
		{Lat: math.NaN(), Lng: 100},
		{Lat: 10, Lng: math.Inf(1)},
	}
	if _, ok := PolygonCenter(boundary); ok {
		t.Error("không còn đỉnh hợp lệ, PolygonCenter phải trả về ok=false")
	}
}

func TestDefaultMapCenter_FallbackOrder(t *testing.T) {
	current := &Coordinate{Lat: 1, Lng: 2}
	boundary := []Coordinate{{Lat: 10, Lng: 20}, {Lat: 11, Lng: 21}, {Lat: 12, Lng: 22}}
	origin := &Coordinate{Lat: 50, Lng: 60}

	// Ưu tiên 1: vị trí hiện tại
	if c := DefaultMapCenter(current, boundary, origin); c != *current {
		t.Errorf("phải ưu tiên vị trí hiện tại, got %+v", c)
	}

	// Ưu tiên 2: tâm boundary khi thiếu vị trí hiện tại
	if c := DefaultMapCenter(nil, boundary, origin); c.Lat != 11 || c.Lng != 21 {
		t.Errorf("phải dùng tâm boundary, got %+v", c)
	}

	// Vị trí hiện tại không hợp lệ cũng phải rơi về boundary
	bad := &Coordinate{Lat: math.NaN(), Lng: 2}
	if c := DefaultMapCenter(bad, boundary, origin); c.Lat != 11 || c.Lng != 21 {
		t.Errorf("vị trí hiện tại hỏng phải rơi về boundary, got %+v", c)
	}

	// Ưu tiên 3: origin của hội thánh
	if c := DefaultMapCenter(nil, nil, origin); c != *origin {
		t.Errorf("phải dùng origin, got %+v", c)
	}

	// Không còn nguồn nào: luôn có tâm thành phố mặc định
	if c := DefaultMapCenter(nil, nil, nil); c != DefaultCityCenter {
		t.Errorf("phải rơi về tâm thành phố mặc định, got %+v", c)
	}
}

func TestDefaultMapCenter_BoundaryUnderThreePoints(t *testing.T) {
	origin := &Coordinate{Lat: 50, Lng: 60}

	// Dưới 3 điểm thì chưa phải boundary, không được tính tâm từ đó
	twoPoints := []Coordinate{{Lat: 4, Lng: 4}, {Lat: 8, Lng: 8}}
	if c := DefaultMapCenter(nil, twoPoints, origin); c != *origin {
		t.Errorf("boundary 2 điểm phải bị bỏ qua, got %+v", c)
	}
	if c := DefaultMapCenter(nil, twoPoints, nil); c != DefaultCityCenter {
		t.Errorf("boundary 2 điểm và không origin phải về tâm mặc định, got %+v", c)
	}

	// 3 điểm nhưng chỉ 2 điểm hợp lệ cũng chưa đủ
	corrupted := []Coordinate{{Lat: 4, Lng: 4}, {Lat: math.NaN(), Lng: 8}, {Lat: 8, Lng: 8}}
	if c := DefaultMapCenter(nil, corrupted, origin); c != *origin {
		t.Errorf("boundary chỉ còn 2 điểm hợp lệ phải bị bỏ qua, got %+v", c)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Hà Nội -> TP.HCM xấp xỉ 1138 km
	hanoi := Coordinate{Lat: 21.028511, Lng: 105.804817}
	hcm := Coordinate{Lat: 10.762622, Lng: 106.660172}
	d := Haversine(hanoi, hcm)
	if d < 1100 || d > 1180 {
		t.Errorf("khoảng cách Hà Nội - TP.HCM sai: got %v km", d)
	}
	if Haversine(hanoi, hanoi) != 0 {
		t.Error("khoảng cách tới chính nó phải bằng 0")
	}
}

func TestNear_Tolerance(t *testing.T) {
	a := Coordinate{Lat: 10.000000, Lng: 106.000000}
	b := Coordinate{Lat: 10.000005, Lng: 106.000005}
	if !Near(a, b, 1e-5) {
		t.Error("hai điểm trong dung sai phải được coi là gần nhau")
	}
	c := Coordinate{Lat: 10.0001, Lng: 106.0001}
	if Near(a, c, 1e-5) {
		t.Error("hai điểm ngoài dung sai không được coi là gần nhau")
	}
	// Chênh lệch đúng bằng dung sai tính là đã di chuyển
	d := Coordinate{Lat: 10.5, Lng: 106}
	if Near(a, d, 0.5) {
		t.Error("chênh lệch đúng bằng dung sai không được coi là gần nhau")
	}
}

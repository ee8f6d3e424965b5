// Package geo chứa các phép toán tọa độ dùng chung cho khu vực và bản đồ:
// kiểm tra tọa độ hợp lệ, tâm đa giác, tâm mặc định của bản đồ và khoảng cách.
package geo

import (
	"math"
)

// EarthRadiusKm bán kính trái đất (km), dùng cho công thức haversine.
const EarthRadiusKm = 6371.0

// Coordinate là một điểm địa lý (độ).
type Coordinate struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// IsValid kiểm tra tọa độ có dùng được không: cả hai thành phần phải là số hữu hạn.
// NaN và ±Inf bị loại — dữ liệu boundary cũ có thể chứa giá trị hỏng.
func (c Coordinate) IsValid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return false
	}
	if math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return true
}

// FilterValid trả về các điểm hợp lệ trong danh sách, giữ nguyên thứ tự.
func FilterValid(points []Coordinate) []Coordinate {
	valid := make([]Coordinate, 0, len(points))
	for _, p := range points {
		if p.IsValid() {
			valid = append(valid, p)
		}
	}
	return valid
}

// PolygonCenter tính tâm đa giác bằng trung bình cộng các đỉnh hợp lệ.
// Trả về ok=false khi không còn đỉnh hợp lệ nào.
func PolygonCenter(points []Coordinate) (Coordinate, bool) {
	valid := FilterValid(points)
	if len(valid) == 0 {
		return Coordinate{}, false
	}
	var sumLat, sumLng float64
	for _, p := range valid {
		sumLat += p.Lat
		sumLng += p.Lng
	}
	n := float64(len(valid))
	return Coordinate{Lat: sumLat / n, Lng: sumLng / n}, true
}

// DefaultCityCenter là tâm thành phố mặc định (TP. Hồ Chí Minh), tầng cuối
// của chuỗi fallback khi không còn nguồn tọa độ nào khác.
var DefaultCityCenter = Coordinate{Lat: 10.7769, Lng: 106.7009}

// DefaultMapCenter chọn tâm hiển thị cho một bản đồ theo thứ tự ưu tiên:
// vị trí hiện tại của người dùng, rồi tâm boundary của khu vực, rồi origin
// của hội thánh, cuối cùng là DefaultCityCenter. Luôn trả về tọa độ dùng được.
// Boundary dưới 3 điểm hợp lệ không phải là boundary, bỏ qua tầng tâm boundary.
func DefaultMapCenter(current *Coordinate, boundary []Coordinate, origin *Coordinate) Coordinate {
	if current != nil && current.IsValid() {
		return *current
	}
	if valid := FilterValid(boundary); len(valid) >= 3 {
		if center, ok := PolygonCenter(valid); ok {
			return center
		}
	}
	if origin != nil && origin.IsValid() {
		return *origin
	}
	return DefaultCityCenter
}

// Haversine tính khoảng cách đường tròn lớn giữa hai điểm (km).
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// Near kiểm tra hai điểm gần nhau trong dung sai (độ) cho từng thành phần.
// Dùng để bỏ qua các cập nhật vị trí không đáng kể khi theo dõi liên tục.
// Chênh lệch đúng bằng dung sai coi là đã di chuyển, không bị nén.
func Near(a, b Coordinate, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) < tolerance && math.Abs(a.Lng-b.Lng) < tolerance
}

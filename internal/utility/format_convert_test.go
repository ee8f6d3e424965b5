package utility

import (
	"encoding/json"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// P2Int64 nhận query param dạng chuỗi (vd: c.Query("page", "1")) lẫn
// json.Number từ body đã decode; cả hai đường đều phải ra đúng số.
func TestP2Int64(t *testing.T) {
	cases := []struct {
		name  string
		input interface{}
		want  int64
	}{
		{"chuoi query param", "25", 25},
		{"json.Number", json.Number("7"), 7},
		{"int", 3, 3},
		{"int64", int64(9), 9},
		{"float64", float64(4), 4},
		{"chuoi khong hop le", "abc", 0},
		{"nil", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := P2Int64(tc.input); got != tc.want {
				t.Errorf("P2Int64(%v) = %d, muốn %d", tc.input, got, tc.want)
			}
		})
	}
}

func TestObjectIDRoundTrip(t *testing.T) {
	id := primitive.NewObjectID()
	if got := String2ObjectID(ObjectID2String(id)); got != id {
		t.Errorf("String2ObjectID(ObjectID2String(id)) = %v, muốn %v", got, id)
	}
	if got := String2ObjectID("khong-phai-hex"); got != primitive.NilObjectID {
		t.Errorf("chuỗi không hợp lệ phải trả về NilObjectID, nhận %v", got)
	}
}

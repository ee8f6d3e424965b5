// Package filter - Test render predicate thành filter MongoDB.
package filter

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestEqAndComparison(t *testing.T) {
	if got := Build(Eq("status", "done")); !reflect.DeepEqual(got, bson.M{"status": "done"}) {
		t.Errorf("Eq render sai: %v", got)
	}
	if got := Build(Gt("sequence", 5)); !reflect.DeepEqual(got, bson.M{"sequence": bson.M{"$gt": 5}}) {
		t.Errorf("Gt render sai: %v", got)
	}
	if got := Build(Lte("expiresAt", int64(100))); !reflect.DeepEqual(got, bson.M{"expiresAt": bson.M{"$lte": int64(100)}}) {
		t.Errorf("Lte render sai: %v", got)
	}
}

func TestIn(t *testing.T) {
	got := Build(In("type", "single", "multi"))
	want := bson.M{"type": bson.M{"$in": []interface{}{"single", "multi"}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("In render sai: %v", got)
	}
}

func TestContains_EscapesRegexMeta(t *testing.T) {
	got := Build(Contains("name", "khu (1)"))
	inner, ok := got["name"].(bson.M)
	if !ok {
		t.Fatalf("Contains phải render điều kiện $regex: %v", got)
	}
	if inner["$regex"] != `khu \(1\)` {
		t.Errorf("ký tự đặc biệt regex phải được escape: %v", inner["$regex"])
	}
	if inner["$options"] != "i" {
		t.Error("Contains phải không phân biệt hoa thường")
	}
}

func TestAndOr_Nesting(t *testing.T) {
	p := And(
		Eq("territoryId", "t1"),
		Or(Eq("status", "default"), Eq("status", "not_home")),
	)
	got := Build(p)
	andClauses, ok := got["$and"].([]bson.M)
	if !ok || len(andClauses) != 2 {
		t.Fatalf("And phải render $and với 2 mệnh đề: %v", got)
	}
	orClauses, ok := andClauses[1]["$or"].([]bson.M)
	if !ok || len(orClauses) != 2 {
		t.Errorf("Or lồng trong And render sai: %v", andClauses[1])
	}
}

func TestGroup_SinglePartCollapses(t *testing.T) {
	got := Build(Or(Eq("code", "A-1")))
	if !reflect.DeepEqual(got, bson.M{"code": "A-1"}) {
		t.Errorf("Or một mệnh đề phải rút gọn thành chính mệnh đề đó: %v", got)
	}
}

func TestBuild_Nil(t *testing.T) {
	if got := Build(nil); len(got) != 0 {
		t.Errorf("Build(nil) phải trả về filter rỗng: %v", got)
	}
}

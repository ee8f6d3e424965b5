// Package filter xây dựng điều kiện truy vấn MongoDB bằng API có kiểu,
// thay cho việc nối chuỗi filter thủ công ở nơi gọi. Mỗi Predicate tự render
// thành bson.M nên có thể kết hợp And/Or lồng nhau tùy ý.
package filter

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// Predicate là một điều kiện truy vấn render được thành bson.M.
type Predicate interface {
	BSON() bson.M
}

type eqPredicate struct {
	field string
	value interface{}
}

func (p eqPredicate) BSON() bson.M {
	return bson.M{p.field: p.value}
}

// Eq so khớp bằng.
func Eq(field string, value interface{}) Predicate {
	return eqPredicate{field: field, value: value}
}

type nePredicate struct {
	field string
	value interface{}
}

func (p nePredicate) BSON() bson.M {
	return bson.M{p.field: bson.M{"$ne": p.value}}
}

// Ne so khớp khác.
func Ne(field string, value interface{}) Predicate {
	return nePredicate{field: field, value: value}
}

type inPredicate struct {
	field  string
	values []interface{}
}

func (p inPredicate) BSON() bson.M {
	return bson.M{p.field: bson.M{"$in": p.values}}
}

// In so khớp thuộc danh sách.
func In(field string, values ...interface{}) Predicate {
	return inPredicate{field: field, values: values}
}

type containsPredicate struct {
	field  string
	substr string
}

func (p containsPredicate) BSON() bson.M {
	// Escape để chuỗi tìm kiếm không bị hiểu là regex
	return bson.M{p.field: bson.M{"$regex": regexp.QuoteMeta(p.substr), "$options": "i"}}
}

// Contains so khớp chứa chuỗi con, không phân biệt hoa thường.
func Contains(field, substr string) Predicate {
	return containsPredicate{field: field, substr: substr}
}

type cmpPredicate struct {
	field string
	op    string
	value interface{}
}

func (p cmpPredicate) BSON() bson.M {
	return bson.M{p.field: bson.M{p.op: p.value}}
}

// Gt so khớp lớn hơn.
func Gt(field string, value interface{}) Predicate {
	return cmpPredicate{field: field, op: "$gt", value: value}
}

// Gte so khớp lớn hơn hoặc bằng.
func Gte(field string, value interface{}) Predicate {
	return cmpPredicate{field: field, op: "$gte", value: value}
}

// Lt so khớp nhỏ hơn.
func Lt(field string, value interface{}) Predicate {
	return cmpPredicate{field: field, op: "$lt", value: value}
}

// Lte so khớp nhỏ hơn hoặc bằng.
func Lte(field string, value interface{}) Predicate {
	return cmpPredicate{field: field, op: "$lte", value: value}
}

type existsPredicate struct {
	field  string
	exists bool
}

func (p existsPredicate) BSON() bson.M {
	return bson.M{p.field: bson.M{"$exists": p.exists}}
}

// Exists so khớp field có mặt (hoặc vắng mặt) trong document.
func Exists(field string, exists bool) Predicate {
	return existsPredicate{field: field, exists: exists}
}

type groupPredicate struct {
	op    string
	parts []Predicate
}

func (p groupPredicate) BSON() bson.M {
	if len(p.parts) == 0 {
		return bson.M{}
	}
	if len(p.parts) == 1 {
		return p.parts[0].BSON()
	}
	clauses := make([]bson.M, 0, len(p.parts))
	for _, part := range p.parts {
		clauses = append(clauses, part.BSON())
	}
	return bson.M{p.op: clauses}
}

// And kết hợp các điều kiện bằng $and. Một điều kiện thì trả về chính nó.
func And(parts ...Predicate) Predicate {
	return groupPredicate{op: "$and", parts: parts}
}

// Or kết hợp các điều kiện bằng $or. Một điều kiện thì trả về chính nó.
func Or(parts ...Predicate) Predicate {
	return groupPredicate{op: "$or", parts: parts}
}

// Build render một predicate thành filter MongoDB. Nil trả về filter rỗng.
func Build(p Predicate) bson.M {
	if p == nil {
		return bson.M{}
	}
	return p.BSON()
}

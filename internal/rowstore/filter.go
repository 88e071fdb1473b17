package rowstore

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"
)

type Op string

const (
	OpEq       Op = "eq"
	OpGt       Op = "gt"
	OpGte      Op = "gte"
	OpLt       Op = "lt"
	OpLte      Op = "lte"
	OpContains Op = "contains"
	OpIn       Op = "in"
)

var suffixOps = map[string]Op{
	"gt":       OpGt,
	"gte":      OpGte,
	"lt":       OpLt,
	"lte":      OpLte,
	"contains": OpContains,
	"in":       OpIn,
}

// ParseKey splits a filter key into field and operator.
// Keys without a known suffix are equality constraints on the whole key.
func ParseKey(key string) (string, Op) {
	i := strings.LastIndexByte(key, '_')
	if i <= 0 {
		return key, OpEq
	}
	if op, ok := suffixOps[key[i+1:]]; ok {
		return key[:i], op
	}
	return key, OpEq
}

// Wire rewrites suffixed keys into the dotted form the Rows API understands
// (budget_gte -> budget.gte). Nil values are dropped and _in values become lists.
func (f Filter) Wire() map[string]any {
	out := make(map[string]any, len(f))
	for key, val := range f {
		if val == nil {
			continue
		}
		field, op := ParseKey(key)
		switch op {
		case OpEq:
			out[key] = ToWire(val)
		case OpIn:
			out[field+".in"] = ToWire(toList(val))
		default:
			out[field+"."+string(op)] = ToWire(val)
		}
	}
	return out
}

// Matches reports whether row satisfies every constraint of f.
// Used by backends that evaluate filters locally.
func (f Filter) Matches(row Row) bool {
	for key, want := range f {
		field, op := ParseKey(key)
		got, present := row[field]
		if want == nil {
			if op == OpEq && (!present || got == nil) {
				continue
			}
			return false
		}
		if !present || got == nil {
			return false
		}
		if !matchOp(op, got, want) {
			return false
		}
	}
	return true
}

func matchOp(op Op, got, want any) bool {
	switch op {
	case OpEq:
		return equalValues(got, want)
	case OpGt:
		c, ok := compareValues(got, want)
		return ok && c > 0
	case OpGte:
		c, ok := compareValues(got, want)
		return ok && c >= 0
	case OpLt:
		c, ok := compareValues(got, want)
		return ok && c < 0
	case OpLte:
		c, ok := compareValues(got, want)
		return ok && c <= 0
	case OpContains:
		return containsValue(got, want)
	case OpIn:
		for _, w := range toList(want) {
			if equalValues(got, w) {
				return true
			}
		}
		return false
	}
	return false
}

// SortRows orders rows in place by field. Missing values sort last.
func SortRows(rows []Row, field, direction string) {
	if field == "" {
		return
	}
	desc := strings.EqualFold(direction, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		a, aok := rows[i][field]
		b, bok := rows[j][field]
		if !aok || a == nil {
			return false
		}
		if !bok || b == nil {
			return true
		}
		c, ok := compareValues(a, b)
		if !ok {
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
	}
	if at, ok := toTime(a); ok {
		if bt, ok := toTime(b); ok {
			return at.Equal(bt)
		}
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// compareValues orders numbers numerically, timestamps chronologically and
// everything else as strings.
func compareValues(a, b any) (int, bool) {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1, true
			case af > bf:
				return 1, true
			}
			return 0, true
		}
	}
	if at, ok := toTime(a); ok {
		if bt, ok := toTime(b); ok {
			return at.Compare(bt), true
		}
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if aok && bok {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// containsValue is a case-insensitive substring test for strings and a
// membership test for lists.
func containsValue(got, want any) bool {
	if s, ok := got.(string); ok {
		return strings.Contains(strings.ToLower(s), strings.ToLower(fmt.Sprint(want)))
	}
	for _, item := range toList(got) {
		if s, ok := item.(string); ok {
			if strings.EqualFold(s, fmt.Sprint(want)) {
				return true
			}
			continue
		}
		if equalValues(item, want) {
			return true
		}
	}
	return false
}

func toList(v any) []any {
	switch x := v.(type) {
	case []any:
		return x
	case nil:
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, true
	case string:
		return ParseTime(x)
	}
	return time.Time{}, false
}

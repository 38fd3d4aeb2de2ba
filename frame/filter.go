package frame

import "strings"

// Operator represents a comparison operator for filtering.
type Operator string

const (
	// OpEqual represents the equality operator.
	OpEqual Operator = "eq"
	// OpNotEqual represents the inequality operator.
	OpNotEqual Operator = "ne"
	// OpGreaterThan represents the greater than operator.
	OpGreaterThan Operator = "gt"
	// OpGreaterEqual represents the greater than or equal operator.
	OpGreaterEqual Operator = "gte"
	// OpLessThan represents the less than operator.
	OpLessThan Operator = "lt"
	// OpLessEqual represents the less than or equal operator.
	OpLessEqual Operator = "lte"
	// OpIn represents the in list operator.
	OpIn Operator = "in"
	// OpContains represents the contains substring operator.
	OpContains Operator = "contains"
)

// Filter represents a single covariate filter condition.
type Filter struct {
	Key      string
	Operator Operator
	Value    Value
}

// Eq matches rows whose column equals the value.
func Eq(key string, v Value) Filter { return Filter{Key: key, Operator: OpEqual, Value: v} }

// Ne matches rows whose column does not equal the value.
func Ne(key string, v Value) Filter { return Filter{Key: key, Operator: OpNotEqual, Value: v} }

// Gt matches rows whose numeric column is greater than the value.
func Gt(key string, v Value) Filter { return Filter{Key: key, Operator: OpGreaterThan, Value: v} }

// Gte matches rows whose numeric column is greater than or equal to the value.
func Gte(key string, v Value) Filter { return Filter{Key: key, Operator: OpGreaterEqual, Value: v} }

// Lt matches rows whose numeric column is less than the value.
func Lt(key string, v Value) Filter { return Filter{Key: key, Operator: OpLessThan, Value: v} }

// Lte matches rows whose numeric column is less than or equal to the value.
func Lte(key string, v Value) Filter { return Filter{Key: key, Operator: OpLessEqual, Value: v} }

// In matches rows whose column equals one of the values.
func In(key string, vs ...Value) Filter {
	return Filter{Key: key, Operator: OpIn, Value: Array(vs)}
}

// Contains matches rows whose string column contains the substring.
func Contains(key string, substr string) Filter {
	return Filter{Key: key, Operator: OpContains, Value: String(substr)}
}

// FilterSet represents a set of filters that must all match (AND logic).
type FilterSet struct {
	Filters []Filter
}

// NewFilterSet creates a new filter set.
func NewFilterSet(filters ...Filter) *FilterSet {
	return &FilterSet{Filters: filters}
}

// Matches checks if the provided document matches this filter.
// A missing key never matches, regardless of the operator.
func (f *Filter) Matches(doc Document) bool {
	value, exists := doc[f.Key]
	if !exists {
		return false
	}
	return f.matchValue(value)
}

// matchValue evaluates the filter against a single cell value.
func (f *Filter) matchValue(value Value) bool {
	switch f.Operator {
	case OpEqual:
		return compareEqual(value, f.Value)
	case OpNotEqual:
		return !compareEqual(value, f.Value)
	case OpGreaterThan:
		return compareGreater(value, f.Value)
	case OpGreaterEqual:
		return compareGreater(value, f.Value) || compareEqual(value, f.Value)
	case OpLessThan:
		return compareLess(value, f.Value)
	case OpLessEqual:
		return compareLess(value, f.Value) || compareEqual(value, f.Value)
	case OpIn:
		return compareIn(value, f.Value)
	case OpContains:
		return compareContains(value, f.Value)
	default:
		return false
	}
}

// Matches checks if the provided document matches all filters in the set.
func (fs *FilterSet) Matches(doc Document) bool {
	for _, filter := range fs.Filters {
		if !filter.Matches(doc) {
			return false
		}
	}
	return true
}

func compareEqual(a, b Value) bool {
	if a.Kind == KindNull && b.Kind == KindNull {
		return true
	}
	if a.Kind == KindNull || b.Kind == KindNull {
		return false
	}

	if isNumber(a) && isNumber(b) {
		// Prefer exact int compare when possible.
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I64 == b.I64
		}
		return asFloat64(a) == asFloat64(b)
	}

	if a.Kind != b.Kind {
		return false
	}

	switch a.Kind {
	case KindString:
		return a.s == b.s
	case KindBool:
		return a.B == b.B
	case KindArray:
		if len(a.A) != len(b.A) {
			return false
		}
		for i := range a.A {
			if !compareEqual(a.A[i], b.A[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func compareGreater(a, b Value) bool {
	if !isNumber(a) || !isNumber(b) {
		return false
	}
	return asFloat64(a) > asFloat64(b)
}

func compareLess(a, b Value) bool {
	if !isNumber(a) || !isNumber(b) {
		return false
	}
	return asFloat64(a) < asFloat64(b)
}

func compareIn(a, b Value) bool {
	if b.Kind != KindArray {
		return false
	}
	for _, item := range b.A {
		if compareEqual(a, item) {
			return true
		}
	}
	return false
}

func compareContains(a, b Value) bool {
	if a.Kind != KindString || b.Kind != KindString {
		return false
	}
	return strings.Contains(a.s.Value(), b.s.Value())
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func asFloat64(v Value) float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.I64)
	case KindFloat:
		return v.F64
	default:
		return 0
	}
}

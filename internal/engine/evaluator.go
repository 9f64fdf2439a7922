package engine

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/steph544/compliance-app-sub001/internal/core"
)

// EvaluateCondition evaluates one atomic condition against the fact context.
// It is pure and total: malformed paths, type mismatches and unknown operators
// all evaluate to false rather than erroring.
func EvaluateCondition(cond core.Condition, ctx core.FactContext) bool {
	ok, _ := evalCondition(cond, ctx)
	return ok
}

// EvaluateGroup combines atomic conditions with ALL/ANY semantics.
// A present 'all' list must pass entirely (empty list is vacuously true).
// Otherwise a present 'any' list needs at least one pass (empty list is false).
// A group with neither list evaluates to false. When both are present, 'all'
// takes precedence; the catalog validator rejects that shape at load time.
func EvaluateGroup(group core.ConditionGroup, ctx core.FactContext) bool {
	if group.All != nil {
		for _, cond := range group.All {
			if !EvaluateCondition(cond, ctx) {
				return false
			}
		}
		return true
	}

	if group.Any != nil {
		for _, cond := range group.Any {
			if EvaluateCondition(cond, ctx) {
				return true
			}
		}
		return false
	}

	return false
}

// evalCondition returns the verdict plus a reason string for tracing.
func evalCondition(cond core.Condition, ctx core.FactContext) (bool, string) {
	val, found := ctx.Resolve(cond.Field)

	switch cond.Operator {
	case core.OpExists:
		if !valueExists(val, found) {
			return false, fmt.Sprintf("field '%s' does not exist", cond.Field)
		}
		return true, ""

	case core.OpNotExists:
		if valueExists(val, found) {
			return false, fmt.Sprintf("field '%s' exists", cond.Field)
		}
		return true, ""
	}

	if !found {
		return false, fmt.Sprintf("field '%s' missing", cond.Field)
	}

	switch cond.Operator {
	case core.OpEqual:
		if !valuesEqual(val, cond.Value) {
			return false, fmt.Sprintf("expected '%v' to equal '%v'", val, cond.Value)
		}
		return true, ""

	case core.OpNotEqual:
		if valuesEqual(val, cond.Value) {
			return false, fmt.Sprintf("expected '%v' to not equal '%v'", val, cond.Value)
		}
		return true, ""

	case core.OpIn:
		// check if the field value (val) is inside the condition list (cond.Value)
		// e.g. "deployment.region in ['eu', 'uk']"
		if !listContains(cond.Value, val) {
			return false, fmt.Sprintf("value '%v' not in list '%v'", val, cond.Value)
		}
		return true, ""

	case core.OpContains:
		// check if the field value contains the condition value
		// e.g. "data.categories contains 'phi'"
		if !containerContains(val, cond.Value) {
			return false, fmt.Sprintf("value '%v' does not contain '%v'", val, cond.Value)
		}
		return true, ""

	case core.OpGTE:
		a, aOK := toNumber(val)
		b, bOK := toNumber(cond.Value)
		if !aOK || !bOK {
			return false, fmt.Sprintf("non-numeric comparison '%v' >= '%v'", val, cond.Value)
		}
		if a < b {
			return false, fmt.Sprintf("expected %v >= %v", a, b)
		}
		return true, ""

	case core.OpLTE:
		a, aOK := toNumber(val)
		b, bOK := toNumber(cond.Value)
		if !aOK || !bOK {
			return false, fmt.Sprintf("non-numeric comparison '%v' <= '%v'", val, cond.Value)
		}
		if a > b {
			return false, fmt.Sprintf("expected %v <= %v", a, b)
		}
		return true, ""
	}

	return false, fmt.Sprintf("unknown operator '%s' in condition", cond.Operator)
}

// valueExists applies the per-type existence rule: arrays exist when
// non-empty; scalars exist unless missing, nil or boolean false.
// The literal 0 and "" count as existing.
func valueExists(val any, found bool) bool {
	if !found || val == nil {
		return false
	}
	v := reflect.ValueOf(val)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return v.Len() > 0
	}
	if b, ok := val.(bool); ok {
		return b
	}
	return true
}

// valuesEqual is strict equality. The only widening applied is between
// numeric kinds (int vs float64 from decoded YAML/JSON); strings are never
// coerced to numbers or vice versa.
func valuesEqual(a, b any) bool {
	if an, ok := toNumber(a); ok {
		if bn, ok := toNumber(b); ok {
			return an == bn
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

// listContains reports whether container (a slice) holds item.
func listContains(container, item any) bool {
	v := reflect.ValueOf(container)
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if valuesEqual(v.Index(i).Interface(), item) {
			return true
		}
	}
	return false
}

// containerContains handles the two legal 'contains' shapes: a slice field
// holding the item, or a substring match when both sides are strings.
// Every other combination is false.
func containerContains(container, item any) bool {
	if str, ok := container.(string); ok {
		if subStr, ok := item.(string); ok {
			return strings.Contains(str, subStr)
		}
		return false
	}
	return listContains(container, item)
}

func toNumber(val any) (float64, bool) {
	switch n := val.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

package core

import "fmt"

// Operator defines how a condition compares the resolved field value.
type Operator string

const (
	OpEqual    Operator = "eq"
	OpNotEqual Operator = "neq"
	// OpIn means the field value is contained in the condition's list value.
	// e.g. "deployment.region in ['eu', 'uk']"
	OpIn Operator = "in"
	// OpContains means the field value contains the condition value.
	// for lists: ["pii", "phi"] contains "phi"
	// for strings: "hello world" contains "world"
	OpContains Operator = "contains"
	OpGTE      Operator = "gte"
	OpLTE      Operator = "lte"
	// OpExists is true for non-empty arrays, and for scalars that are neither
	// missing, nil, nor boolean false. The literal 0 and "" count as existing.
	OpExists    Operator = "exists"
	OpNotExists Operator = "not_exists"
)

func (op Operator) IsValid() bool {
	switch op {
	case OpEqual, OpNotEqual, OpIn, OpContains, OpGTE, OpLTE, OpExists, OpNotExists:
		return true
	default:
		return false
	}
}

// Condition is a single atomic check against a fact context field.
// It is stateless and pure; evaluation lives in the engine package.
type Condition struct {
	// Field is the dotted path into the fact context.
	Field string `yaml:"field" json:"field"`

	// Operator selects the comparison; unknown operators fail closed.
	Operator Operator `yaml:"operator" json:"operator"`

	// Value is the comparison operand. For OpIn it must be a list.
	Value any `yaml:"value,omitempty" json:"value,omitempty"`
}

// ConditionGroup combines atomic conditions with ALL/ANY semantics.
// Groups are one level deep: conditions do not nest further.
//
// Exactly one of All/Any is meaningful. When both are set, All takes
// precedence; when neither is set, the group evaluates to false.
type ConditionGroup struct {
	All []Condition `yaml:"all,omitempty" json:"all,omitempty"`
	Any []Condition `yaml:"any,omitempty" json:"any,omitempty"`
}

func (c *Condition) UnmarshalYAML(unmarshal func(any) error) error {
	var raw map[string]any
	if err := unmarshal(&raw); err != nil {
		// a condition must at least be a mapping
		return err
	}

	// isExplicit marks whether the condition is explicitly defined:
	//   { field: data.categories, operator: contains, value: "phi" }
	// or implicitly:
	//   { data.categories: { contains: phi } }
	isExplicit := false
	for k := range raw {
		if k == "field" || k == "operator" || k == "value" {
			isExplicit = true
			break
		}
	}

	if isExplicit {
		type plain Condition // prevents recursion into this unmarshaler
		var p plain
		if err := unmarshal(&p); err != nil {
			return err
		}
		*c = Condition(p)

		// implicit eq when the operator is omitted
		if c.Field != "" && c.Operator == "" {
			c.Operator = OpEqual
		}
		return nil
	}

	// shorthand form: a single { path: value } or { path: { op: value } } pair
	if len(raw) != 1 {
		return fmt.Errorf("shorthand condition must have exactly one field, got %d", len(raw))
	}

	for k, v := range raw {
		c.Field = k

		if vMap, ok := v.(map[string]any); ok {
			foundOperator := false
			for opKey, opVal := range vMap {
				op := Operator(opKey)
				if op.IsValid() {
					c.Operator = op
					c.Value = opVal
					foundOperator = true
					break // one operator per shorthand
				}
			}
			if !foundOperator {
				// a map value without a recognized operator is plain equality
				c.Operator = OpEqual
				c.Value = v
			}
		} else {
			c.Operator = OpEqual
			c.Value = v
		}
	}

	return nil
}

func (c *Condition) Validate() error {
	if c == nil {
		return nil
	}
	if c.Field == "" {
		return fmt.Errorf("condition is missing a field path")
	}
	if !c.Operator.IsValid() {
		return fmt.Errorf("invalid operator '%s' for field '%s'", c.Operator, c.Field)
	}
	return nil
}

func (g ConditionGroup) Validate() error {
	for _, cond := range g.All {
		if err := cond.Validate(); err != nil {
			return err
		}
	}
	for _, cond := range g.Any {
		if err := cond.Validate(); err != nil {
			return err
		}
	}
	if len(g.All) > 0 && len(g.Any) > 0 {
		// legal but almost always a mistake: only 'all' is honored
		return fmt.Errorf("condition group sets both 'all' and 'any'; only 'all' would be evaluated")
	}
	return nil
}

package enums

import (
	"fmt"
	"strings"
)

// Condition is the seller's self-assessed state of the car.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
)

// DefaultCondition is preselected on the sell-car form.
const DefaultCondition = ConditionGood

var validConditions = []Condition{
	ConditionExcellent,
	ConditionGood,
	ConditionFair,
}

// String implements fmt.Stringer.
func (c Condition) String() string {
	return string(c)
}

// Label returns the capitalized form shown to customers.
func (c Condition) Label() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// IsValid reports whether the value is a known Condition.
func (c Condition) IsValid() bool {
	for _, candidate := range validConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCondition accepts either the form value or the API label.
func ParseCondition(value string) (Condition, error) {
	normalized := Condition(strings.ToLower(strings.TrimSpace(value)))
	for _, candidate := range validConditions {
		if candidate == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid condition %q", value)
}

package gqlcost

import (
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

// Cost provides each cost value for type.field
type Cost struct {
	// Complexity is the base cost of resolving the field once. nil means
	// the default complexity: 1, or ComplexityRange.Min when a range is
	// configured.
	Complexity *int `json:"complexity,omitempty" yaml:"complexity,omitempty"`

	// UseMultipliers enables multiplier scaling. nil means true.
	UseMultipliers *bool `json:"useMultipliers,omitempty" yaml:"useMultipliers,omitempty"`

	// Multipliers are argument names whose values scale the cost. Nested
	// input fields are addressed with dots, like "filter.first".
	Multipliers []string `json:"multipliers,omitempty" yaml:"multipliers,omitempty"`

	// Multiplier is a single multiplier name.
	//
	// Deprecated: use Multipliers.
	Multiplier string `json:"multiplier,omitempty" yaml:"multiplier,omitempty"`

	// Defaults gives fallback values for multipliers whose argument was not
	// supplied.
	Defaults map[string]int `json:"defaults,omitempty" yaml:"defaults,omitempty"`

	// ComplexityFunc computes the complexity, overriding Complexity.
	ComplexityFunc func(FieldContext) int `json:"-" yaml:"-"`

	// MultipliersFunc computes multiplier names, overriding Multipliers.
	MultipliersFunc func(FieldContext) []string `json:"-" yaml:"-"`
}

// isEmpty returns true when c doesn't configure anything.
func (c *Cost) isEmpty() bool {
	return c.Complexity == nil && c.UseMultipliers == nil &&
		len(c.Multipliers) == 0 && c.Multiplier == "" &&
		len(c.Defaults) == 0 &&
		c.ComplexityFunc == nil && c.MultipliersFunc == nil
}

// FieldContext is passed to computed cost values.
type FieldContext struct {
	Field      *Field
	ParentType string
	Args       map[string]interface{}
}

// Bool returns a pointer to v, for Cost.UseMultipliers.
func Bool(v bool) *bool {
	return &v
}

// Int returns a pointer to v, for Cost.Complexity.
func Int(v int) *int {
	return &v
}

// FieldsCost provides costs for each fields.
type FieldsCost map[string]Cost

// CostMap provides costs for fields, keyed by type name then field name.
//
// When a CostMap is set in AnalysisOptions, cost metadata of the schema is
// never consulted: fields without an entry cost DefaultCost.
type CostMap map[string]FieldsCost

func (m CostMap) getCost(parentTypeName, fieldName string) *Cost {
	fields, ok := m[parentTypeName]
	if !ok {
		return nil
	}
	c, ok := fields[fieldName]
	if !ok || c.isEmpty() {
		return nil
	}
	return &c
}

// LoadCostMap reads a CostMap from JSON.
func LoadCostMap(r io.Reader) (CostMap, error) {
	m := CostMap{}
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(err, "error decoding cost map")
	}
	return m, nil
}

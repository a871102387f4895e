package gqlcost

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type nodeCostConfig struct {
	useMultipliers bool
	complexity     int
	multipliers    []int
}

// getCostConfig resolves the cost configuration of a field. It returns
// false when DefaultCost should be applied instead.
func (ca *Analysis) getCostConfig(field *Field, parent Type, def FieldDef, fieldArgs map[string]interface{}) (nodeCostConfig, bool) {
	var cost *Cost
	if ca.opts.CostMap != nil {
		cost = ca.opts.CostMap.getCost(parent.Name(), field.Name)
	} else if cost = def.Cost(); cost == nil {
		// cost of the returned type applies to fields without their own.
		if t := def.Type(); t != nil && t.Kind() == ObjectKind {
			cost = t.Cost()
		}
	}
	if cost == nil {
		return nodeCostConfig{}, false
	}

	fc := FieldContext{
		Field:      field,
		ParentType: parent.Name(),
		Args:       fieldArgs,
	}
	ncc := nodeCostConfig{
		useMultipliers: true,
		complexity:     ca.defaultComplexity,
	}
	if cost.UseMultipliers != nil {
		ncc.useMultipliers = *cost.UseMultipliers
	}
	switch {
	case cost.ComplexityFunc != nil:
		ncc.complexity = cost.ComplexityFunc(fc)
	case cost.Complexity != nil:
		ncc.complexity = *cost.Complexity
	}

	names := cost.Multipliers
	if cost.MultipliersFunc != nil {
		names = cost.MultipliersFunc(fc)
	}
	if len(names) == 0 && cost.Multiplier != "" {
		ca.warnDeprecatedMultiplier(fc)
		names = []string{cost.Multiplier}
	}
	ncc.multipliers = getMultipliers(names, fieldArgs, cost.Defaults)
	return ncc, true
}

func (ca *Analysis) warnDeprecatedMultiplier(fc FieldContext) {
	if ca.opts.Logger == nil {
		return
	}
	ca.opts.Logger.WithFields(logrus.Fields{
		"type":  fc.ParentType,
		"field": fc.Field.Name,
	}).Warn("cost: \"multiplier\" is deprecated, use \"multipliers\" instead")
}

// computeCost returns the cost of a field, and the multipliers its
// selections inherit. parentMultipliers is never modified: when the field
// adds a multiplier, a new slice is returned.
func (ca *Analysis) computeCost(ncc nodeCostConfig, parentMultipliers []int, node interface{}) (int, []int) {
	if ca.opts.ComplexityRange.outside(ncc.complexity) {
		ca.host.ReportError(errors.Errorf("The complexity argument must be between %d and %d", ca.opts.ComplexityRange.Min, ca.opts.ComplexityRange.Max), node)
		return ca.opts.DefaultCost, parentMultipliers
	}

	if !ncc.useMultipliers {
		return ncc.complexity, parentMultipliers
	}

	multipliers := parentMultipliers
	if mul := sumInts(ncc.multipliers); mul != 0 {
		multipliers = append(copyInts(parentMultipliers), mul)
	}

	acc := ncc.complexity
	for _, v := range multipliers {
		acc = mulSaturated(acc, v)
	}

	return acc, multipliers
}

package gqlcost

import (
	"github.com/pkg/errors"
)

// Analysis evaluates the cost of the operations of one document. A host
// drives it by calling EnterOperation and LeaveOperation for each
// operation, after that Cost returns the total.
type Analysis struct {
	opts AnalysisOptions
	host Host
	cost int

	defaultComplexity int

	// fragments being walked on the current path, to stop cycles.
	fragments map[string]struct{}
}

// NewAnalysis creates an Analysis for one document of host.
func NewAnalysis(host Host, opts AnalysisOptions) (*Analysis, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return newAnalysis(host, opts), nil
}

func newAnalysis(host Host, opts AnalysisOptions) *Analysis {
	ca := &Analysis{
		opts:              opts,
		host:              host,
		defaultComplexity: 1,
		fragments:         map[string]struct{}{},
	}
	if !opts.ComplexityRange.isZero() {
		ca.defaultComplexity = opts.ComplexityRange.Min
	}
	return ca
}

// Cost returns the total cost of operations analyzed so far.
func (ca *Analysis) Cost() int {
	return ca.cost
}

// EnterOperation computes the cost of op and adds it to the total.
func (ca *Analysis) EnterOperation(op *Operation) error {
	s := ca.host.Schema()
	var root Type
	switch op.Kind {
	case OperationQuery:
		root = s.QueryType()
	case OperationMutation:
		root = s.MutationType()
	case OperationSubscription:
		root = s.SubscriptionType()
	default:
		return errors.Wrapf(ErrUnsupportedOperation, "cost could not be calculated for operation of type %q", op.Kind)
	}
	if root != nil {
		ca.cost = addSaturated(ca.cost, ca.computeNodeCost(op.SelectionSet, root, nil))
	}
	return nil
}

// LeaveOperation reports the total cost to OnComplete, and reports an
// error to the host when it exceeds MaximumCost.
func (ca *Analysis) LeaveOperation(op *Operation) {
	if ca.opts.OnComplete != nil {
		ca.opts.OnComplete(ca.cost)
	}
	if ca.cost <= ca.opts.MaximumCost {
		return
	}
	var err error
	if ca.opts.CreateError != nil {
		err = ca.opts.CreateError(ca.opts.MaximumCost, ca.cost)
	}
	if err == nil {
		err = errors.Errorf("The query exceeds the maximum cost of %d. Actual cost is %d", ca.opts.MaximumCost, ca.cost)
	}
	ca.host.ReportError(err, op.Node)
}

// computeNodeCost returns the cost of selections, resolved against typ.
// parentMultipliers is owned by the caller and never modified.
func (ca *Analysis) computeNodeCost(selections []Selection, typ Type, parentMultipliers []int) int {
	var (
		total         int
		fragmentCosts []int
	)

	for _, iSelection := range selections {
		var nodeCost int
		switch childNode := iSelection.(type) {

		case *Field:
			nodeCost = ca.computeFieldCost(childNode, typ, parentMultipliers)

		case *FragmentSpread:
			fragmentCosts = append(fragmentCosts, ca.computeFragmentCost(childNode, parentMultipliers))

		case *InlineFragment:
			fragType := typ
			if childNode.TypeCondition != "" {
				fragType = ca.host.Schema().Type(childNode.TypeCondition)
			}
			fragCost := ca.computeNodeCost(childNode.SelectionSet, fragType, parentMultipliers)
			fragmentCosts = append(fragmentCosts, fragCost)

		case nil:

		default:
			nodeCost = ca.computeNodeCost(childNode.GetSelectionSet(), typ, parentMultipliers)
		}
		if nodeCost > 0 {
			total = addSaturated(total, nodeCost)
		}
	}

	return addSaturated(total, maxCost(fragmentCosts))
}

// computeFieldCost returns the cost of a field and its selections.
func (ca *Analysis) computeFieldCost(field *Field, parent Type, parentMultipliers []int) int {
	if parent == nil {
		return 0
	}
	def := parent.Field(field.Name)
	if def == nil {
		// unknown fields are reported by other validation rules.
		return 0
	}
	args, err := def.ArgumentValues(field, ca.opts.Variables)
	if err != nil {
		return 0
	}

	nodeCost := ca.opts.DefaultCost
	multipliers := parentMultipliers
	if ncc, ok := ca.getCostConfig(field, parent, def, args); ok {
		nodeCost, multipliers = ca.computeCost(ncc, parentMultipliers, field.Node)
	}
	return addSaturated(nodeCost, ca.computeNodeCost(field.SelectionSet, def.Type(), multipliers))
}

func (ca *Analysis) computeFragmentCost(spread *FragmentSpread, parentMultipliers []int) int {
	fr := ca.host.Fragment(spread.Name)
	if fr == nil || fr.TypeCondition == "" {
		return ca.opts.DefaultCost
	}
	if _, ok := ca.fragments[spread.Name]; ok {
		return 0
	}
	ca.fragments[spread.Name] = struct{}{}
	defer delete(ca.fragments, spread.Name)
	fragType := ca.host.Schema().Type(fr.TypeCondition)
	return ca.computeNodeCost(fr.SelectionSet, fragType, parentMultipliers)
}

// Package gqlcost computes the cost of GraphQL operations before they are
// executed, and reports operations whose cost exceeds a maximum.
//
// The cost of a field is its complexity multiplied by the multipliers
// (pagination limits and alike) of the field and its ancestors. Costs are
// configured with a CostMap, or with metadata carried by the schema (see
// package sdl for `@cost` directives).
package gqlcost

import (
	"sync"

	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidMaximumCost is returned when MaximumCost isn't positive.
	ErrInvalidMaximumCost = errors.New("invalid maximum cost")

	// ErrInvalidComplexityRange is returned for a malformed ComplexityRange.
	ErrInvalidComplexityRange = errors.New("invalid minimum and maximum complexity")

	// ErrUnsupportedOperation is returned for an operation which is none of
	// query, mutation or subscription.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// AnalysisOptions provides options for cost analysis.
type AnalysisOptions struct {
	// MaximumCost is the cost budget of a document. Required.
	MaximumCost int
	// DefaultCost is the cost of fields without cost configuration.
	DefaultCost int
	// Variables are the variable values of the request.
	Variables map[string]interface{}

	// CostMap overrides costs of the schema when not nil.
	CostMap         CostMap
	ComplexityRange ComplexityRange

	// OnComplete is called with the total cost when an operation has been
	// analyzed, whether the cost is acceptable or not.
	OnComplete func(cost int)
	// CreateError builds the error reported when cost exceeds maximumCost.
	CreateError func(maximumCost, cost int) error

	// Logger receives deprecation warnings. Warnings are dropped when nil.
	Logger logrus.FieldLogger
}

// Validate checks options.
func (opts AnalysisOptions) Validate() error {
	if opts.MaximumCost <= 0 {
		return errors.Wrapf(ErrInvalidMaximumCost, "maximumCost must be a positive number, got %d", opts.MaximumCost)
	}
	cr := opts.ComplexityRange
	if cr.isZero() {
		return nil
	}
	if cr.Min <= 0 || cr.Max <= 0 {
		return errors.Wrapf(ErrInvalidComplexityRange, "min and max must be positive, got min=%d max=%d", cr.Min, cr.Max)
	}
	if cr.Min >= cr.Max {
		return errors.Wrapf(ErrInvalidComplexityRange, "min must be less than max, got min=%d max=%d", cr.Min, cr.Max)
	}
	return nil
}

var (
	ruleMu sync.RWMutex
	rule   *costAnalysisRule
)

// AddCostAnalysisRule adds a rule of cost analysis to
// graphql.SpecifiedRules. The rule is added once, later calls replace its
// options.
func AddCostAnalysisRule(opts AnalysisOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	ruleMu.Lock()
	defer ruleMu.Unlock()
	if rule == nil {
		graphql.SpecifiedRules = append(graphql.SpecifiedRules, specifiedRule)
	}
	rule = &costAnalysisRule{opts: opts}
	return nil
}

func specifiedRule(context *graphql.ValidationContext) *graphql.ValidationRuleInstance {
	ruleMu.RLock()
	r := rule
	ruleMu.RUnlock()
	return r.validationRule(context)
}

// AnalysisRule provides cost analysis rule (function)
func AnalysisRule(opts AnalysisOptions) (graphql.ValidationRuleFn, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &costAnalysisRule{
		opts: opts,
	}
	return r.validationRule, nil
}

type costAnalysisRule struct {
	opts AnalysisOptions
}

func (r *costAnalysisRule) validationRule(context *graphql.ValidationContext) *graphql.ValidationRuleInstance {
	h := newGraphQLGoHost(context)
	ca := newAnalysis(h, r.opts)
	return &graphql.ValidationRuleInstance{VisitorOpts: h.visitorOptions(ca)}
}

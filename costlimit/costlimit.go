// Package costlimit provides a gqlgen handler extension which rejects
// operations whose cost exceeds a maximum. Costs are read from `@cost`
// directives of the executable schema, or from Options.CostMap.
package costlimit

import (
	"context"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/errcode"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/koron-go/gqlcost/v2"
	"github.com/koron-go/gqlcost/v2/sdl"
)

// ExtensionName is the name of the extension, and the key of Stats.
const ExtensionName = "CostAnalysis"

// ErrCode is set as the code extension of errors for rejected operations.
const ErrCode = "COST_LIMIT_EXCEEDED"

// Extension computes the cost of each operation before execution.
type Extension struct {
	Options gqlcost.AnalysisOptions

	schema *sdl.Schema
}

var _ interface {
	graphql.HandlerExtension
	graphql.OperationContextMutator
} = &Extension{}

// New creates an Extension. Options.Variables is ignored, variables of each
// request are used instead.
func New(opts gqlcost.AnalysisOptions) *Extension {
	return &Extension{Options: opts}
}

// Stats is the result of the analysis of an operation.
type Stats struct {
	Cost        int
	MaximumCost int
	// Errors reported while the cost was computed, except the one for
	// exceeding MaximumCost.
	Errors gqlerror.List
}

// ExtensionName implements graphql.HandlerExtension.
func (e *Extension) ExtensionName() string {
	return ExtensionName
}

// Validate implements graphql.HandlerExtension.
func (e *Extension) Validate(es graphql.ExecutableSchema) error {
	if err := e.Options.Validate(); err != nil {
		return errors.Wrap(err, "CostAnalysis")
	}
	s, err := sdl.NewSchema(es.Schema())
	if err != nil {
		return errors.Wrap(err, "CostAnalysis")
	}
	e.schema = s
	return nil
}

// MutateOperationContext implements graphql.OperationContextMutator.
func (e *Extension) MutateOperationContext(ctx context.Context, rc *graphql.OperationContext) *gqlerror.Error {
	op := rc.Doc.Operations.ForName(rc.OperationName)
	if op == nil {
		// reported by the executor.
		return nil
	}
	opts := e.Options
	opts.Variables = rc.Variables
	cost, errs, err := sdl.AnalyzeOperation(e.schema, rc.Doc, op, opts)
	if err != nil {
		return gqlerror.Errorf("%s", err.Error())
	}

	stats := &Stats{
		Cost:        cost,
		MaximumCost: opts.MaximumCost,
		Errors:      errs,
	}
	var exceeded *gqlerror.Error
	if cost > opts.MaximumCost && len(errs) > 0 {
		// the error for the maximum is reported last.
		exceeded = errs[len(errs)-1]
		stats.Errors = errs[:len(errs)-1]
	}
	rc.Stats.SetExtension(ExtensionName, stats)

	if exceeded != nil {
		errcode.Set(exceeded, ErrCode)
		return exceeded
	}
	return nil
}

// GetStats returns the Stats of the operation of ctx, or nil.
func GetStats(ctx context.Context) *Stats {
	if !graphql.HasOperationContext(ctx) {
		return nil
	}
	rc := graphql.GetOperationContext(ctx)
	s, _ := rc.Stats.GetExtension(ExtensionName).(*Stats)
	return s
}

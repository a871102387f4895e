package sdl

import (
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"github.com/vektah/gqlparser/v2/validator/core"

	"github.com/koron-go/gqlcost/v2"
)

// RuleName is the name of the rule added by AddCostAnalysisRule.
const RuleName = "CostAnalysis"

// Analyze computes the total cost of all operations of doc. Errors of the
// analysis, like exceeding MaximumCost, are returned as a list. The error
// result is for invalid options only.
func Analyze(s *Schema, doc *ast.QueryDocument, opts gqlcost.AnalysisOptions) (int, gqlerror.List, error) {
	return analyze(s, doc, doc.Operations, opts)
}

// AnalyzeOperation computes the cost of one operation of doc.
func AnalyzeOperation(s *Schema, doc *ast.QueryDocument, op *ast.OperationDefinition, opts gqlcost.AnalysisOptions) (int, gqlerror.List, error) {
	if op == nil {
		return 0, nil, errors.New("operation is nil")
	}
	return analyze(s, doc, ast.OperationList{op}, opts)
}

func analyze(s *Schema, doc *ast.QueryDocument, ops ast.OperationList, opts gqlcost.AnalysisOptions) (int, gqlerror.List, error) {
	var errs gqlerror.List
	h := newHost(s, doc, func(err error, pos *ast.Position) {
		errs = append(errs, toError(err, pos))
	})
	ca, err := gqlcost.NewAnalysis(h, opts)
	if err != nil {
		return 0, nil, err
	}
	for _, op := range ops {
		o := convertOperation(op)
		if err := ca.EnterOperation(o); err != nil {
			return ca.Cost(), errs, err
		}
		ca.LeaveOperation(o)
	}
	return ca.Cost(), errs, nil
}

// AddCostAnalysisRule adds a rule of cost analysis to the validator of
// gqlparser, replacing the rule of a previous call. The rule reads costs
// from s when the validated schema is s, otherwise it resolves them from
// the validated schema each time. The rule set of gqlparser is global, so
// calls must not run concurrently with validation.
func AddCostAnalysisRule(s *Schema, opts gqlcost.AnalysisOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	validator.ReplaceRule(RuleName, func(observers *core.Events, addError core.AddErrFunc) {
		// the rule function runs once per validation, so one analysis
		// accumulates all operations of the document.
		var ca *gqlcost.Analysis
		observers.OnOperation(func(walker *core.Walker, operation *ast.OperationDefinition) {
			if ca == nil {
				schema := s
				if s == nil || walker.Schema != s.AST() {
					var err error
					if schema, err = NewSchema(walker.Schema); err != nil {
						addError(core.Message("%s", err.Error()), core.At(operation.Position))
						return
					}
				}
				h := newHost(schema, walker.Document, func(err error, pos *ast.Position) {
					addError(core.Message("%s", err.Error()), core.At(pos))
				})
				var err error
				if ca, err = gqlcost.NewAnalysis(h, opts); err != nil {
					addError(core.Message("%s", err.Error()), core.At(operation.Position))
					return
				}
			}
			o := convertOperation(operation)
			if err := ca.EnterOperation(o); err != nil {
				panic(err)
			}
			ca.LeaveOperation(o)
		})
	})
	return nil
}

func toError(err error, pos *ast.Position) *gqlerror.Error {
	if gerr, ok := errors.Cause(err).(*gqlerror.Error); ok {
		return gerr
	}
	if pos == nil || pos.Src == nil {
		return gqlerror.Errorf("%s", err.Error())
	}
	return gqlerror.ErrorPosf(pos, "%s", err.Error())
}

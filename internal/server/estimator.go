package server

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/koron-go/gqlcost/v2"
	"github.com/koron-go/gqlcost/v2/internal/observability"
	"github.com/koron-go/gqlcost/v2/sdl"
)

// Request is a GraphQL request to estimate.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName,omitempty"`
	Variables     map[string]interface{} `json:"variables,omitempty"`
}

// Response is the estimated cost of a Request. Errors describe invalid
// documents and budget violations.
type Response struct {
	Cost        int           `json:"cost"`
	MaximumCost int           `json:"maximumCost"`
	Errors      gqlerror.List `json:"errors,omitempty"`
}

// Exceeded returns true when the cost is over the maximum.
func (r *Response) Exceeded() bool {
	return r.Cost > r.MaximumCost
}

type document struct {
	doc  *ast.QueryDocument
	errs gqlerror.List
}

// Estimator computes costs of requests against a schema. It is safe for
// concurrent use.
type Estimator struct {
	schema  *sdl.Schema
	opts    gqlcost.AnalysisOptions
	metrics *observability.Metrics

	// parsed and validated documents by query text.
	docs *lru.Cache[string, *document]
}

// NewEstimator creates an Estimator. Up to cacheSize parsed documents are
// kept, zero disables the cache. metrics may be nil.
func NewEstimator(schema *sdl.Schema, opts gqlcost.AnalysisOptions, cacheSize int, metrics *observability.Metrics) (*Estimator, error) {
	if schema == nil {
		return nil, errors.New("schema is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	e := &Estimator{
		schema:  schema,
		opts:    opts,
		metrics: metrics,
	}
	if cacheSize > 0 {
		c, err := lru.New[string, *document](cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "error creating document cache")
		}
		e.docs = c
	}
	return e, nil
}

// Estimate computes the cost of req.
func (e *Estimator) Estimate(req *Request) *Response {
	resp := &Response{MaximumCost: e.opts.MaximumCost}

	d := e.load(req.Query)
	if len(d.errs) > 0 {
		resp.Errors = d.errs
		e.reject("invalid")
		return resp
	}

	opts := e.opts
	opts.Variables = req.Variables

	var (
		cost int
		errs gqlerror.List
		err  error
	)
	if req.OperationName != "" {
		op := d.doc.Operations.ForName(req.OperationName)
		if op == nil {
			resp.Errors = gqlerror.List{gqlerror.Errorf("Unknown operation named %q.", req.OperationName)}
			e.reject("invalid")
			return resp
		}
		cost, errs, err = sdl.AnalyzeOperation(e.schema, d.doc, op, opts)
	} else {
		cost, errs, err = sdl.Analyze(e.schema, d.doc, opts)
	}
	if err != nil {
		// options were validated already, this is an unsupported operation.
		resp.Errors = append(errs, gqlerror.Errorf("%s", err.Error()))
		e.reject("invalid")
		return resp
	}

	resp.Cost = cost
	resp.Errors = errs
	if e.metrics != nil {
		e.metrics.QueryCost.Observe(float64(cost))
	}
	if resp.Exceeded() {
		e.reject("maximum_cost")
	}
	return resp
}

func (e *Estimator) load(query string) *document {
	if e.docs == nil {
		return parse(e.schema, query)
	}
	if d, ok := e.docs.Get(query); ok {
		e.count("hit")
		return d
	}
	e.count("miss")
	d := parse(e.schema, query)
	e.docs.Add(query, d)
	return d
}

func parse(schema *sdl.Schema, query string) *document {
	if query == "" {
		return &document{errs: gqlerror.List{gqlerror.Errorf("query is required")}}
	}
	doc, errs := gqlparser.LoadQuery(schema.AST(), query)
	return &document{doc: doc, errs: errs}
}

func (e *Estimator) count(result string) {
	if e.metrics != nil {
		e.metrics.DocumentCache.WithLabelValues(result).Inc()
	}
}

func (e *Estimator) reject(reason string) {
	if e.metrics != nil {
		e.metrics.QueriesRejected.WithLabelValues(reason).Inc()
	}
}

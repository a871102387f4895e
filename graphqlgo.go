package gqlcost

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/kinds"
	"github.com/graphql-go/graphql/language/visitor"
)

// graphqlGoHost binds Analysis to a validation context of
// github.com/graphql-go/graphql.
//
// NOTE: graphql-go/graphql doesn't support directives in schema. So types
// and fields never carry cost metadata, only CostMap applies.
type graphqlGoHost struct {
	ctx       *graphql.ValidationContext
	fragments map[string]*Fragment

	// operation being visited.
	op *Operation
}

func newGraphQLGoHost(ctx *graphql.ValidationContext) *graphqlGoHost {
	return &graphqlGoHost{
		ctx:       ctx,
		fragments: map[string]*Fragment{},
	}
}

func (h *graphqlGoHost) visitorOptions(ca *Analysis) *visitor.VisitorOptions {
	return &visitor.VisitorOptions{
		KindFuncMap: map[string]visitor.NamedVisitFuncs{
			kinds.OperationDefinition: {
				Enter: func(p visitor.VisitFuncParams) (string, interface{}) {
					od, ok := p.Node.(*ast.OperationDefinition)
					if !ok {
						return visitor.ActionSkip, nil
					}
					h.op = convertOperation(od)
					if err := ca.EnterOperation(h.op); err != nil {
						panic(err)
					}
					return visitor.ActionNoChange, nil
				},
				Leave: func(p visitor.VisitFuncParams) (string, interface{}) {
					if _, ok := p.Node.(*ast.OperationDefinition); !ok || h.op == nil {
						return visitor.ActionSkip, nil
					}
					ca.LeaveOperation(h.op)
					h.op = nil
					return visitor.ActionNoChange, nil
				},
			},
		},
	}
}

func (h *graphqlGoHost) Schema() Schema {
	return graphqlGoSchema{h.ctx.Schema()}
}

func (h *graphqlGoHost) Fragment(name string) *Fragment {
	if fr, ok := h.fragments[name]; ok {
		return fr
	}
	var fr *Fragment
	if fd := h.ctx.Fragment(name); fd != nil {
		fr = &Fragment{
			Name:         name,
			Node:         fd,
			SelectionSet: convertSelectionSet(fd.SelectionSet),
		}
		if fd.TypeCondition != nil && fd.TypeCondition.Name != nil {
			fr.TypeCondition = fd.TypeCondition.Name.Value
		}
	}
	h.fragments[name] = fr
	return fr
}

func (h *graphqlGoHost) ReportError(err error, node interface{}) {
	var nodes []ast.Node
	if n, ok := node.(ast.Node); ok && n != nil {
		nodes = []ast.Node{n}
	}
	h.ctx.ReportError(gqlerrors.NewError(err.Error(), nodes, "", nil, []int{}, err))
}

func convertOperation(od *ast.OperationDefinition) *Operation {
	op := &Operation{
		Kind:         od.GetOperation(),
		Node:         od,
		SelectionSet: convertSelectionSet(od.SelectionSet),
	}
	if od.Name != nil {
		op.Name = od.Name.Value
	}
	return op
}

func convertSelectionSet(ss *ast.SelectionSet) []Selection {
	if ss == nil {
		return nil
	}
	selections := make([]Selection, 0, len(ss.Selections))
	for _, iSelection := range ss.Selections {
		switch node := iSelection.(type) {
		case *ast.Field:
			if node == nil || node.Name == nil {
				continue
			}
			f := &Field{
				Name:         node.Name.Value,
				Node:         node,
				SelectionSet: convertSelectionSet(node.SelectionSet),
			}
			if node.Alias != nil {
				f.Alias = node.Alias.Value
			}
			selections = append(selections, f)
		case *ast.FragmentSpread:
			if node == nil || node.Name == nil {
				continue
			}
			selections = append(selections, &FragmentSpread{Name: node.Name.Value, Node: node})
		case *ast.InlineFragment:
			if node == nil {
				continue
			}
			f := &InlineFragment{
				Node:         node,
				SelectionSet: convertSelectionSet(node.SelectionSet),
			}
			if node.TypeCondition != nil && node.TypeCondition.Name != nil {
				f.TypeCondition = node.TypeCondition.Name.Value
			}
			selections = append(selections, f)
		}
	}
	return selections
}

type graphqlGoSchema struct {
	s *graphql.Schema
}

func (s graphqlGoSchema) QueryType() Type {
	return wrapGraphQLGoType(s.s.QueryType())
}

func (s graphqlGoSchema) MutationType() Type {
	return wrapGraphQLGoType(s.s.MutationType())
}

func (s graphqlGoSchema) SubscriptionType() Type {
	return wrapGraphQLGoType(s.s.SubscriptionType())
}

func (s graphqlGoSchema) Type(name string) Type {
	return wrapGraphQLGoType(s.s.Type(name))
}

// wrapGraphQLGoType wraps a named type. It takes care of typed nil
// pointers, which graphql-go returns for absent root types.
func wrapGraphQLGoType(t interface{}) Type {
	switch t := t.(type) {
	case *graphql.Object:
		if t == nil {
			return nil
		}
		return &graphqlGoType{t: t, kind: ObjectKind, fields: t.Fields}
	case *graphql.Interface:
		if t == nil {
			return nil
		}
		return &graphqlGoType{t: t, kind: InterfaceKind, fields: t.Fields}
	case *graphql.Union:
		if t == nil {
			return nil
		}
		return &graphqlGoType{t: t, kind: UnionKind}
	case graphql.Type:
		return &graphqlGoType{t: t, kind: ScalarKind}
	}
	return nil
}

type graphqlGoType struct {
	t      graphql.Type
	kind   TypeKind
	fields func() graphql.FieldDefinitionMap
}

func (t *graphqlGoType) Name() string   { return t.t.Name() }
func (t *graphqlGoType) Kind() TypeKind { return t.kind }
func (t *graphqlGoType) Cost() *Cost    { return nil }

func (t *graphqlGoType) Field(name string) FieldDef {
	if t.fields == nil {
		return nil
	}
	fd, ok := t.fields()[name]
	if !ok || fd == nil {
		return nil
	}
	return graphqlGoField{fd}
}

type graphqlGoField struct {
	fd *graphql.FieldDefinition
}

func (f graphqlGoField) Name() string { return f.fd.Name }
func (f graphqlGoField) Cost() *Cost  { return nil }

func (f graphqlGoField) Type() Type {
	return wrapGraphQLGoType(graphql.GetNamed(f.fd.Type))
}

func (f graphqlGoField) ArgumentValues(field *Field, variables map[string]interface{}) (map[string]interface{}, error) {
	var argASTs []*ast.Argument
	if node, ok := field.Node.(*ast.Field); ok && node != nil {
		argASTs = node.Arguments
	}
	return getArgumentValues(f.fd.Args, argASTs, variables)
}

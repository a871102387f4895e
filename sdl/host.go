package sdl

import (
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/koron-go/gqlcost/v2"
)

type host struct {
	schema    *Schema
	doc       *ast.QueryDocument
	fragments map[string]*gqlcost.Fragment
	report    func(err error, pos *ast.Position)
}

var _ gqlcost.Host = (*host)(nil)

func newHost(s *Schema, doc *ast.QueryDocument, report func(error, *ast.Position)) *host {
	return &host{
		schema:    s,
		doc:       doc,
		fragments: map[string]*gqlcost.Fragment{},
		report:    report,
	}
}

func (h *host) Schema() gqlcost.Schema {
	return h.schema
}

func (h *host) Fragment(name string) *gqlcost.Fragment {
	if fr, ok := h.fragments[name]; ok {
		return fr
	}
	var fr *gqlcost.Fragment
	if h.doc != nil {
		if fd := h.doc.Fragments.ForName(name); fd != nil {
			fr = &gqlcost.Fragment{
				Name:          fd.Name,
				TypeCondition: fd.TypeCondition,
				Node:          fd,
				SelectionSet:  convertSelectionSet(fd.SelectionSet),
			}
		}
	}
	h.fragments[name] = fr
	return fr
}

func (h *host) ReportError(err error, node interface{}) {
	var pos *ast.Position
	switch n := node.(type) {
	case *ast.OperationDefinition:
		pos = n.Position
	case ast.Selection:
		pos = n.GetPosition()
	}
	h.report(err, pos)
}

func convertOperation(od *ast.OperationDefinition) *gqlcost.Operation {
	return &gqlcost.Operation{
		Kind:         string(od.Operation),
		Name:         od.Name,
		Node:         od,
		SelectionSet: convertSelectionSet(od.SelectionSet),
	}
}

func convertSelectionSet(ss ast.SelectionSet) []gqlcost.Selection {
	if len(ss) == 0 {
		return nil
	}
	selections := make([]gqlcost.Selection, 0, len(ss))
	for _, iSelection := range ss {
		switch node := iSelection.(type) {
		case *ast.Field:
			selections = append(selections, &gqlcost.Field{
				Name:         node.Name,
				Alias:        node.Alias,
				Node:         node,
				SelectionSet: convertSelectionSet(node.SelectionSet),
			})
		case *ast.FragmentSpread:
			selections = append(selections, &gqlcost.FragmentSpread{
				Name: node.Name,
				Node: node,
			})
		case *ast.InlineFragment:
			selections = append(selections, &gqlcost.InlineFragment{
				TypeCondition: node.TypeCondition,
				Node:          node,
				SelectionSet:  convertSelectionSet(node.SelectionSet),
			})
		}
	}
	return selections
}

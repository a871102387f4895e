// Package sdl binds cost analysis to github.com/vektah/gqlparser/v2. Costs
// are read from `@cost` directives of the schema, see DirectiveDefinition.
package sdl

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/koron-go/gqlcost/v2"
)

// Schema is a gqlparser schema with its cost directives resolved.
type Schema struct {
	schema *ast.Schema
	types  map[string]*namedType
}

var _ gqlcost.Schema = (*Schema)(nil)

// LoadSchema loads a schema from SDL sources. DirectiveSource is added when
// no source declares the cost directive.
func LoadSchema(sources ...*ast.Source) (*Schema, error) {
	declared := false
	for _, src := range sources {
		if strings.Contains(src.Input, "directive @"+DirectiveName) {
			declared = true
			break
		}
	}
	if !declared {
		sources = append([]*ast.Source{DirectiveSource}, sources...)
	}
	s, err := gqlparser.LoadSchema(sources...)
	if err != nil {
		return nil, errors.Wrap(err, "error loading schema")
	}
	return NewSchema(s)
}

// NewSchema resolves cost directives of s.
func NewSchema(s *ast.Schema) (*Schema, error) {
	if s == nil {
		return nil, errors.New("schema is nil")
	}
	schema := &Schema{
		schema: s,
		types:  make(map[string]*namedType, len(s.Types)),
	}
	for name, def := range s.Types {
		t, err := schema.newNamedType(def)
		if err != nil {
			return nil, errors.Wrapf(err, "@%s on %s", DirectiveName, name)
		}
		schema.types[name] = t
	}
	return schema, nil
}

// AST returns the underlying gqlparser schema.
func (s *Schema) AST() *ast.Schema {
	return s.schema
}

// QueryType implements gqlcost.Schema.
func (s *Schema) QueryType() gqlcost.Type {
	return s.definitionType(s.schema.Query)
}

// MutationType implements gqlcost.Schema.
func (s *Schema) MutationType() gqlcost.Type {
	return s.definitionType(s.schema.Mutation)
}

// SubscriptionType implements gqlcost.Schema.
func (s *Schema) SubscriptionType() gqlcost.Type {
	return s.definitionType(s.schema.Subscription)
}

// Type implements gqlcost.Schema.
func (s *Schema) Type(name string) gqlcost.Type {
	if t, ok := s.types[name]; ok {
		return t
	}
	return nil
}

func (s *Schema) definitionType(def *ast.Definition) gqlcost.Type {
	if def == nil {
		return nil
	}
	return s.Type(def.Name)
}

func (s *Schema) newNamedType(def *ast.Definition) (*namedType, error) {
	t := &namedType{
		def: def,
	}
	switch def.Kind {
	case ast.Object:
		t.kind = gqlcost.ObjectKind
	case ast.Interface:
		t.kind = gqlcost.InterfaceKind
	case ast.Union:
		t.kind = gqlcost.UnionKind
	default:
		t.kind = gqlcost.ScalarKind
		return t, nil
	}
	cost, err := parseCost(def.Directives)
	if err != nil {
		return nil, err
	}
	t.cost = cost
	if len(def.Fields) == 0 {
		return t, nil
	}
	t.fields = make(map[string]*fieldDef, len(def.Fields))
	for _, fd := range def.Fields {
		cost, err := parseCost(fd.Directives)
		if err != nil {
			return nil, errors.Wrapf(err, "field %s", fd.Name)
		}
		t.fields[fd.Name] = &fieldDef{
			schema: s,
			def:    fd,
			cost:   cost,
		}
	}
	return t, nil
}

type namedType struct {
	def    *ast.Definition
	kind   gqlcost.TypeKind
	cost   *gqlcost.Cost
	fields map[string]*fieldDef
}

func (t *namedType) Name() string           { return t.def.Name }
func (t *namedType) Kind() gqlcost.TypeKind { return t.kind }
func (t *namedType) Cost() *gqlcost.Cost    { return t.cost }

func (t *namedType) Field(name string) gqlcost.FieldDef {
	if fd, ok := t.fields[name]; ok {
		return fd
	}
	return nil
}

type fieldDef struct {
	schema *Schema
	def    *ast.FieldDefinition
	cost   *gqlcost.Cost
}

func (f *fieldDef) Name() string        { return f.def.Name }
func (f *fieldDef) Cost() *gqlcost.Cost { return f.cost }

func (f *fieldDef) Type() gqlcost.Type {
	if f.def.Type == nil {
		return nil
	}
	return f.schema.Type(f.def.Type.Name())
}

func (f *fieldDef) ArgumentValues(field *gqlcost.Field, variables map[string]interface{}) (map[string]interface{}, error) {
	var args ast.ArgumentList
	if node, ok := field.Node.(*ast.Field); ok && node != nil {
		args = node.Arguments
	}
	return argumentValues(f.def.Arguments, args, variables)
}

// argumentValues coerces arguments like ast.Field.ArgumentMap, but returns
// an error where ArgumentMap panics.
func argumentValues(defs ast.ArgumentDefinitionList, args ast.ArgumentList, variables map[string]interface{}) (map[string]interface{}, error) {
	result := map[string]interface{}{}
	for _, argDef := range defs {
		var (
			val      interface{}
			hasValue bool
			err      error
		)
		if arg := args.ForName(argDef.Name); arg != nil && arg.Value != nil {
			if arg.Value.Kind == ast.Variable {
				val, hasValue = variables[arg.Value.Raw]
			} else {
				val, err = arg.Value.Value(variables)
				if err != nil {
					return nil, errors.Wrapf(err, "argument %q", argDef.Name)
				}
				hasValue = true
			}
		}
		if (!hasValue || val == nil) && argDef.DefaultValue != nil {
			val, err = argDef.DefaultValue.Value(variables)
			if err != nil {
				return nil, errors.Wrapf(err, "default value of argument %q", argDef.Name)
			}
			hasValue = true
		}
		if hasValue {
			result[argDef.Name] = val
		}
	}
	return result, nil
}

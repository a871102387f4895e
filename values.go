package gqlcost

import (
	"math"
	"reflect"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/pkg/errors"
)

// getArgumentValues coerces argument literals of a field like graphql-go
// does before resolving, so multipliers see the values a resolver would
// see. Variables are taken as they are, a literal which can't be coerced
// is an error.
func getArgumentValues(argDefs []*graphql.Argument, argASTs []*ast.Argument, variables map[string]interface{}) (map[string]interface{}, error) {
	literals := make(map[string]ast.Value, len(argASTs))
	for _, argAST := range argASTs {
		if argAST != nil && argAST.Name != nil {
			literals[argAST.Name.Value] = argAST.Value
		}
	}
	results := map[string]interface{}{}
	for _, argDef := range argDefs {
		v, err := coerceLiteral(literals[argDef.PrivateName], argDef.Type, variables)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %q", argDef.PrivateName)
		}
		if isNull(v) {
			v = argDef.DefaultValue
		}
		if !isNull(v) {
			results[argDef.PrivateName] = v
		}
	}
	return results, nil
}

func coerceLiteral(lit ast.Value, typ graphql.Input, variables map[string]interface{}) (interface{}, error) {
	if lit == nil {
		return nil, nil
	}
	if v, ok := lit.(*ast.Variable); ok {
		if v.Name == nil {
			return nil, nil
		}
		return variables[v.Name.Value], nil
	}

	switch typ := typ.(type) {
	case *graphql.NonNull:
		return coerceLiteral(lit, typ.OfType, variables)

	case *graphql.List:
		list, ok := lit.(*ast.ListValue)
		if !ok {
			// a single item is accepted as a list of one.
			item, err := coerceLiteral(lit, typ.OfType, variables)
			if err != nil {
				return nil, err
			}
			return []interface{}{item}, nil
		}
		items := make([]interface{}, 0, len(list.Values))
		for _, itemLit := range list.Values {
			item, err := coerceLiteral(itemLit, typ.OfType, variables)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil

	case *graphql.InputObject:
		obj, ok := lit.(*ast.ObjectValue)
		if !ok {
			return nil, errors.Errorf("expected %s object, got %v", typ.Name(), lit.GetValue())
		}
		fieldLits := make(map[string]ast.Value, len(obj.Fields))
		for _, f := range obj.Fields {
			if f != nil && f.Name != nil {
				fieldLits[f.Name.Value] = f.Value
			}
		}
		fields := map[string]interface{}{}
		for name, field := range typ.Fields() {
			v, err := coerceLiteral(fieldLits[name], field.Type, variables)
			if err != nil {
				return nil, errors.Wrapf(err, "field %q", name)
			}
			if isNull(v) {
				v = field.DefaultValue
			}
			if !isNull(v) {
				fields[name] = v
			}
		}
		return fields, nil

	case *graphql.Scalar:
		if v := typ.ParseLiteral(lit); v != nil {
			return v, nil
		}
		return nil, errors.Errorf("invalid %s value %v", typ.Name(), lit.GetValue())

	case *graphql.Enum:
		if v := typ.ParseLiteral(lit); v != nil {
			return v, nil
		}
		return nil, errors.Errorf("invalid %s value %v", typ.Name(), lit.GetValue())
	}
	return nil, nil
}

func isNull(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	case reflect.Float32, reflect.Float64:
		return math.IsNaN(rv.Float())
	}
	return false
}

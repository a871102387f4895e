package sdl

import (
	"github.com/pkg/errors"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/koron-go/gqlcost/v2"
)

// DirectiveName is the name of the cost directive.
const DirectiveName = "cost"

// DirectiveDefinition declares the cost directive:
//
//	type Query {
//	  users(first: Int, filter: UserFilter): [User] @cost(complexity: 2, multipliers: ["first", "filter.limit"])
//	}
//
// complexity is a CostComplexity: an Int, or an object {min, max} of which
// min is used (max when min is absent). defaults gives multiplier values
// for arguments which are not supplied.
const DirectiveDefinition = `
"An Int, or {min: Int, max: Int}."
scalar CostComplexity

input CostDefault {
  name: String!
  value: Int!
}

directive @cost(
  complexity: CostComplexity
  useMultipliers: Boolean
  multipliers: [String]
  multiplier: String
  defaults: [CostDefault]
) on OBJECT | FIELD_DEFINITION
`

// DirectiveSource provides DirectiveDefinition as a schema source.
var DirectiveSource = &ast.Source{
	Name:    "cost.graphql",
	Input:   DirectiveDefinition,
	BuiltIn: true,
}

// parseCost reads the cost directive of dirs, it returns nil when absent.
func parseCost(dirs ast.DirectiveList) (*gqlcost.Cost, error) {
	d := dirs.ForName(DirectiveName)
	if d == nil {
		return nil, nil
	}
	cost := &gqlcost.Cost{}
	for _, arg := range d.Arguments {
		if arg.Value == nil {
			continue
		}
		v, err := arg.Value.Value(nil)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid value of %q", arg.Name)
		}
		if v == nil {
			continue
		}
		switch arg.Name {
		case "complexity":
			var n int
			n, err = complexityValue(v)
			cost.Complexity = gqlcost.Int(n)
		case "useMultipliers":
			b, ok := v.(bool)
			if !ok {
				err = errors.Errorf("useMultipliers must be a Boolean, got %v", v)
			}
			cost.UseMultipliers = gqlcost.Bool(b)
		case "multipliers":
			cost.Multipliers, err = stringList(v)
		case "multiplier":
			s, ok := v.(string)
			if !ok {
				err = errors.Errorf("multiplier must be a String, got %v", v)
			}
			cost.Multiplier = s
		case "defaults":
			cost.Defaults, err = defaultsValue(v)
		default:
			err = errors.Errorf("unknown argument %q", arg.Name)
		}
		if err != nil {
			return nil, err
		}
	}
	return cost, nil
}

func complexityValue(v interface{}) (int, error) {
	switch v := v.(type) {
	case int64:
		return int(v), nil
	case map[string]interface{}:
		for _, key := range []string{"min", "max"} {
			if n, ok := v[key].(int64); ok {
				return int(n), nil
			}
		}
		return 0, errors.Errorf("complexity object requires an Int min or max, got %v", v)
	}
	return 0, errors.Errorf("complexity must be an Int or {min, max}, got %v", v)
}

func stringList(v interface{}) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []interface{}:
		list := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, errors.Errorf("multipliers must be a list of String, got %v", item)
			}
			list = append(list, s)
		}
		return list, nil
	}
	return nil, errors.Errorf("multipliers must be a list of String, got %v", v)
}

func defaultsValue(v interface{}) (map[string]int, error) {
	items, ok := v.([]interface{})
	if !ok {
		items = []interface{}{v}
	}
	defaults := make(map[string]int, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("defaults must be a list of {name, value}, got %v", item)
		}
		name, ok := obj["name"].(string)
		if !ok || name == "" {
			return nil, errors.Errorf("defaults entry requires a name, got %v", item)
		}
		n, ok := obj["value"].(int64)
		if !ok {
			return nil, errors.Errorf("defaults entry %q requires an Int value", name)
		}
		defaults[name] = int(n)
	}
	return defaults, nil
}

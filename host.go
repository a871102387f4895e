package gqlcost

// TypeKind classifies named types as far as cost analysis cares.
type TypeKind int

const (
	// ScalarKind covers scalars, enums and anything without a selection set.
	ScalarKind TypeKind = iota
	// ObjectKind is an object type.
	ObjectKind
	// InterfaceKind is an interface type.
	InterfaceKind
	// UnionKind is a union type.
	UnionKind
)

func (k TypeKind) String() string {
	switch k {
	case ObjectKind:
		return "OBJECT"
	case InterfaceKind:
		return "INTERFACE"
	case UnionKind:
		return "UNION"
	default:
		return "SCALAR"
	}
}

// Type is a named type of a host schema.
type Type interface {
	Name() string
	Kind() TypeKind
	// Field returns a field definition or nil when the type has no such
	// field. Unions and scalars never have fields.
	Field(name string) FieldDef
	// Cost returns cost metadata attached to the type itself, or nil.
	Cost() *Cost
}

// FieldDef is a field definition of an object or interface type.
type FieldDef interface {
	Name() string
	// Type returns the named output type with list and non-null wrappers
	// removed.
	Type() Type
	// Cost returns cost metadata attached to the field, or nil.
	Cost() *Cost
	// ArgumentValues coerces the arguments of a field selection.
	ArgumentValues(field *Field, variables map[string]interface{}) (map[string]interface{}, error)
}

// Schema is a host type system.
type Schema interface {
	QueryType() Type
	MutationType() Type
	SubscriptionType() Type
	Type(name string) Type
}

// Host binds Analysis to a GraphQL implementation.
type Host interface {
	Schema() Schema
	// Fragment returns a fragment definition by name, or nil.
	Fragment(name string) *Fragment
	// ReportError receives non-fatal errors. node is the host AST node the
	// error relates to, it may be nil.
	ReportError(err error, node interface{})
}

// Operation kinds.
const (
	OperationQuery        = "query"
	OperationMutation     = "mutation"
	OperationSubscription = "subscription"
)

// Selection is an entry of a selection set.
type Selection interface {
	GetSelectionSet() []Selection
}

// Field is a field selection.
type Field struct {
	Name         string
	Alias        string
	Node         interface{}
	SelectionSet []Selection
}

// GetSelectionSet implements Selection.
func (f *Field) GetSelectionSet() []Selection { return f.SelectionSet }

// FragmentSpread is a named fragment spread.
type FragmentSpread struct {
	Name string
	Node interface{}
}

// GetSelectionSet implements Selection. Spreads are resolved through
// Host.Fragment so this is always nil.
func (f *FragmentSpread) GetSelectionSet() []Selection { return nil }

// InlineFragment is an inline fragment. TypeCondition is empty when the
// fragment applies to the enclosing type.
type InlineFragment struct {
	TypeCondition string
	Node          interface{}
	SelectionSet  []Selection
}

// GetSelectionSet implements Selection.
func (f *InlineFragment) GetSelectionSet() []Selection { return f.SelectionSet }

// Operation is an operation definition.
type Operation struct {
	Kind         string
	Name         string
	Node         interface{}
	SelectionSet []Selection
}

// Fragment is a fragment definition.
type Fragment struct {
	Name          string
	TypeCondition string
	Node          interface{}
	SelectionSet  []Selection
}

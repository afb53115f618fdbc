package ir

import (
	"fmt"
	"strings"
)

// AttributeSpec is a sealed interface over the attribute slot of a clause.
// Only AttrName, AttrList and AttrWildcard implement it.
type AttributeSpec interface {
	attributeSpec() // Sealed
}

// AttrName names a single column.
type AttrName string

func (AttrName) attributeSpec() {}

// AttrList is a set of alternative columns; each yields one candidate.
type AttrList []string

func (AttrList) attributeSpec() {}

// AttrWildcard asks the compiler to enumerate columns.
// Model and Type, when set, restrict the candidates.
type AttrWildcard struct {
	Model DataModel
	Type  DataType
}

func (AttrWildcard) attributeSpec() {}

// ValueSpec is a sealed interface over the value slot of a clause.
// Only NoValue, Scalar, ValueList and ValueWildcard implement it.
type ValueSpec interface {
	valueSpec() // Sealed
}

// NoValue marks a visual attribute clause (no filter).
type NoValue struct{}

func (NoValue) valueSpec() {}

// Scalar binds the clause to one filter value.
type Scalar struct {
	V Value
}

func (Scalar) valueSpec() {}

// ValueList is a set of alternative filter values; each yields one candidate.
type ValueList []Value

func (ValueList) valueSpec() {}

// ValueWildcard asks the compiler to enumerate the attribute's domain.
type ValueWildcard struct{}

func (ValueWildcard) valueSpec() {}

// Clause is the atomic unit of an intent.
type Clause struct {
	Attribute AttributeSpec
	Value     ValueSpec
	FilterOp  string
	Channel   Channel
	DataModel DataModel
	DataType  DataType

	// Derived by the compiler.
	Sort        Sort
	Aggregation Aggregation
}

// Intent is an ordered list of clauses.
type Intent []Clause

// Attr creates a visual attribute clause for a single column.
func Attr(name string) Clause {
	return Clause{Attribute: AttrName(name), Value: NoValue{}, FilterOp: OpEq}
}

// AnyAttr creates an attribute wildcard clause.
func AnyAttr() Clause {
	return Clause{Attribute: AttrWildcard{}, Value: NoValue{}, FilterOp: OpEq}
}

// Filter creates a value-bound clause.
func Filter(name, op string, v Value) Clause {
	return Clause{Attribute: AttrName(name), Value: Scalar{V: v}, FilterOp: op}
}

// OnChannel returns a copy of c pinned to ch.
func (c Clause) OnChannel(ch Channel) Clause {
	c.Channel = ch
	return c
}

// WithModel returns a copy of c with an explicit data model. For a
// wildcard attribute the model also restricts enumeration.
func (c Clause) WithModel(m DataModel) Clause {
	c.DataModel = m
	if w, ok := c.Attribute.(AttrWildcard); ok {
		w.Model = m
		c.Attribute = w
	}
	return c
}

// WithType returns a copy of c with an explicit data type. For a
// wildcard attribute the type also restricts enumeration.
func (c Clause) WithType(t DataType) Clause {
	c.DataType = t
	if w, ok := c.Attribute.(AttrWildcard); ok {
		w.Type = t
		c.Attribute = w
	}
	return c
}

// Name returns the column name when the attribute is a single name.
func (c Clause) Name() (string, bool) {
	if n, ok := c.Attribute.(AttrName); ok {
		return string(n), true
	}
	return "", false
}

// AttributeName returns the single column name or "" if the attribute is
// not resolved.
func (c Clause) AttributeName() string {
	n, _ := c.Name()
	return n
}

// IsFilter reports whether the clause carries a value (scalar, list or wildcard).
func (c Clause) IsFilter() bool {
	switch c.Value.(type) {
	case nil, NoValue:
		return false
	default:
		return true
	}
}

// FilterValue returns the bound scalar value, if any.
func (c Clause) FilterValue() (Value, bool) {
	if s, ok := c.Value.(Scalar); ok {
		return s.V, true
	}
	return nil, false
}

// Op returns the filter operator, defaulting to "=".
func (c Clause) Op() string {
	if c.FilterOp == "" {
		return OpEq
	}
	return c.FilterOp
}

// HasWildcard reports whether the attribute or value slot is "?". A nil
// attribute counts as a wildcard, as in Normalize.
func (c Clause) HasWildcard() bool {
	if c.Attribute == nil {
		return true
	}
	if _, ok := c.Attribute.(AttrWildcard); ok {
		return true
	}
	_, ok := c.Value.(ValueWildcard)
	return ok
}

// IsMultiValue reports whether the attribute or value slot lists alternatives.
func (c Clause) IsMultiValue() bool {
	if l, ok := c.Attribute.(AttrList); ok && len(l) != 1 {
		return true
	}
	if l, ok := c.Value.(ValueList); ok && len(l) != 1 {
		return true
	}
	return false
}

// IsResolved reports whether the clause names one column and at most one value.
func (c Clause) IsResolved() bool {
	if _, ok := c.Attribute.(AttrName); !ok {
		return false
	}
	switch c.Value.(type) {
	case nil, NoValue, Scalar:
		return true
	default:
		return false
	}
}

// String renders the clause in the shorthand accepted by ParseClause.
func (c Clause) String() string {
	var b strings.Builder
	switch a := c.Attribute.(type) {
	case AttrName:
		b.WriteString(string(a))
	case AttrList:
		b.WriteString(strings.Join(a, "|"))
	case AttrWildcard:
		b.WriteString(Wildcard)
	}

	switch v := c.Value.(type) {
	case Scalar:
		b.WriteString(c.Op())
		b.WriteString(v.V.String())
	case ValueList:
		b.WriteString(c.Op())
		parts := make([]string, len(v))
		for i, val := range v {
			parts[i] = val.String()
		}
		b.WriteString(strings.Join(parts, "|"))
	case ValueWildcard:
		b.WriteString(c.Op())
		b.WriteString(Wildcard)
	}

	if c.Channel != ChannelNone {
		b.WriteString(fmt.Sprintf("@%s", c.Channel))
	}
	return b.String()
}

// Normalize returns a copy of the clause with single-element lists
// collapsed, nil specs defaulted and the filter op made explicit.
func (c Clause) Normalize() Clause {
	if c.Attribute == nil {
		c.Attribute = AttrWildcard{Model: c.DataModel, Type: c.DataType}
	}
	if l, ok := c.Attribute.(AttrList); ok && len(l) == 1 {
		c.Attribute = AttrName(l[0])
	}
	if c.Value == nil {
		c.Value = NoValue{}
	}
	if l, ok := c.Value.(ValueList); ok && len(l) == 1 {
		c.Value = Scalar{V: l[0]}
	}
	c.FilterOp = c.Op()
	return c
}

// Normalize returns a copy of the intent with every clause normalized.
func (in Intent) Normalize() Intent {
	out := make(Intent, len(in))
	for i, c := range in {
		out[i] = c.Normalize()
	}
	return out
}

// IsEnumerable reports whether the intent needs wildcard or multi-value
// expansion, i.e. whether it builds a collection rather than a single
// visualization.
func (in Intent) IsEnumerable() bool {
	for _, c := range in {
		if c.HasWildcard() || c.IsMultiValue() {
			return true
		}
	}
	return false
}

// Attributes returns the visual attribute clauses (no bound value).
func (in Intent) Attributes() []Clause {
	var out []Clause
	for _, c := range in {
		if !c.IsFilter() {
			out = append(out, c)
		}
	}
	return out
}

// Filters returns the value-bound clauses.
func (in Intent) Filters() []Clause {
	var out []Clause
	for _, c := range in {
		if c.IsFilter() {
			out = append(out, c)
		}
	}
	return out
}

// BoundNames returns every column named explicitly in the intent, in
// clause order, without duplicates.
func (in Intent) BoundNames() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(n string) {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, c := range in {
		switch a := c.Attribute.(type) {
		case AttrName:
			add(string(a))
		case AttrList:
			for _, n := range a {
				add(n)
			}
		}
	}
	return out
}

// Clone returns a copy of the clause slice; specs are shared.
func (in Intent) Clone() Intent {
	out := make(Intent, len(in))
	copy(out, in)
	return out
}

// String renders the intent as comma separated clause shorthand.
func (in Intent) String() string {
	parts := make([]string, len(in))
	for i, c := range in {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

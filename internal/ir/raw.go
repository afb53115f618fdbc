package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RawClause is the serialized form of a clause used by intent files and
// JSON output. Attribute is a string ("?" for a wildcard) or a list of
// strings. Value is a scalar, a list of scalars or "?".
type RawClause struct {
	Attribute   any    `json:"attribute,omitempty" yaml:"attribute,omitempty"`
	Value       any    `json:"value,omitempty" yaml:"value,omitempty"`
	FilterOp    string `json:"filter_op,omitempty" yaml:"filter_op,omitempty"`
	Channel     string `json:"channel,omitempty" yaml:"channel,omitempty"`
	DataModel   string `json:"data_model,omitempty" yaml:"data_model,omitempty"`
	DataType    string `json:"data_type,omitempty" yaml:"data_type,omitempty"`
	Sort        string `json:"sort,omitempty" yaml:"sort,omitempty"`
	Aggregation string `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
}

// ToClause converts the raw form into a Clause. Enum fields are copied
// verbatim; checking them is the validator's job.
func (r RawClause) ToClause() (Clause, error) {
	c := Clause{
		FilterOp:    r.FilterOp,
		Channel:     Channel(r.Channel),
		DataModel:   DataModel(r.DataModel),
		DataType:    DataType(r.DataType),
		Sort:        Sort(r.Sort),
		Aggregation: Aggregation(r.Aggregation),
	}

	switch a := r.Attribute.(type) {
	case nil:
		c.Attribute = AttrWildcard{}
	case string:
		if a == Wildcard {
			c.Attribute = AttrWildcard{}
		} else {
			c.Attribute = AttrName(a)
		}
	case []string:
		c.Attribute = AttrList(a)
	case []any:
		names := make([]string, len(a))
		for i, item := range a {
			s, ok := item.(string)
			if !ok {
				return Clause{}, fmt.Errorf("attribute[%d]: expected string, got %T", i, item)
			}
			names[i] = s
		}
		c.Attribute = AttrList(names)
	default:
		return Clause{}, fmt.Errorf("attribute: expected string or list, got %T", r.Attribute)
	}

	switch v := r.Value.(type) {
	case nil:
		c.Value = NoValue{}
	case string:
		if v == Wildcard {
			c.Value = ValueWildcard{}
		} else {
			c.Value = Scalar{V: String(v)}
		}
	case []any:
		vals := make(ValueList, len(v))
		for i, item := range v {
			val, err := FromAny(item)
			if err != nil {
				return Clause{}, fmt.Errorf("value[%d]: %w", i, err)
			}
			vals[i] = val
		}
		c.Value = vals
	default:
		val, err := FromAny(v)
		if err != nil {
			return Clause{}, fmt.Errorf("value: %w", err)
		}
		c.Value = Scalar{V: val}
	}

	if w, ok := c.Attribute.(AttrWildcard); ok {
		w.Model = c.DataModel
		w.Type = c.DataType
		c.Attribute = w
	}
	return c.Normalize(), nil
}

// Raw returns the serialized form of c.
func (c Clause) Raw() RawClause {
	r := RawClause{
		Channel:     string(c.Channel),
		DataModel:   string(c.DataModel),
		DataType:    string(c.DataType),
		Sort:        string(c.Sort),
		Aggregation: string(c.Aggregation),
	}

	switch a := c.Attribute.(type) {
	case AttrName:
		r.Attribute = string(a)
	case AttrList:
		r.Attribute = []string(a)
	case AttrWildcard, nil:
		r.Attribute = Wildcard
	}

	switch v := c.Value.(type) {
	case Scalar:
		r.Value = ToAny(v.V)
		r.FilterOp = c.Op()
	case ValueList:
		vals := make([]any, len(v))
		for i, val := range v {
			vals[i] = ToAny(val)
		}
		r.Value = vals
		r.FilterOp = c.Op()
	case ValueWildcard:
		r.Value = Wildcard
		r.FilterOp = c.Op()
	}
	return r
}

// MarshalJSON encodes the clause in its raw form.
func (c Clause) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Raw())
}

// UnmarshalJSON decodes the raw form. Numbers keep their integer or
// float kind.
func (c *Clause) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var r RawClause
	if err := dec.Decode(&r); err != nil {
		return err
	}
	parsed, err := r.ToClause()
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RawIntent converts every clause of in to its raw form.
func RawIntent(in Intent) []RawClause {
	out := make([]RawClause, len(in))
	for i, c := range in {
		out[i] = c.Raw()
	}
	return out
}

// IntentFromRaw converts raw clauses to an Intent.
func IntentFromRaw(raw []RawClause) (Intent, error) {
	out := make(Intent, len(raw))
	for i, r := range raw {
		c, err := r.ToClause()
		if err != nil {
			return nil, fmt.Errorf("clause[%d]: %w", i, err)
		}
		out[i] = c
	}
	return out, nil
}

// rawKeys are the keys accepted in a decoded clause map.
var rawKeys = map[string]bool{
	"attribute":   true,
	"value":       true,
	"filter_op":   true,
	"channel":     true,
	"data_model":  true,
	"data_type":   true,
	"sort":        true,
	"aggregation": true,
}

// IntentFromAny converts a generically decoded intent (YAML or JSON) into an
// Intent. Each element is a shorthand string (see ParseClause) or a map
// with RawClause keys. Unknown keys are rejected.
func IntentFromAny(items []any) (Intent, error) {
	out := make(Intent, 0, len(items))
	for i, item := range items {
		c, err := clauseFromAny(item)
		if err != nil {
			return nil, fmt.Errorf("clause[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

func clauseFromAny(item any) (Clause, error) {
	switch v := item.(type) {
	case string:
		return ParseClause(v)
	case map[string]any:
		var r RawClause
		for k, val := range v {
			if !rawKeys[k] {
				return Clause{}, fmt.Errorf("unknown clause field %q", k)
			}
			switch k {
			case "attribute":
				r.Attribute = val
			case "value":
				r.Value = val
			default:
				s, ok := val.(string)
				if !ok {
					return Clause{}, fmt.Errorf("%s: expected string, got %T", k, val)
				}
				switch k {
				case "filter_op":
					r.FilterOp = s
				case "channel":
					r.Channel = s
				case "data_model":
					r.DataModel = s
				case "data_type":
					r.DataType = s
				case "sort":
					r.Sort = s
				case "aggregation":
					r.Aggregation = s
				}
			}
		}
		return r.ToClause()
	default:
		return Clause{}, fmt.Errorf("expected string or map, got %T", item)
	}
}

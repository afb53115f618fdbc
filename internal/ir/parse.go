package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseClause parses the shorthand clause syntax:
//
//	weight               visual attribute
//	milespergal@x        attribute pinned to a channel
//	horsepower|weight    attribute list
//	?                    attribute wildcard
//	origin=USA           filter
//	origin=USA|Japan     value list
//	origin=?             value wildcard
//	year>=75             filter with operator (=, !=, <, >, <=, >=)
//
// Numeric literals become Int or Float; double-quoted literals stay strings.
func ParseClause(s string) (Clause, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Clause{}, fmt.Errorf("empty clause")
	}

	var c Clause
	if at := strings.LastIndex(s, "@"); at >= 0 {
		ch := Channel(strings.TrimSpace(s[at+1:]))
		if ch == ChannelNone || !ValidChannels[ch] {
			return Clause{}, fmt.Errorf("clause %q: unknown channel %q", s, ch)
		}
		c.Channel = ch
		s = strings.TrimSpace(s[:at])
	}

	attr, op, rawValue, hasOp := splitOp(s)
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return Clause{}, fmt.Errorf("clause %q: missing attribute", s)
	}

	switch {
	case attr == Wildcard:
		c.Attribute = AttrWildcard{}
	case strings.Contains(attr, "|"):
		names, err := splitList(attr)
		if err != nil {
			return Clause{}, fmt.Errorf("clause %q: %w", s, err)
		}
		c.Attribute = AttrList(names)
	default:
		c.Attribute = AttrName(attr)
	}

	c.Value = NoValue{}
	c.FilterOp = OpEq
	if !hasOp {
		return c, nil
	}

	c.FilterOp = op
	rawValue = strings.TrimSpace(rawValue)
	switch {
	case rawValue == "":
		return Clause{}, fmt.Errorf("clause %q: missing value after %q", s, op)
	case rawValue == Wildcard:
		c.Value = ValueWildcard{}
	case strings.Contains(rawValue, "|"):
		parts, err := splitList(rawValue)
		if err != nil {
			return Clause{}, fmt.Errorf("clause %q: %w", s, err)
		}
		vals := make(ValueList, len(parts))
		for i, p := range parts {
			vals[i] = parseScalar(p)
		}
		c.Value = vals
	default:
		c.Value = Scalar{V: parseScalar(rawValue)}
	}
	return c, nil
}

// ParseIntent parses each shorthand clause in order.
func ParseIntent(clauses ...string) (Intent, error) {
	out := make(Intent, 0, len(clauses))
	for i, s := range clauses {
		c, err := ParseClause(s)
		if err != nil {
			return nil, fmt.Errorf("clause[%d]: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// MustParseIntent is like ParseIntent but panics on error.
// Use only in tests or for literal intents.
func MustParseIntent(clauses ...string) Intent {
	in, err := ParseIntent(clauses...)
	if err != nil {
		panic(err)
	}
	return in
}

// splitOp finds the first filter operator, preferring two-character forms.
func splitOp(s string) (attr, op, value string, ok bool) {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '!', '<', '>', '=':
		default:
			continue
		}
		if i+1 < len(s) {
			if two := s[i : i+2]; ValidFilterOps[two] {
				return s[:i], two, s[i+2:], true
			}
		}
		if one := s[i : i+1]; ValidFilterOps[one] {
			return s[:i], one, s[i+1:], true
		}
	}
	return s, "", "", false
}

func splitList(s string) ([]string, error) {
	parts := strings.Split(s, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		if parts[i] == "" {
			return nil, fmt.Errorf("empty element in list %q", s)
		}
	}
	return parts, nil
}

func parseScalar(s string) Value {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if unq, err := strconv.Unquote(s); err == nil {
			return String(unq)
		}
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null":
		return Null{}
	}
	return String(s)
}

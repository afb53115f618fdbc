package ir

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainVisualization = "vislens/visualization/v1"
	DomainIntent        = "vislens/intent/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// identityTuple is the part of a clause that makes two visualizations
// "the same": attribute, filter operator, value and channel. Data model,
// data type and derived properties are functions of these and excluded.
func identityTuple(c Clause) (map[string]any, error) {
	obj := map[string]any{
		"channel": string(c.Channel),
	}

	switch a := c.Attribute.(type) {
	case AttrName:
		obj["attribute"] = string(a)
	case AttrList:
		obj["attribute"] = []string(a)
	case AttrWildcard:
		obj["attribute"] = Wildcard
	default:
		return nil, fmt.Errorf("unsupported attribute spec: %T", c.Attribute)
	}

	switch v := c.Value.(type) {
	case nil, NoValue:
	case Scalar:
		obj["op"] = c.Op()
		obj["value"] = canonicalValue(v.V)
	case ValueList:
		obj["op"] = c.Op()
		vals := make([]any, len(v))
		for i, val := range v {
			vals[i] = canonicalValue(val)
		}
		obj["value"] = vals
	case ValueWildcard:
		obj["op"] = c.Op()
		obj["value"] = Wildcard
	default:
		return nil, fmt.Errorf("unsupported value spec: %T", c.Value)
	}
	return obj, nil
}

// hashClauses hashes the identity tuples of clauses. Unordered hashing
// sorts the tuples by their canonical encoding first, so clause order does
// not affect the result.
func hashClauses(domain string, clauses []Clause, ordered bool) (string, error) {
	encoded := make([][]byte, len(clauses))
	for i, c := range clauses {
		t, err := identityTuple(c)
		if err != nil {
			return "", fmt.Errorf("clause[%d]: %w", i, err)
		}
		b, err := MarshalCanonical(t)
		if err != nil {
			return "", fmt.Errorf("clause[%d]: %w", i, err)
		}
		encoded[i] = b
	}
	if !ordered {
		slices.SortFunc(encoded, bytes.Compare)
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, b := range encoded {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return hashWithDomain(domain, buf.Bytes()), nil
}

// VisualizationID computes the content-addressed ID of a resolved intent.
// Two candidates with the same set of (attribute, op, value, channel)
// tuples share an ID and are deduplicated, whatever their clause order.
func VisualizationID(clauses []Clause) (string, error) {
	id, err := hashClauses(DomainVisualization, clauses, false)
	if err != nil {
		return "", fmt.Errorf("VisualizationID: %w", err)
	}
	return id, nil
}

// IntentHash computes a stable hash of an unresolved intent. Clause order
// is significant: it fixes enumeration order. Recommendation reports carry
// it so runs over the same intent can be grouped.
func IntentHash(in Intent) (string, error) {
	id, err := hashClauses(DomainIntent, in.Normalize(), true)
	if err != nil {
		return "", fmt.Errorf("IntentHash: %w", err)
	}
	return id, nil
}

// MustVisualizationID is like VisualizationID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustVisualizationID(clauses []Clause) string {
	id, err := VisualizationID(clauses)
	if err != nil {
		panic(err)
	}
	return id
}

package tree

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is one category of the input tree.
type Node struct {
	ID           Scalar  `json:"id,omitzero" yaml:"id,omitempty"`
	Name         string  `json:"name,omitempty" yaml:"name,omitempty"`
	Count        float64 `json:"count" yaml:"count"`
	Tooltip      string  `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Delta        Scalar  `json:"delta,omitzero" yaml:"delta,omitempty"`
	Color        string  `json:"color,omitempty" yaml:"color,omitempty"`
	Distribution []*Node `json:"distribution,omitempty" yaml:"distribution,omitempty"`
}

// IsLeaf reports whether n has no children to visit.
func (n *Node) IsLeaf() bool {
	for _, c := range n.Distribution {
		if c != nil {
			return false
		}
	}
	return true
}

// Size returns the number of non-nil nodes in the subtree rooted at n.
func (n *Node) Size() int {
	if n == nil {
		return 0
	}
	size := 1
	for _, c := range n.Distribution {
		size += c.Size()
	}
	return size
}

// Kind records which JSON/YAML scalar type a [Scalar] was decoded from.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

// Scalar holds an optional JSON/YAML scalar in its textual form together
// with its source kind. Null and missing values decode to the zero Scalar.
type Scalar struct {
	Kind Kind
	Text string
}

// Text returns a string scalar.
func Text(s string) Scalar { return Scalar{Kind: KindString, Text: s} }

// Number returns a numeric scalar.
func Number(v float64) Scalar {
	return Scalar{Kind: KindNumber, Text: strconv.FormatFloat(v, 'f', -1, 64)}
}

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{Kind: KindBool, Text: strconv.FormatBool(b)} }

// Present reports whether the scalar is truthy: a non-empty string, a
// number other than zero or NaN, or true. The string "0" is present.
func (s Scalar) Present() bool {
	switch s.Kind {
	case KindString:
		return s.Text != ""
	case KindNumber:
		f, err := strconv.ParseFloat(s.Text, 64)
		return err == nil && f != 0 && !math.IsNaN(f)
	case KindBool:
		return s.Text == "true"
	default:
		return false
	}
}

// IsZero reports whether the scalar was null or missing.
func (s Scalar) IsZero() bool { return s.Kind == KindNull }

// String returns the textual form of the scalar.
func (s Scalar) String() string { return s.Text }

// UnmarshalJSON accepts strings, numbers, booleans and null.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*s = Scalar{}
	case raw == "true" || raw == "false":
		*s = Scalar{Kind: KindBool, Text: raw}
	case strings.HasPrefix(raw, `"`):
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = Text(v)
	case strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "["):
		return fmt.Errorf("expected a scalar value, got %.20s", raw)
	default:
		*s = Scalar{Kind: KindNumber, Text: raw}
	}
	return nil
}

// MarshalJSON writes the scalar back as its source kind.
func (s Scalar) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(s.Text)
	default:
		return []byte(s.Text), nil
	}
}

// UnmarshalYAML accepts any scalar node; null becomes the zero Scalar.
func (s *Scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"expected a scalar value for id/delta"}}
	}
	switch value.ShortTag() {
	case "!!null":
		*s = Scalar{}
	case "!!int", "!!float":
		*s = Scalar{Kind: KindNumber, Text: value.Value}
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		*s = Bool(b)
	default:
		*s = Text(value.Value)
	}
	return nil
}

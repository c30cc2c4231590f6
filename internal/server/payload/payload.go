// Package payload recognizes the shapes a saved visualization payload can
// take and reduces them to the flat value sequence clients render.
//
// Recognized shapes, tried in order:
//
//	[5, 3, 7]                                  FlatSequence
//	{"values": [5, 3, 7]}                      ValuesWrapper
//	{"tree": {"value": 5, "left": …, "right": …}}  TreeWrapper
//
// Anything else is Unrecognized and passes through untouched.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
)

// Shape is the outcome of classifying a payload.
type Shape int

const (
	Unrecognized Shape = iota
	FlatSequence
	ValuesWrapper
	TreeWrapper
)

func (s Shape) String() string {
	switch s {
	case FlatSequence:
		return "flat_sequence"
	case ValuesWrapper:
		return "values_wrapper"
	case TreeWrapper:
		return "tree_wrapper"
	default:
		return "unrecognized"
	}
}

// Decode parses raw keeping numbers as json.Number so that values survive a
// round trip byte for byte. Trailing data after the first value is an error.
func Decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// Classify reports which recognized shape v has. A TreeWrapper classification
// does not guarantee the tree yields any values.
func Classify(v any) Shape {
	switch t := v.(type) {
	case []any:
		return FlatSequence
	case map[string]any:
		if _, ok := t["values"].([]any); ok {
			return ValuesWrapper
		}
		if _, ok := t["tree"].(map[string]any); ok {
			return TreeWrapper
		}
	}
	return Unrecognized
}

// Extract returns the value sequence of v and its shape. ok is false when v
// is Unrecognized or is a tree that yielded no values.
func Extract(v any) (values []any, shape Shape, ok bool) {
	shape = Classify(v)
	switch shape {
	case FlatSequence:
		return v.([]any), shape, true
	case ValuesWrapper:
		return v.(map[string]any)["values"].([]any), shape, true
	case TreeWrapper:
		values = Flatten(v.(map[string]any)["tree"].(map[string]any))
		return values, shape, len(values) > 0
	}
	return nil, shape, false
}

// Flatten walks a {value, left, right} node graph with an explicit stack:
// pop a node, emit its value, push right then left. Left subtrees are
// therefore emitted before right ones (pre-order). Nodes without a value are
// skipped but their children are still visited; children that are not
// objects are ignored.
func Flatten(root map[string]any) []any {
	out := make([]any, 0)
	stack := []map[string]any{root}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if v, ok := node["value"]; ok && v != nil {
			out = append(out, v)
		}
		if right, ok := node["right"].(map[string]any); ok {
			stack = append(stack, right)
		}
		if left, ok := node["left"].(map[string]any); ok {
			stack = append(stack, left)
		}
	}
	return out
}

// Normalize converts a stored payload into the flat sequence of values for
// rendering. Flat sequences come back byte-identical; unrecognized or
// undecodable payloads, and trees without values, are returned unchanged.
func Normalize(raw json.RawMessage) json.RawMessage {
	v, err := Decode(raw)
	if err != nil {
		return raw
	}

	values, shape, ok := Extract(v)
	if !ok || shape == FlatSequence {
		return raw
	}

	b, err := json.Marshal(values)
	if err != nil {
		return raw
	}
	return b
}

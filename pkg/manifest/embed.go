// Package manifest turns a YAML document into a single-line flow form that can
// be placed in a scalar field of another YAML document.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Embed parses text as exactly one YAML document and re-emits it on a single
// line in flow style. Mapping keys are sorted, aliases are expanded and
// comments are dropped, so structurally equal inputs produce identical output.
func Embed(text string) (string, error) {
	doc, err := decodeSingle(text)
	if err != nil {
		return "", err
	}

	var node yaml.Node
	if err := node.Encode(keepFloats(doc)); err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}
	flatten(&node)

	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", fmt.Errorf("failed to encode manifest: %w", err)
	}

	embedded := strings.TrimSuffix(string(out), "\n")
	if strings.Contains(embedded, "\n") {
		return "", fmt.Errorf("embedded manifest spans more than one line")
	}
	return embedded, nil
}

// Equal reports whether a and b hold structurally equal YAML documents.
func Equal(a, b string) (bool, error) {
	docA, err := decodeSingle(a)
	if err != nil {
		return false, err
	}
	docB, err := decodeSingle(b)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(docA, docB), nil
}

func decodeSingle(text string) (interface{}, error) {
	if !utf8.ValidString(text) {
		return nil, &ParseError{Err: ErrInvalidUTF8}
	}
	dec := yaml.NewDecoder(strings.NewReader(text))

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: ErrEmptyDocument}
		}
		return nil, &ParseError{Err: err}
	}

	var extra interface{}
	switch err := dec.Decode(&extra); {
	case errors.Is(err, io.EOF):
	case err != nil:
		return nil, &ParseError{Err: err}
	default:
		return nil, &ParseError{Err: ErrMultipleDocuments}
	}

	return doc, nil
}

// flatten switches every collection to flow style. Block scalars are not
// allowed inside flow collections, so multi-line strings become double-quoted.
func flatten(n *yaml.Node) {
	n.HeadComment, n.LineComment, n.FootComment = "", "", ""
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		n.Style = yaml.FlowStyle
	case yaml.ScalarNode:
		if n.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 || strings.Contains(n.Value, "\n") {
			n.Style = yaml.DoubleQuotedStyle
		}
	}
	for _, c := range n.Content {
		flatten(c)
	}
}

// floatScalar keeps a decoded float a float when re-encoded. The encoder
// writes float64(1) as "1", which reads back as an int.
type floatScalar float64

func (f floatScalar) MarshalYAML() (interface{}, error) {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!float",
		Value: formatFloat(float64(f)),
	}, nil
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// keepFloats returns v with every float value wrapped in floatScalar.
// Mapping keys are left alone.
func keepFloats(v interface{}) interface{} {
	switch t := v.(type) {
	case float64:
		return floatScalar(t)
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = keepFloats(e)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[interface{}]interface{}, len(t))
		for k, e := range t {
			out[k] = keepFloats(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = keepFloats(e)
		}
		return out
	}
	return v
}

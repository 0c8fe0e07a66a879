package reconcile

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// maxRepairs bounds how many malformed fields are dropped from one section
// before the whole section falls back to its default.
const maxRepairs = 32

// normalize converts any JSON-serializable value into a generic tree of
// map[string]any, []any, string, bool, json.Number and nil.
func normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return decodeTree(data)
}

func decodeTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// mergeTree overlays in on def. The default tree decides the shape: keys
// missing from def are dropped, values whose JSON kind differs from the
// default are ignored, and null never overrides a default.
func mergeTree(def, in any) any {
	if in == nil {
		return def
	}
	switch d := def.(type) {
	case map[string]any:
		obj, ok := in.(map[string]any)
		if !ok {
			return def
		}
		out := make(map[string]any, len(d))
		for key, defValue := range d {
			if inValue, present := obj[key]; present {
				out[key] = mergeTree(defValue, inValue)
			} else {
				out[key] = defValue
			}
		}
		return out
	case []any:
		if list, ok := in.([]any); ok {
			return list
		}
		return def
	case string:
		if s, ok := in.(string); ok {
			return s
		}
		return def
	case json.Number:
		if n, ok := in.(json.Number); ok {
			return n
		}
		return def
	case bool:
		if b, ok := in.(bool); ok {
			return b
		}
		return def
	case nil:
		if s, ok := in.(string); ok {
			return s
		}
		return nil
	default:
		return def
	}
}

// decodeSection merges input over def and decodes the result into T. Fields
// that still fail to decode (for example 2.5 into an integer) are dropped from
// the input one at a time so they fall back to their default value.
func decodeSection[T any](def T, input any) T {
	defTree, err := normalize(def)
	if err != nil {
		return def
	}
	in := input
	for attempt := 0; attempt < maxRepairs; attempt++ {
		merged := mergeTree(defTree, in)
		data, err := json.Marshal(merged)
		if err != nil {
			return def
		}
		var out T
		err = json.Unmarshal(data, &out)
		if err == nil {
			return out
		}
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return def
		}
		pruned, ok := dropPath(in, strings.Split(typeErr.Field, "."))
		if !ok {
			return def
		}
		in = pruned
	}
	return def
}

// dropPath returns a copy of node without the value at path. Lists are
// transparent: the remaining path is applied to every element.
func dropPath(node any, path []string) (any, bool) {
	if len(path) == 0 {
		return node, false
	}
	switch n := node.(type) {
	case map[string]any:
		child, ok := n[path[0]]
		if !ok {
			return node, false
		}
		out := make(map[string]any, len(n))
		for key, value := range n {
			out[key] = value
		}
		if len(path) == 1 {
			delete(out, path[0])
			return out, true
		}
		pruned, ok := dropPath(child, path[1:])
		if !ok {
			return node, false
		}
		out[path[0]] = pruned
		return out, true
	case []any:
		out := make([]any, len(n))
		changed := false
		for i, element := range n {
			pruned, ok := dropPath(element, path)
			out[i] = pruned
			changed = changed || ok
		}
		return out, changed
	default:
		return node, false
	}
}

// child returns obj[key] when obj is an object
func child(obj any, key string) any {
	if m, ok := obj.(map[string]any); ok {
		return m[key]
	}
	return nil
}

package entities

// Patch is a partial JSON-like tree of settings fields. Keys follow the JSON
// field names of the settings types; values are scalars, []any or nested Patch
// / map[string]any objects.
type Patch map[string]any

// AsObject returns v as a plain object when it is one
func AsObject(v any) (map[string]any, bool) {
	switch obj := v.(type) {
	case map[string]any:
		return obj, true
	case Patch:
		return map[string]any(obj), true
	default:
		return nil, false
	}
}

// DeepMerge merges src over dst recursively and returns the result. Objects
// merge key by key; any other value in src replaces the one in dst. Neither
// argument is modified.
func DeepMerge(dst, src Patch) Patch {
	out := make(Patch, len(dst)+len(src))
	for key, value := range dst {
		out[key] = value
	}
	for key, value := range src {
		srcObj, srcIsObj := AsObject(value)
		dstObj, dstIsObj := AsObject(out[key])
		if srcIsObj && dstIsObj {
			out[key] = map[string]any(DeepMerge(Patch(dstObj), Patch(srcObj)))
			continue
		}
		out[key] = value
	}
	return out
}

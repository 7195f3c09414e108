package model

// Defaults returns a fresh value map with every declared field set to its
// default. Fields without a default get the zero value for their type so the
// payload always carries the full field set.
func (m FormModel) Defaults() map[string]any {
	out := make(map[string]any, len(m.Fields))
	for _, field := range m.Fields {
		out[field.Name] = defaultFor(field)
	}
	return out
}

// Project copies the declared fields out of values, dropping unknown keys and
// filling missing fields with their defaults.
func (m FormModel) Project(values map[string]any) map[string]any {
	out := make(map[string]any, len(m.Fields))
	for _, field := range m.Fields {
		if v, ok := values[field.Name]; ok {
			out[field.Name] = CloneValue(v)
			continue
		}
		out[field.Name] = defaultFor(field)
	}
	return out
}

// CloneValues deep copies a value map.
func CloneValues(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep copies maps and slices produced by JSON decoding.
func CloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneValues(typed)
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = CloneValue(v)
		}
		return clone
	case []string:
		return append([]string(nil), typed...)
	default:
		return typed
	}
}

func defaultFor(field Field) any {
	if field.Default != nil {
		return CloneValue(field.Default)
	}
	switch field.Type {
	case FieldTypeString:
		return ""
	case FieldTypeArray:
		return []any{}
	case FieldTypeBoolean:
		return false
	default:
		return nil
	}
}

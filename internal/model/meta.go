package model

// Meta is an immutable per-route key/value bag consumed by guards, e.g. the
// roles required to enter a route. Lookups are typed: a key present with a
// value of the wrong dynamic type reads as absent, never as an error.
type Meta struct {
	values map[string]any
}

// EmptyMeta is the distinguished empty metadata value.
var EmptyMeta = Meta{}

// NewMeta builds a Meta from a plain map. The map is copied; later mutation
// of the argument does not affect the Meta.
func NewMeta(values map[string]any) Meta {
	if len(values) == 0 {
		return EmptyMeta
	}
	copied := make(map[string]any, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return Meta{values: copied}
}

// Len returns the number of keys.
func (m Meta) Len() int {
	return len(m.values)
}

// IsEmpty reports whether the meta holds no keys.
func (m Meta) IsEmpty() bool {
	return len(m.values) == 0
}

// Merge returns a new Meta containing all keys of both; on collision the
// other's value wins. Neither receiver nor argument is modified.
func (m Meta) Merge(other Meta) Meta {
	if other.IsEmpty() {
		return m
	}
	if m.IsEmpty() {
		return other
	}
	merged := make(map[string]any, len(m.values)+len(other.values))
	for k, v := range m.values {
		merged[k] = v
	}
	for k, v := range other.values {
		merged[k] = v
	}
	return Meta{values: merged}
}

// String returns the string value for key. ok is false when the key is
// absent or holds a non-string value.
func (m Meta) String(key string) (value string, ok bool) {
	v, present := m.values[key]
	if !present {
		return "", false
	}
	s, isString := v.(string)
	return s, isString
}

// Bool returns the bool value for key. ok is false when the key is absent
// or holds a non-bool value.
func (m Meta) Bool(key string) (value, ok bool) {
	v, present := m.values[key]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// Strings returns the string-slice value for key. Both []string and []any of
// strings are accepted; a []any containing a non-string element reads as
// absent. ok is false when the key is absent or holds another type. The
// returned slice is a copy; mutating it does not reach the Meta.
func (m Meta) Strings(key string) (values []string, ok bool) {
	v, present := m.values[key]
	if !present {
		return nil, false
	}
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, isString := item.(string)
			if !isString {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

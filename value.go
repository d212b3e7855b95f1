package formfeed

// Value is a collected part without a hook.
type Value struct {
	content []byte
	part    Part
}

// Unwrap returns the content and descriptor of the value.
func (v Value) Unwrap() (string, Part) {
	return string(v.content), v.part
}

// UnwrapRaw returns the raw content and descriptor of the value.
func (v Value) UnwrapRaw() ([]byte, Part) {
	return v.content, v.part
}

// Value first value of the key.
func (f *Form) Value(key string) (string, Part, bool) {
	value := f.valueMap[key]
	if len(value) == 0 {
		return "", Part{}, false
	}

	content, part := value[0].Unwrap()

	return content, part, true
}

// ValueRaw first value of the key.
func (f *Form) ValueRaw(key string) ([]byte, Part, bool) {
	value := f.valueMap[key]
	if len(value) == 0 {
		return nil, Part{}, false
	}

	content, part := value[0].UnwrapRaw()

	return content, part, true
}

// Values all values of the key.
func (f *Form) Values(key string) ([]Value, bool) {
	value, ok := f.valueMap[key]
	if !ok {
		return nil, false
	}

	return value, true
}

// ValueMap all values.
func (f *Form) ValueMap() map[string][]Value {
	return f.valueMap
}

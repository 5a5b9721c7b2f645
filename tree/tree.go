// Package tree holds the ordered value tree produced by the source loaders.
//
// A decoded document is made of *Object (ordered keys), []any, string, Number,
// bool and nil. Objects keep their keys in input order so that rendering can
// follow declaration order for properties, parameters and paths.
package tree

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// Number is a JSON number kept in its literal text form.
type Number string

// MarshalJSON writes the number literal unchanged.
func (n Number) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("0"), nil
	}
	return []byte(n), nil
}

func (n Number) String() string { return string(n) }

// Object is a JSON object with insertion-ordered keys.
type Object struct {
	keys []string
	vals map[string]any
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// Set stores v under k. A key that already exists keeps its original position
// and reports replaced=true.
func (o *Object) Set(k string, v any) (replaced bool) {
	if o.vals == nil {
		o.vals = make(map[string]any)
	}
	if _, ok := o.vals[k]; ok {
		o.vals[k] = v
		return true
	}
	o.keys = append(o.keys, k)
	o.vals[k] = v
	return false
}

// Get returns the value stored under k.
func (o *Object) Get(k string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.vals[k]
	return v, ok
}

// Has reports whether k is present, including keys whose value is null.
func (o *Object) Has(k string) bool {
	_, ok := o.Get(k)
	return ok
}

// Keys returns the keys in input order. The slice must not be modified.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Object returns the value under k when it is an object.
func (o *Object) Object(k string) (*Object, bool) {
	v, _ := o.Get(k)
	m, ok := v.(*Object)
	return m, ok && m != nil
}

// String returns the value under k when it is a string.
func (o *Object) String(k string) (string, bool) {
	v, _ := o.Get(k)
	s, ok := v.(string)
	return s, ok
}

// Bool returns the value under k when it is a boolean.
func (o *Object) Bool(k string) (bool, bool) {
	v, _ := o.Get(k)
	b, ok := v.(bool)
	return b, ok
}

// Array returns the value under k when it is an array.
func (o *Object) Array(k string) ([]any, bool) {
	v, _ := o.Get(k)
	a, ok := v.([]any)
	return a, ok
}

// Strings returns the string elements of the array under k, skipping
// non-string entries.
func (o *Object) Strings(k string) []string {
	arr, _ := o.Array(k)
	if len(arr) == 0 {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON encodes the object with its keys in input order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		b.Write(vb)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Literal renders a tree value as compact JSON text, except that strings are
// returned without quotes. It is used to display enum members, defaults and
// examples.
func Literal(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case Number:
		return string(t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "<unprintable>"
	}
	return string(b)
}

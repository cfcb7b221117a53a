// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pbdb

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/stockparfait/errors"
)

// valueKind tags the variant held by Value.
type valueKind uint8

const (
	scalarValue valueKind = iota + 1
	sequenceValue
)

// Value of a query parameter: either a single scalar or an ordered sequence of
// scalars. Scalars are strings, booleans, integers, floats and fmt.Stringer
// implementations. Use Scalar, Sequence or ValueOf to create a Value; the zero
// Value is invalid.
type Value struct {
	kind  valueKind
	items []any
}

// Scalar creates a single-valued parameter.
func Scalar(x any) Value {
	return Value{kind: scalarValue, items: []any{x}}
}

// Sequence creates a multi-valued parameter. The elements are sent in the
// given order as a comma-separated list.
func Sequence[T any](xs ...T) Value {
	items := make([]any, len(xs))
	for i, x := range xs {
		items[i] = x
	}
	return Value{kind: sequenceValue, items: items}
}

// ValueOf converts a dynamically typed Go value to Value. Slices and arrays
// become sequences, except []byte which is a string scalar. Everything else is
// a scalar. Maps, structs, pointers and
// other non-scalar types are rejected with an InvalidArgument error.
func ValueOf(x any) (Value, error) {
	if v, ok := x.(Value); ok {
		return v, nil
	}
	if b, ok := x.([]byte); ok {
		return Scalar(string(b)), nil
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		return Value{kind: sequenceValue, items: items}, nil
	}
	if _, err := formatScalar(x); err != nil {
		return Value{}, err
	}
	return Scalar(x), nil
}

// Len is the number of elements in the value; 1 for a scalar.
func (v Value) Len() int { return len(v.items) }

// IsSequence is true when the value was created as a sequence, even of one
// element.
func (v Value) IsSequence() bool { return v.kind == sequenceValue }

// String implements fmt.Stringer. Invalid values print as "<invalid>".
func (v Value) String() string {
	s, err := Serialize(v)
	if err != nil {
		return "<invalid>"
	}
	return s
}

func invalidArgument(format string, args ...any) *Error {
	return &Error{Kind: InvalidArgument, Cause: errors.Reason(format, args...)}
}

// formatScalar converts a single scalar to its string form.
func formatScalar(x any) (string, error) {
	if _, ok := x.(Value); ok {
		return "", invalidArgument("nested value is not a scalar")
	}
	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return "", invalidArgument("nil %T is not a scalar", x)
		}
	}
	if s, ok := x.(fmt.Stringer); ok {
		return s.String(), nil
	}
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Invalid:
		return "", invalidArgument("nil is not a scalar")
	}
	return "", invalidArgument("%T is not a scalar", x)
}

// Serialize converts the value to the form expected by the service: a scalar
// as is, a sequence joined by commas without padding. Commas inside the
// elements are not escaped.
func Serialize(v Value) (string, error) {
	if v.kind == 0 || len(v.items) == 0 {
		return "", invalidArgument("value must have at least one element")
	}
	strs := make([]string, len(v.items))
	for i, x := range v.items {
		s, err := formatScalar(x)
		if err != nil {
			return "", err
		}
		strs[i] = s
	}
	if len(strs) == 1 {
		return strs[0], nil
	}
	return strings.Join(strs, ","), nil
}

// Query is the set of named filter parameters of a request.
type Query map[string]Value

// Copy creates a shallow copy of the query. Values are immutable, so it is safe
// to modify the copy.
func (q Query) Copy() Query {
	q2 := make(Query, len(q))
	for k, v := range q {
		q2[k] = v
	}
	return q2
}

// With returns a copy of the query with the parameter set to v, replacing any
// previous value of the same name.
func (q Query) With(name string, v Value) Query {
	q2 := q.Copy()
	q2[name] = v
	return q2
}

// Serialize converts every parameter to its string form. Each name appears
// exactly once in the result.
func (q Query) Serialize() (url.Values, error) {
	values := make(url.Values, len(q))
	for name, v := range q {
		if name == "" {
			return nil, invalidArgument("empty parameter name")
		}
		s, err := Serialize(v)
		if err != nil {
			return nil, &Error{
				Kind:    InvalidArgument,
				Message: fmt.Sprintf("parameter %q", name),
				Cause:   err,
			}
		}
		values.Set(name, s)
	}
	return values, nil
}

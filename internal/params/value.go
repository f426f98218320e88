package params

import (
	"fmt"
	"sort"
	"strings"
)

// Value is a resolved parameter: either a scalar or an ordered list of scalars.
type Value struct {
	scalar string
	list   []string
	isList bool
}

// Scalar returns a scalar Value.
func Scalar(str string) Value {
	return Value{scalar: str}
}

// List returns a list Value.
func List(items ...string) Value {
	return Value{list: append([]string{}, items...), isList: true}
}

// IsList returns true if the value is a list.
func (val Value) IsList() bool {
	return val.isList
}

// Items returns a copy of the list items, or a single element list holding the scalar.
func (val Value) Items() []string {
	if !val.isList {
		return []string{val.scalar}
	}

	return append([]string{}, val.list...)
}

// String returns the scalar, or the list items joined with commas as CloudFormation expects for list parameters.
func (val Value) String() string {
	if val.isList {
		return strings.Join(val.list, ",")
	}

	return val.scalar
}

// Set is an immutable resolved parameter set.
type Set struct {
	values map[string]Value
}

// NewSet returns a Set holding a copy of the given values.
func NewSet(values map[string]Value) *Set {
	set := &Set{values: make(map[string]Value, len(values))}

	for name, val := range values {
		set.values[name] = val
	}

	return set
}

// Get returns the value of the named parameter.
func (set *Set) Get(name string) (Value, bool) {
	if set == nil {
		return Value{}, false
	}

	val, ok := set.values[name]

	return val, ok
}

// Len returns the number of parameters.
func (set *Set) Len() int {
	if set == nil {
		return 0
	}

	return len(set.values)
}

// Names returns the sorted parameter names.
func (set *Set) Names() []string {
	if set == nil {
		return nil
	}

	names := make([]string, 0, len(set.values))

	for name := range set.values {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Strings returns the parameters rendered as strings, lists joined with commas.
func (set *Set) Strings() map[string]string {
	strs := make(map[string]string, set.Len())

	for _, name := range set.Names() {
		strs[name] = set.values[name].String()
	}

	return strs
}

// Overrides renders the parameters as `Name="value"` pairs, sorted by name, in the form accepted by
// `sam deploy --parameter-overrides`.
func (set *Set) Overrides() []string {
	overrides := make([]string, 0, set.Len())

	for _, name := range set.Names() {
		overrides = append(overrides, fmt.Sprintf("%s=%q", name, set.values[name].String()))
	}

	return overrides
}

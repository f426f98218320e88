package params

import (
	"fmt"
	"strings"
)

// UnresolvedParameterError occurs when placeholders match neither a parameter nor a registered account.
type UnresolvedParameterError struct {
	// Context names what was being resolved, e.g. a parameter or a job field.
	Context string
	Names   []string
}

func (err UnresolvedParameterError) Error() string {
	return fmt.Sprintf("unresolved parameter(s) in %s: %s", err.Context, strings.Join(err.Names, ", "))
}

// InvalidValueError occurs when a parameter holds a value that cannot be submitted, e.g. a table.
type InvalidValueError struct {
	Name  string
	Value any
}

func (err InvalidValueError) Error() string {
	return fmt.Sprintf("parameter %q has unsupported value of type %T", err.Name, err.Value)
}

// InvalidAccountError occurs when an account selector resolves to something that is not an account id.
type InvalidAccountError struct {
	Selector string
	Resolved string
}

func (err InvalidAccountError) Error() string {
	return fmt.Sprintf("account %q resolved to %q, which is not a twelve digit account id", err.Selector, err.Resolved)
}

// EmptyRegionsError occurs when a regions declaration resolves to nothing.
type EmptyRegionsError struct {
	Declared any
}

func (err EmptyRegionsError) Error() string {
	return fmt.Sprintf("regions %v resolved to an empty list", err.Declared)
}

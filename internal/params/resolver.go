// Package params resolves the layered parameter declarations of a deployment into concrete values.
//
// Resolution happens in a single pass over each value:
//
//   - literals (strings, numbers, booleans, lists of those) pass through unchanged;
//   - a value equal to AllRegionsToken expands to the main region followed by the other regions;
//   - every `{name}` placeholder is replaced by the parameter called name or, failing that, by the id of the
//     account registered under name.
//
// A substituted value is never expanded again.
package params

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"dario.cat/mergo"

	"github.com/delegat/stackdeploy/internal/errors"
)

// AllRegionsToken expands to every region of the organization, the main region first.
const AllRegionsToken = "ALL_REGIONS"

// AllAccountsSelector selects every account of the organization.
const AllAccountsSelector = "ALL"

var (
	placeholderPattern = regexp.MustCompile(`\{([A-Za-z0-9_.:-]+)\}`)
	accountIDPattern   = regexp.MustCompile(`^[0-9]{12}$`)
)

// AccountRegistry looks up account ids by symbolic name.
type AccountRegistry interface {
	AccountID(name string) (string, bool)
}

// Regions are the regions of the organization.
type Regions struct {
	Main   string
	Others []string
}

// All returns the main region followed by the other regions in declared order, without de-duplication.
func (regions Regions) All() []string {
	return append([]string{regions.Main}, regions.Others...)
}

// Resolver resolves parameter declarations. It holds no state besides its inputs and is safe to reuse.
type Resolver struct {
	regions  Regions
	accounts AccountRegistry
}

// NewResolver returns a resolver for the given organization regions and accounts registry.
func NewResolver(regions Regions, accounts AccountRegistry) *Resolver {
	return &Resolver{regions: regions, accounts: accounts}
}

// Resolve merges the given layers, later layers overriding earlier ones, and resolves every value. Placeholders are
// looked up among the merged layers first and in scope second; scope may be nil.
func (resolver *Resolver) Resolve(scope *Set, layers ...map[string]any) (*Set, error) {
	merged := map[string]any{}

	for _, layer := range layers {
		if len(layer) == 0 {
			continue
		}

		if err := mergo.Merge(&merged, layer, mergo.WithOverride); err != nil {
			return nil, errors.New(err)
		}
	}

	literals := make(map[string]Value, len(merged))
	errs := &errors.MultiError{}

	for name, raw := range merged {
		val, err := resolver.literal(name, raw)
		if err != nil {
			errs = errs.Append(err)
			continue
		}

		literals[name] = val
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	lookup := &layeredSet{first: NewSet(literals), second: scope}
	resolved := make(map[string]Value, len(literals))

	var unresolved []string

	for _, name := range sortedKeys(literals) {
		val, missing := resolver.substituteValue(lookup, literals[name])
		if len(missing) > 0 {
			unresolved = append(unresolved, missing...)
			continue
		}

		resolved[name] = val
	}

	if len(unresolved) > 0 {
		return nil, errors.New(UnresolvedParameterError{Context: "parameters", Names: dedupe(unresolved)})
	}

	return NewSet(resolved), nil
}

// Substitute replaces the placeholders of str using scope and the accounts registry.
func (resolver *Resolver) Substitute(scope *Set, str string) (string, error) {
	out, missing := resolver.substitute(scope, str)
	if len(missing) > 0 {
		return "", errors.New(UnresolvedParameterError{Context: strconv.Quote(str), Names: dedupe(missing)})
	}

	return out, nil
}

// Account resolves an account selector: AllAccountsSelector, a literal twelve digit id, a string with placeholders,
// or the bare name of a registered account.
func (resolver *Resolver) Account(scope *Set, selector string) (string, error) {
	selector = strings.TrimSpace(selector)

	switch {
	case selector == AllAccountsSelector, accountIDPattern.MatchString(selector):
		return selector, nil
	case placeholderPattern.MatchString(selector):
		id, err := resolver.Substitute(scope, selector)
		if err != nil {
			return "", err
		}

		if !accountIDPattern.MatchString(id) {
			return "", errors.New(InvalidAccountError{Selector: selector, Resolved: id})
		}

		return id, nil
	}

	if resolver.accounts != nil {
		if id, ok := resolver.accounts.AccountID(selector); ok {
			return id, nil
		}
	}

	return "", errors.New(UnresolvedParameterError{Context: "account " + strconv.Quote(selector), Names: []string{selector}})
}

// Regions resolves a regions declaration: a string or a list of strings, each of which may be AllRegionsToken or
// contain placeholders. A string made of a single placeholder naming a list parameter yields the list items.
func (resolver *Resolver) Regions(scope *Set, declared any) ([]string, error) {
	var items []string

	switch val := declared.(type) {
	case string:
		items = []string{val}
	case []string:
		items = val
	case []any:
		for _, item := range val {
			str, ok := item.(string)
			if !ok {
				return nil, errors.New(InvalidValueError{Name: "regions", Value: item})
			}

			items = append(items, str)
		}
	default:
		return nil, errors.New(InvalidValueError{Name: "regions", Value: declared})
	}

	var (
		regions []string
		missing []string
	)

	for _, item := range items {
		item = strings.TrimSpace(item)

		if item == AllRegionsToken {
			regions = append(regions, resolver.regions.All()...)
			continue
		}

		if match := placeholderPattern.FindStringSubmatch(item); match != nil && match[0] == item {
			if val, ok := scope.Get(match[1]); ok && val.IsList() {
				regions = append(regions, val.Items()...)
				continue
			}
		}

		region, unresolved := resolver.substitute(scope, item)
		if len(unresolved) > 0 {
			missing = append(missing, unresolved...)
			continue
		}

		regions = append(regions, region)
	}

	if len(missing) > 0 {
		return nil, errors.New(UnresolvedParameterError{Context: "regions", Names: dedupe(missing)})
	}

	if len(regions) == 0 {
		return nil, errors.New(EmptyRegionsError{Declared: declared})
	}

	return regions, nil
}

// literal converts a raw configuration value and expands the all-regions token.
func (resolver *Resolver) literal(name string, raw any) (Value, error) {
	switch val := raw.(type) {
	case []any:
		items := make([]string, 0, len(val))

		for _, item := range val {
			str, ok := scalarString(item)
			if !ok {
				return Value{}, InvalidValueError{Name: name, Value: item}
			}

			items = append(items, str)
		}

		return List(items...), nil
	case []string:
		return List(val...), nil
	}

	str, ok := scalarString(raw)
	if !ok {
		return Value{}, InvalidValueError{Name: name, Value: raw}
	}

	if str == AllRegionsToken {
		return List(resolver.regions.All()...), nil
	}

	return Scalar(str), nil
}

func (resolver *Resolver) substituteValue(scope lookupSet, val Value) (Value, []string) {
	if !val.IsList() {
		str, missing := resolver.substitute(scope, val.String())
		return Scalar(str), missing
	}

	var (
		items   = val.Items()
		missing []string
	)

	for i, item := range items {
		str, unresolved := resolver.substitute(scope, item)
		missing = append(missing, unresolved...)
		items[i] = str
	}

	return List(items...), missing
}

func (resolver *Resolver) substitute(scope lookupSet, str string) (string, []string) {
	var missing []string

	out := placeholderPattern.ReplaceAllStringFunc(str, func(placeholder string) string {
		name := placeholder[1 : len(placeholder)-1]

		if val, ok := scope.Get(name); ok {
			return val.String()
		}

		if resolver.accounts != nil {
			if id, ok := resolver.accounts.AccountID(name); ok {
				return id
			}
		}

		missing = append(missing, name)

		return placeholder
	})

	return out, missing
}

// lookupSet is satisfied by *Set and by layeredSet.
type lookupSet interface {
	Get(name string) (Value, bool)
}

type layeredSet struct {
	first  *Set
	second *Set
}

func (set *layeredSet) Get(name string) (Value, bool) {
	if val, ok := set.first.Get(name); ok {
		return val, true
	}

	return set.second.Get(name)
}

func scalarString(raw any) (string, bool) {
	switch val := raw.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case fmt.Stringer:
		return val.String(), true
	default:
		return "", false
	}
}

func sortedKeys(values map[string]Value) []string {
	keys := make([]string, 0, len(values))

	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}

	sort.Strings(out)

	return out
}

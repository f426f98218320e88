package config

import (
	"fmt"
	"maps"
	"sort"

	"github.com/delegat/stackdeploy/internal/errors"
)

// Global parameter store keys.
const (
	KeyCrossAccountRole = "cross-account-role"
	KeyRootOU           = "root-ou"
	KeyMainRegion       = "main-region"
	KeyOtherRegions     = "other-regions"
)

// Globals is the organization-wide parameter store shared by every repository.
type Globals struct {
	CrossAccountRole string
	RootOU           string
	MainRegion       string
	OtherRegions     []string

	// Scalars holds every top-level value that is not a table, the reserved keys included.
	Scalars map[string]any

	// Path is the file the store was read from.
	Path string

	repos map[string]map[string]any
}

// RepoParameters is the section of the global store dedicated to one repository.
type RepoParameters struct {
	Name string
	// Scalars are the repository level parameters.
	Scalars map[string]any
	// Sections are the per-job parameter sections.
	Sections map[string]map[string]any
}

// LoadGlobals reads and validates the global parameter store.
func LoadGlobals(path string) (*Globals, error) {
	raw, err := readTOML(path)
	if err != nil {
		return nil, err
	}

	return NewGlobals(path, raw)
}

// NewGlobals builds the global store from already parsed content.
func NewGlobals(path string, raw map[string]any) (*Globals, error) {
	globals := &Globals{
		Path:    path,
		Scalars: map[string]any{},
		repos:   map[string]map[string]any{},
	}

	for key, val := range raw {
		if table, ok := val.(map[string]any); ok {
			globals.repos[key] = table
			continue
		}

		globals.Scalars[key] = val
	}

	errs := &errors.MultiError{}

	for key, dst := range map[string]*string{
		KeyCrossAccountRole: &globals.CrossAccountRole,
		KeyRootOU:           &globals.RootOU,
		KeyMainRegion:       &globals.MainRegion,
	} {
		val, ok := stringValue(raw, key)

		switch {
		case !ok && raw[key] == nil:
			errs = errs.Append(MissingKeyError{File: path, Key: key})
		case !ok:
			errs = errs.Append(InvalidValueError{File: path, Key: key, Reason: fmt.Sprintf("expected a string, got %T", raw[key])})
		case val == "":
			errs = errs.Append(InvalidValueError{File: path, Key: key, Reason: "must not be empty"})
		default:
			*dst = val
		}
	}

	others, err := stringList(path, KeyOtherRegions, raw[KeyOtherRegions])
	if err != nil {
		errs = errs.Append(err)
	}

	globals.OtherRegions = others

	if err := errs.ErrorOrNil(); err != nil {
		return nil, sortedErrors(errs)
	}

	return globals, nil
}

// Repo returns the parameters of the given repository.
func (globals *Globals) Repo(name string) (*RepoParameters, error) {
	table, ok := globals.repos[name]
	if !ok {
		return nil, errors.New(RepoNotFoundError{File: globals.Path, Repo: name})
	}

	repo := &RepoParameters{
		Name:     name,
		Scalars:  map[string]any{},
		Sections: map[string]map[string]any{},
	}

	for key, val := range table {
		if section, ok := val.(map[string]any); ok {
			repo.Sections[key] = maps.Clone(section)
			continue
		}

		repo.Scalars[key] = val
	}

	return repo, nil
}

// Section returns a copy of the named parameter section, or an empty map if there is none.
func (repo *RepoParameters) Section(name string) map[string]any {
	section, ok := repo.Sections[name]
	if !ok {
		return map[string]any{}
	}

	return maps.Clone(section)
}

func stringList(file, key string, val any) ([]string, error) {
	switch list := val.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{list}, nil
	case []any:
		strs := make([]string, 0, len(list))

		for _, item := range list {
			str, ok := item.(string)
			if !ok || str == "" {
				return nil, InvalidValueError{File: file, Key: key, Reason: fmt.Sprintf("%v is not a non-empty string", item)}
			}

			strs = append(strs, str)
		}

		return strs, nil
	default:
		return nil, InvalidValueError{File: file, Key: key, Reason: fmt.Sprintf("expected a list of strings, got %T", val)}
	}
}

// sortedErrors orders the collected errors by message so that reports are stable.
func sortedErrors(errs *errors.MultiError) error {
	wrapped := errs.WrappedErrors()

	sort.SliceStable(wrapped, func(i, j int) bool {
		return wrapped[i].Error() < wrapped[j].Error()
	})

	return (&errors.MultiError{}).Append(wrapped...)
}

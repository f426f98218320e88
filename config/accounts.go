package config

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/delegat/stackdeploy/internal/errors"
)

// Accounts registry keys.
const (
	KeyAccountIDs      = "id"
	KeyAccountProfiles = "profile"

	// AdminAccount is the symbolic name of the organization management account.
	AdminAccount = "admin-account"
)

var accountIDPattern = regexp.MustCompile(`^[0-9]{12}$`)

// Account is one entry of the accounts registry.
type Account struct {
	Name    string
	ID      string
	Profile string
}

// Accounts is the registry of accounts keyed by symbolic name.
type Accounts struct {
	Path     string
	accounts map[string]Account
}

// IsAccountID returns true if str is a literal twelve digit account id.
func IsAccountID(str string) bool {
	return accountIDPattern.MatchString(str)
}

// LoadAccounts reads and validates the accounts registry.
func LoadAccounts(path string) (*Accounts, error) {
	raw, err := readTOML(path)
	if err != nil {
		return nil, err
	}

	return NewAccounts(path, raw)
}

// NewAccounts builds the registry from already parsed content. The layout is one `id` table and one `profile`
// table, both keyed by account name.
func NewAccounts(path string, raw map[string]any) (*Accounts, error) {
	registry := &Accounts{Path: path, accounts: map[string]Account{}}
	errs := &errors.MultiError{}

	for key := range raw {
		if key != KeyAccountIDs && key != KeyAccountProfiles {
			errs = errs.Append(UnknownKeysError{File: path, Keys: []string{key}})
		}
	}

	ids, ok := raw[KeyAccountIDs].(map[string]any)
	if !ok {
		errs = errs.Append(MissingKeyError{File: path, Key: KeyAccountIDs})
	}

	for name, val := range ids {
		id, err := accountID(val)
		if err != nil {
			errs = errs.Append(InvalidValueError{File: path, Key: KeyAccountIDs + "." + name, Reason: err.Error()})
			continue
		}

		registry.accounts[name] = Account{Name: name, ID: id}
	}

	profiles, _ := raw[KeyAccountProfiles].(map[string]any)

	for name, val := range profiles {
		profile, ok := val.(string)
		if !ok {
			errs = errs.Append(InvalidValueError{File: path, Key: KeyAccountProfiles + "." + name, Reason: fmt.Sprintf("expected a string, got %T", val)})
			continue
		}

		account := registry.accounts[name]
		account.Name = name
		account.Profile = profile
		registry.accounts[name] = account
	}

	admin := registry.accounts[AdminAccount]
	if admin.ID == "" {
		errs = errs.Append(MissingKeyError{File: path, Key: KeyAccountIDs + "." + AdminAccount})
	}

	if admin.Profile == "" {
		errs = errs.Append(MissingKeyError{File: path, Key: KeyAccountProfiles + "." + AdminAccount})
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, sortedErrors(errs)
	}

	return registry, nil
}

// Admin returns the organization management account.
func (registry *Accounts) Admin() Account {
	return registry.accounts[AdminAccount]
}

// Lookup returns the account registered under name.
func (registry *Accounts) Lookup(name string) (Account, bool) {
	account, ok := registry.accounts[name]
	if !ok || account.ID == "" {
		return Account{}, false
	}

	return account, true
}

// AccountID returns the id of the account registered under name.
func (registry *Accounts) AccountID(name string) (string, bool) {
	account, ok := registry.Lookup(name)

	return account.ID, ok
}

// Names returns the sorted names of the registered accounts.
func (registry *Accounts) Names() []string {
	names := make([]string, 0, len(registry.accounts))

	for name := range registry.accounts {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func accountID(val any) (string, error) {
	var id string

	switch v := val.(type) {
	case string:
		id = v
	case int64:
		// An unquoted id is read as an integer and loses its leading zeros.
		id = fmt.Sprintf("%012d", v)
	default:
		return "", fmt.Errorf("expected a string, got %T", val) //nolint:err113
	}

	if !IsAccountID(id) {
		return "", fmt.Errorf("%q is not a twelve digit account id", id) //nolint:err113
	}

	return id, nil
}

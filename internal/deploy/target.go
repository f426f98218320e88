package deploy

import (
	"slices"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/internal/params"
)

// Kind is the deployment strategy of a job.
type Kind int

const (
	// SingleStack deploys one stack per region into a single account.
	SingleStack Kind = iota
	// StackSet deploys a service managed stack set owned by the management account to every account of the root
	// organizational unit.
	StackSet
)

func (kind Kind) String() string {
	if kind == StackSet {
		return "stack set"
	}

	return "stack"
}

// Target is where a job is deployed.
type Target struct {
	Kind Kind
	// AccountID is the account the stack is deployed into or, for a stack set, the owning management account.
	AccountID            string
	OrganizationalUnitID string
	Regions              []string
}

// Classifier turns a resolved account selector and region list into a Target.
type Classifier struct {
	adminAccountID string
	rootOU         string
}

// NewClassifier returns a classifier fanning `ALL` jobs out from the admin account to rootOU.
func NewClassifier(adminAccountID, rootOU string) *Classifier {
	return &Classifier{adminAccountID: adminAccountID, rootOU: rootOU}
}

// Classify returns the target of a job whose account selector resolved to account.
func (classifier *Classifier) Classify(account string, regions []string) (Target, error) {
	if len(regions) == 0 {
		return Target{}, errors.New(params.EmptyRegionsError{Declared: regions})
	}

	if account == params.AllAccountsSelector {
		return Target{
			Kind:                 StackSet,
			AccountID:            classifier.adminAccountID,
			OrganizationalUnitID: classifier.rootOU,
			Regions:              slices.Clone(regions),
		}, nil
	}

	return Target{
		Kind:      SingleStack,
		AccountID: account,
		Regions:   slices.Clone(regions),
	}, nil
}

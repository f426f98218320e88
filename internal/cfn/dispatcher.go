package cfn

import (
	"context"
	"maps"
	"slices"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/google/uuid"

	"github.com/delegat/stackdeploy/internal/errors"
	"github.com/delegat/stackdeploy/pkg/log"
)

// Every mutation is tagged as immutable infrastructure.
const (
	ImmutableTagKey   = "infra:immutable"
	ImmutableTagValue = "true"
)

const (
	maxConcurrentPercentage = 100
	failureToleranceCount   = 0
)

// Outcome tells what a deployment did.
type Outcome int

const (
	Created Outcome = iota + 1
	Updated
	// NoChange means the resource already matched the requested template and parameters.
	NoChange
	// AlreadyExisted means a create lost the race against an existing resource of the same name. Nothing is updated.
	AlreadyExisted
)

func (outcome Outcome) String() string {
	switch outcome {
	case Created:
		return "created"
	case Updated:
		return "updated"
	case NoChange:
		return "no change"
	case AlreadyExisted:
		return "already existed"
	}

	return "unknown"
}

// Changed returns true if the deployment mutated the resource.
func (outcome Outcome) Changed() bool {
	return outcome == Created || outcome == Updated
}

// Result is the outcome of a deployment and, when the deployment was waited for, the status it converged to.
type Result struct {
	Outcome     Outcome
	Convergence *Convergence
}

// StackInput describes a single stack deployment.
type StackInput struct {
	Name         string
	TemplateBody string
	Parameters   map[string]string
	Capabilities []string
	Target       RemoteTarget
}

// StackSetInput describes a service managed stack set deployed to every account of an organizational unit.
type StackSetInput struct {
	Name         string
	TemplateBody string
	Parameters   map[string]string
	Capabilities []string
	// Owner is the organization management account and the region the stack set is administered from.
	Owner                RemoteTarget
	OrganizationalUnitID string
	Regions              []string
}

// Dispatcher creates or updates stacks and stack sets and waits for them to converge.
type Dispatcher struct {
	provider ClientProvider
	prober   *Prober
	poller   *Poller
	logger   log.Logger
	newToken func() string
}

// NewDispatcher returns a dispatcher issuing every call through a fresh client of provider.
func NewDispatcher(l log.Logger, provider ClientProvider, poller *Poller) *Dispatcher {
	return &Dispatcher{
		provider: provider,
		prober:   NewProber(provider),
		poller:   poller,
		logger:   l,
		newToken: uuid.NewString,
	}
}

// DeployStack updates the stack if it exists and creates it otherwise, then waits for it to converge.
func (dispatcher *Dispatcher) DeployStack(ctx context.Context, in StackInput) (Result, error) {
	l := dispatcher.logger.WithField(log.FieldKeyTarget, in.Target.String())

	exists, err := dispatcher.prober.StackExists(ctx, in.Target, in.Name)
	if err != nil {
		return Result{}, err
	}

	outcome := Created

	if exists {
		l.Infof("Updating stack %s", in.Name)

		err = dispatcher.call(ctx, "stack "+in.Name, in.Target, func(ctx context.Context, client API) error {
			_, err := client.UpdateStack(ctx, &cloudformation.UpdateStackInput{
				StackName:    aws.String(in.Name),
				TemplateBody: aws.String(in.TemplateBody),
				Parameters:   parameters(in.Parameters),
				Capabilities: capabilities(in.Capabilities),
				Tags:         immutableTags(),
			})

			return err
		})
		if IsNoUpdates(err) {
			l.Infof("Stack %s is up to date", in.Name)
			return Result{Outcome: NoChange}, nil
		}

		outcome = Updated
	} else {
		l.Infof("Creating stack %s", in.Name)

		token := dispatcher.newToken()

		err = dispatcher.call(ctx, "stack "+in.Name, in.Target, func(ctx context.Context, client API) error {
			_, err := client.CreateStack(ctx, &cloudformation.CreateStackInput{
				StackName:          aws.String(in.Name),
				TemplateBody:       aws.String(in.TemplateBody),
				Parameters:         parameters(in.Parameters),
				Capabilities:       capabilities(in.Capabilities),
				Tags:               immutableTags(),
				ClientRequestToken: aws.String(token),
			})

			return err
		})
		if IsAlreadyExists(err) {
			l.Infof("Stack %s already exists", in.Name)
			return Result{Outcome: AlreadyExisted}, nil
		}
	}

	if err != nil {
		return Result{}, errors.New(err)
	}

	conv, err := dispatcher.poller.Wait(ctx, "stack "+in.Name, in.Target, StackStatus(dispatcher.provider, in.Target, in.Name))
	if err != nil {
		return Result{Outcome: outcome}, err
	}

	return Result{Outcome: outcome, Convergence: &conv}, nil
}

// DeployStackSet updates the stack set if it exists and differs from the input, or creates it and its instances
// in every requested region of the organizational unit.
func (dispatcher *Dispatcher) DeployStackSet(ctx context.Context, in StackSetInput) (Result, error) {
	current, err := dispatcher.prober.DescribeStackSet(ctx, in.Owner, in.Name)
	if err != nil {
		return Result{}, err
	}

	if current != nil {
		return dispatcher.updateStackSet(ctx, in, current)
	}

	return dispatcher.createStackSet(ctx, in)
}

func (dispatcher *Dispatcher) updateStackSet(ctx context.Context, in StackSetInput, current *types.StackSet) (Result, error) {
	l := dispatcher.logger.WithField(log.FieldKeyTarget, in.Owner.String())

	if SameStackSet(current, in) {
		// A previous run may have created the stack set and failed before its instances were created.
		hasInstances, err := dispatcher.prober.StackSetHasInstances(ctx, in.Owner, in.Name)
		if err != nil {
			return Result{}, err
		}

		if hasInstances {
			l.Infof("Stack set %s is up to date", in.Name)
			return Result{Outcome: NoChange}, nil
		}

		l.Infof("Stack set %s is up to date but has no instances", in.Name)

		return dispatcher.createStackInstances(ctx, in, Updated)
	}

	l.Infof("Updating stack set %s", in.Name)

	var (
		operationID = dispatcher.newToken()
		out         *cloudformation.UpdateStackSetOutput
	)

	err := dispatcher.call(ctx, "stack set "+in.Name, in.Owner, func(ctx context.Context, client API) error {
		var err error

		out, err = client.UpdateStackSet(ctx, &cloudformation.UpdateStackSetInput{
			StackSetName:         aws.String(in.Name),
			TemplateBody:         aws.String(in.TemplateBody),
			Parameters:           parameters(in.Parameters),
			Capabilities:         capabilities(in.Capabilities),
			PermissionModel:      types.PermissionModelsServiceManaged,
			AutoDeployment:       autoDeployment(),
			OperationPreferences: operationPreferences(),
			OperationId:          aws.String(operationID),
			Tags:                 immutableTags(),
		})

		return err
	})
	if err != nil {
		return Result{}, errors.New(err)
	}

	conv, err := dispatcher.poller.Wait(ctx, "stack set "+in.Name+" update", in.Owner,
		OperationStatus(dispatcher.provider, in.Owner, in.Name, aws.ToString(out.OperationId)))
	if err != nil {
		return Result{Outcome: Updated}, err
	}

	return Result{Outcome: Updated, Convergence: &conv}, nil
}

func (dispatcher *Dispatcher) createStackSet(ctx context.Context, in StackSetInput) (Result, error) {
	l := dispatcher.logger.WithField(log.FieldKeyTarget, in.Owner.String())

	l.Infof("Creating stack set %s", in.Name)

	token := dispatcher.newToken()

	err := dispatcher.call(ctx, "stack set "+in.Name, in.Owner, func(ctx context.Context, client API) error {
		_, err := client.CreateStackSet(ctx, &cloudformation.CreateStackSetInput{
			StackSetName:       aws.String(in.Name),
			TemplateBody:       aws.String(in.TemplateBody),
			Parameters:         parameters(in.Parameters),
			Capabilities:       capabilities(in.Capabilities),
			PermissionModel:    types.PermissionModelsServiceManaged,
			AutoDeployment:     autoDeployment(),
			Tags:               immutableTags(),
			ClientRequestToken: aws.String(token),
		})

		return err
	})
	if IsAlreadyExists(err) {
		l.Infof("Stack set %s already exists", in.Name)
		return Result{Outcome: AlreadyExisted}, nil
	}

	if err != nil {
		return Result{}, errors.New(err)
	}

	conv, err := dispatcher.poller.Wait(ctx, "stack set "+in.Name, in.Owner, StackSetStatus(dispatcher.provider, in.Owner, in.Name))
	if err != nil {
		return Result{Outcome: Created}, err
	}

	if !conv.State.Healthy() {
		return Result{Outcome: Created, Convergence: &conv}, nil
	}

	return dispatcher.createStackInstances(ctx, in, Created)
}

// createStackInstances deploys the stack set to every account of the organizational unit in the requested regions.
func (dispatcher *Dispatcher) createStackInstances(ctx context.Context, in StackSetInput, outcome Outcome) (Result, error) {
	l := dispatcher.logger.WithField(log.FieldKeyTarget, in.Owner.String())

	l.Infof("Creating instances of stack set %s in %s for regions %v", in.Name, in.OrganizationalUnitID, in.Regions)

	var (
		operationID = dispatcher.newToken()
		out         *cloudformation.CreateStackInstancesOutput
	)

	err := dispatcher.call(ctx, "stack set "+in.Name+" instances", in.Owner, func(ctx context.Context, client API) error {
		var err error

		out, err = client.CreateStackInstances(ctx, &cloudformation.CreateStackInstancesInput{
			StackSetName:         aws.String(in.Name),
			DeploymentTargets:    &types.DeploymentTargets{OrganizationalUnitIds: []string{in.OrganizationalUnitID}},
			Regions:              slices.Clone(in.Regions),
			OperationPreferences: operationPreferences(),
			OperationId:          aws.String(operationID),
		})

		return err
	})
	if err != nil {
		return Result{Outcome: outcome}, errors.New(err)
	}

	conv, err := dispatcher.poller.Wait(ctx, "stack set "+in.Name+" instances", in.Owner,
		OperationStatus(dispatcher.provider, in.Owner, in.Name, aws.ToString(out.OperationId)))
	if err != nil {
		return Result{Outcome: outcome}, err
	}

	return Result{Outcome: outcome, Convergence: &conv}, nil
}

// call issues one mutating call through a fresh client per attempt, retrying throttling and conflicting operations.
func (dispatcher *Dispatcher) call(ctx context.Context, resource string, target RemoteTarget, fn func(ctx context.Context, client API) error) error {
	return dispatcher.poller.Retry(ctx, resource, target, func(ctx context.Context) error {
		client, err := dispatcher.provider.Client(ctx, target)
		if err != nil {
			return err
		}

		return fn(ctx, client)
	})
}

// SameStackSet returns true if the stack set already runs the template, parameters and capabilities of in.
func SameStackSet(current *types.StackSet, in StackSetInput) bool {
	if aws.ToString(current.TemplateBody) != in.TemplateBody {
		return false
	}

	currentParams := make(map[string]string, len(current.Parameters))
	for _, param := range current.Parameters {
		currentParams[aws.ToString(param.ParameterKey)] = aws.ToString(param.ParameterValue)
	}

	wantParams := in.Parameters
	if wantParams == nil {
		wantParams = map[string]string{}
	}

	if !maps.Equal(currentParams, wantParams) {
		return false
	}

	currentCaps := make([]string, 0, len(current.Capabilities))
	for _, capability := range current.Capabilities {
		currentCaps = append(currentCaps, string(capability))
	}

	wantCaps := slices.Clone(in.Capabilities)

	slices.Sort(currentCaps)
	slices.Sort(wantCaps)

	return slices.Equal(currentCaps, wantCaps)
}

func parameters(values map[string]string) []types.Parameter {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	params := make([]types.Parameter, 0, len(keys))
	for _, key := range keys {
		params = append(params, types.Parameter{
			ParameterKey:   aws.String(key),
			ParameterValue: aws.String(values[key]),
		})
	}

	return params
}

func capabilities(values []string) []types.Capability {
	caps := make([]types.Capability, 0, len(values))
	for _, val := range values {
		caps = append(caps, types.Capability(val))
	}

	return caps
}

func immutableTags() []types.Tag {
	return []types.Tag{{Key: aws.String(ImmutableTagKey), Value: aws.String(ImmutableTagValue)}}
}

func autoDeployment() *types.AutoDeployment {
	return &types.AutoDeployment{
		Enabled:                      aws.Bool(true),
		RetainStacksOnAccountRemoval: aws.Bool(false),
	}
}

func operationPreferences() *types.StackSetOperationPreferences {
	return &types.StackSetOperationPreferences{
		FailureToleranceCount:   aws.Int32(failureToleranceCount),
		MaxConcurrentPercentage: aws.Int32(maxConcurrentPercentage),
		RegionConcurrencyType:   types.RegionConcurrencyTypeParallel,
	}
}

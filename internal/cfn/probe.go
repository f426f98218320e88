package cfn

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation/types"

	"github.com/delegat/stackdeploy/internal/errors"
)

// Prober answers whether stacks and stack sets exist. Only not-found errors mean absence; every other error is
// returned to the caller.
type Prober struct {
	provider ClientProvider
}

// NewProber returns a prober issuing every call through a fresh client of provider.
func NewProber(provider ClientProvider) *Prober {
	return &Prober{provider: provider}
}

// StackExists returns true if the named stack exists in target.
func (prober *Prober) StackExists(ctx context.Context, target RemoteTarget, name string) (bool, error) {
	stack, err := prober.DescribeStack(ctx, target, name)
	if err != nil {
		return false, err
	}

	return stack != nil, nil
}

// DescribeStack returns the named stack, or nil if it does not exist.
func (prober *Prober) DescribeStack(ctx context.Context, target RemoteTarget, name string) (*types.Stack, error) {
	client, err := prober.provider.Client(ctx, target)
	if err != nil {
		return nil, err
	}

	out, err := client.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{StackName: aws.String(name)})
	if err != nil {
		if IsStackNotFound(err) {
			return nil, nil
		}

		return nil, errors.New(err)
	}

	if len(out.Stacks) == 0 {
		return nil, nil
	}

	return &out.Stacks[0], nil
}

// StackSetExists returns true if the named stack set exists in target.
func (prober *Prober) StackSetExists(ctx context.Context, target RemoteTarget, name string) (bool, error) {
	set, err := prober.DescribeStackSet(ctx, target, name)
	if err != nil {
		return false, err
	}

	return set != nil, nil
}

// DescribeStackSet returns the named stack set, or nil if it does not exist.
func (prober *Prober) DescribeStackSet(ctx context.Context, target RemoteTarget, name string) (*types.StackSet, error) {
	client, err := prober.provider.Client(ctx, target)
	if err != nil {
		return nil, err
	}

	out, err := client.DescribeStackSet(ctx, &cloudformation.DescribeStackSetInput{StackSetName: aws.String(name)})
	if err != nil {
		if IsStackSetNotFound(err) {
			return nil, nil
		}

		return nil, errors.New(err)
	}

	// Deleted stack sets remain describable for a while.
	if out.StackSet == nil || out.StackSet.Status == types.StackSetStatusDeleted {
		return nil, nil
	}

	return out.StackSet, nil
}

// StackSetHasInstances returns true if the named stack set has at least one stack instance.
func (prober *Prober) StackSetHasInstances(ctx context.Context, target RemoteTarget, name string) (bool, error) {
	client, err := prober.provider.Client(ctx, target)
	if err != nil {
		return false, err
	}

	out, err := client.ListStackInstances(ctx, &cloudformation.ListStackInstancesInput{
		StackSetName: aws.String(name),
		MaxResults:   aws.Int32(1),
	})
	if err != nil {
		return false, errors.New(err)
	}

	return len(out.Summaries) > 0, nil
}
